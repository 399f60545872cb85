package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/halcyon-app/halcyon/pkg/types"
)

func testAlert(level types.AlertLevel) *types.Alert {
	return &types.Alert{
		ID:        "alert-1",
		UserID:    "user-1",
		RuleID:    "rule_2",
		Level:     level,
		Message:   "High emotional volatility within the last 24 hours",
		CreatedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Status:    types.AlertStatusActive,
	}
}

func TestDeliverPostsAlert(t *testing.T) {
	received := make(chan types.Alert, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type, got %s", r.Header.Get("Content-Type"))
		}
		var alert types.Alert
		if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
			t.Errorf("failed to decode alert: %v", err)
		}
		received <- alert
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(map[types.AlertLevel]string{types.AlertLevelMedium: server.URL})
	if !notifier.Deliver(testAlert(types.AlertLevelMedium)) {
		t.Fatal("expected delivery to succeed")
	}

	alert := <-received
	if alert.ID != "alert-1" {
		t.Errorf("expected alert-1, got %s", alert.ID)
	}
	if alert.Level != types.AlertLevelMedium {
		t.Errorf("expected medium level, got %s", alert.Level)
	}
}

func TestDeliverWithoutURLFails(t *testing.T) {
	notifier := NewWebhookNotifier(map[types.AlertLevel]string{types.AlertLevelHigh: "http://example.invalid/hook"})
	if notifier.Deliver(testAlert(types.AlertLevelLow)) {
		t.Error("expected delivery to fail for unmapped level")
	}
}

func TestDeliverSwallowsEndpointErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(map[types.AlertLevel]string{types.AlertLevelHigh: server.URL})
	if notifier.Deliver(testAlert(types.AlertLevelHigh)) {
		t.Error("expected delivery to fail on 500")
	}

	notifier = NewWebhookNotifier(map[types.AlertLevel]string{types.AlertLevelHigh: "http://127.0.0.1:1/hook"})
	if notifier.Deliver(testAlert(types.AlertLevelHigh)) {
		t.Error("expected delivery to fail on connection error")
	}
}
