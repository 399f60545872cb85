package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-app/halcyon/pkg/types"
)

func TestHubBroadcastsAlerts(t *testing.T) {
	hub := NewWebSocketHub(nil)
	go hub.Run()
	defer hub.Stop()

	client := &MockClient{SendChan: make(chan []byte, 8)}
	hub.Register(client)

	hub.BroadcastAlert(&types.Alert{
		ID:     "a-1",
		UserID: "user-1",
		RuleID: "rule_1",
		Level:  types.AlertLevelHigh,
		Status: types.AlertStatusActive,
	})

	select {
	case data := <-client.SendChan:
		var event AlertEvent
		require.NoError(t, json.Unmarshal(data, &event))
		assert.Equal(t, "alert", event.Type)
		require.NotNil(t, event.Alert)
		assert.Equal(t, "a-1", event.Alert.ID)
		assert.Equal(t, types.AlertLevelHigh, event.Alert.Level)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for broadcast")
	}
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := NewWebSocketHub(nil)
	go hub.Run()
	defer hub.Stop()

	// Zero-capacity channel: the first broadcast cannot be delivered and the
	// client is disconnected instead of blocking the hub.
	slow := &MockClient{SendChan: make(chan []byte)}
	healthy := &MockClient{SendChan: make(chan []byte, 8)}
	hub.Register(slow)
	hub.Register(healthy)

	hub.BroadcastAlert(&types.Alert{ID: "a-1"})

	select {
	case <-healthy.SendChan:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for broadcast to healthy client")
	}

	// The slow client's channel is closed on disconnect.
	select {
	case _, open := <-slow.SendChan:
		assert.False(t, open, "slow client channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for slow client disconnect")
	}
}
