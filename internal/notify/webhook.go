// Package notify delivers alerts to external webhook endpoints. Delivery is
// best effort: the persisted alert is the source of truth, a failed webhook
// only costs the push notification.
package notify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/halcyon-app/halcyon/pkg/types"
)

const defaultTimeout = 5 * time.Second

// WebhookNotifier posts alerts as JSON to per-severity webhook URLs.
type WebhookNotifier struct {
	urls   map[types.AlertLevel]string
	client *http.Client
	log    *logrus.Entry
}

// NewWebhookNotifier creates a notifier from a severity→URL map. Levels
// without a URL are silently undeliverable.
func NewWebhookNotifier(urls map[types.AlertLevel]string) *WebhookNotifier {
	return &WebhookNotifier{
		urls:   urls,
		client: &http.Client{Timeout: defaultTimeout},
		log:    logrus.WithField("component", "webhook_notifier"),
	}
}

// Deliver posts the alert to the webhook configured for its severity.
// Returns false when no URL is configured or the endpoint did not accept
// the alert.
func (n *WebhookNotifier) Deliver(alert *types.Alert) bool {
	url, ok := n.urls[alert.Level]
	if !ok || url == "" {
		return false
	}

	body, err := json.Marshal(alert)
	if err != nil {
		n.log.WithError(err).WithField("alert_id", alert.ID).Error("failed to encode alert")
		return false
	}

	resp, err := n.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		n.log.WithError(err).WithFields(logrus.Fields{
			"alert_id": alert.ID,
			"level":    alert.Level,
		}).Warn("webhook delivery failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.log.WithFields(logrus.Fields{
			"alert_id": alert.ID,
			"status":   resp.StatusCode,
		}).Warn("webhook rejected alert")
		return false
	}

	n.log.WithFields(logrus.Fields{
		"alert_id": alert.ID,
		"level":    alert.Level,
	}).Debug("alert delivered")
	return true
}
