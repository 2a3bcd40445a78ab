package notify

import (
	"encoding/json"
	"fmt"

	"apt/src/interfaces"
	"apt/src/logger"
	"apt/src/models"
)

// -----------------------------------------------------------------------------
// WebhookNotifier posts the batched alert message to the configured channel
// webhook. Delivery is at-most-once; a failed post is dropped, the next
// detection cycle produces a fresh batch.
// -----------------------------------------------------------------------------

type WebhookNotifier struct {
	URL     string
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewWebhookNotifier(cfg *models.MConfig, netMgr interfaces.INetworkManager) *WebhookNotifier {
	return &WebhookNotifier{
		URL:     cfg.Alerts.WebhookURL,
		Network: netMgr,
		Logger:  logger.NewLogger(cfg.LogLevel, "WebhookNotifier"),
	}
}

// -----------------------------------------------------------------------------

type webhookPayload struct {
	Content string `json:"content"`
}

// -----------------------------------------------------------------------------

// Notify posts one alert batch to the webhook.
func (n *WebhookNotifier) Notify(batch models.MAlertBatch) error {
	if n.URL == "" {
		return fmt.Errorf("no webhook url configured")
	}

	body, err := json.Marshal(webhookPayload{Content: batch.Message})
	if err != nil {
		return err
	}

	if _, err := n.Network.Post(n.URL, body, "application/json"); err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}

	n.Logger.Info("Delivered alert batch with %d alerts", len(batch.Alerts))
	return nil
}
