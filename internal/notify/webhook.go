package notify

import (
	"log"

	"github.com/salemkamoundev/Snay3ia/internal/models"
	"github.com/slack-go/slack"
)

// WebhookConfig controls the optional ops mirror: every notification is
// also posted to a Slack incoming webhook when one is configured.
type WebhookConfig struct {
	URL string
}

// Mirror posts a notification to the ops webhook. Best-effort: errors are
// logged, not returned.
func Mirror(n *models.Notification, cfg WebhookConfig) {
	if cfg.URL == "" {
		return
	}
	msg := &slack.WebhookMessage{
		Text: "[" + n.Type + "] " + n.RecipientID + ": " + n.Message,
	}
	if err := slack.PostWebhook(cfg.URL, msg); err != nil {
		log.Printf("notify: webhook mirror failed: %v", err)
	}
}
