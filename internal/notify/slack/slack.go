// Package slack delivers notifications through a Slack incoming webhook.
package slack

import (
	"context"
	"fmt"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/notify"
	slackapi "github.com/slack-go/slack"
)

// postFunc matches slackapi.PostWebhookContext, enabling test fakes.
type postFunc func(ctx context.Context, url string, msg *slackapi.WebhookMessage) error

// Notifier posts to one incoming webhook URL.
type Notifier struct {
	url  string
	post postFunc
}

// New creates a Notifier for webhookURL.
func New(webhookURL string) (*Notifier, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("slack: webhook url is required")
	}
	return &Notifier{url: webhookURL, post: slackapi.PostWebhookContext}, nil
}

// Name implements notify.Notifier.
func (n *Notifier) Name() string { return "slack" }

// Notify implements notify.Notifier.
func (n *Notifier) Notify(ctx context.Context, note notify.Notification) error {
	if err := n.post(ctx, n.url, toWebhookMessage(note)); err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	return nil
}

// toWebhookMessage converts a Notification to a webhook payload with one
// attachment. Text carries the plain rendering for clients without
// attachment support.
func toWebhookMessage(note notify.Notification) *slackapi.WebhookMessage {
	att := slackapi.Attachment{
		Title:    note.Title,
		Text:     note.Body,
		Color:    note.Color,
		Fallback: note.Title,
	}
	for _, f := range note.Fields {
		att.Fields = append(att.Fields, slackapi.AttachmentField{
			Title: f.Name,
			Value: f.Value,
			Short: f.Short,
		})
	}
	return &slackapi.WebhookMessage{
		Text:        note.Title,
		Attachments: []slackapi.Attachment{att},
	}
}
