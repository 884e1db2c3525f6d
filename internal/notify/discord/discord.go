// Package discord delivers notifications through a Discord webhook.
package discord

import (
	"context"
	"fmt"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/notify"
	"github.com/bwmarrin/discordgo"
)

// webhookExecutor abstracts the discordgo.Session method we use, enabling test mocks.
type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier executes one webhook.
type Notifier struct {
	id      string
	token   string
	session webhookExecutor
}

// New creates a Notifier for the given webhook id and token. Webhook
// execution needs no bot token, so the session is unauthenticated.
func New(webhookID, token string) (*Notifier, error) {
	if webhookID == "" || token == "" {
		return nil, fmt.Errorf("discord: webhook id and token are required")
	}
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	return &Notifier{id: webhookID, token: token, session: s}, nil
}

// Name implements notify.Notifier.
func (n *Notifier) Name() string { return "discord" }

// Notify implements notify.Notifier.
func (n *Notifier) Notify(ctx context.Context, note notify.Notification) error {
	params := &discordgo.WebhookParams{
		Content: note.Title,
		Embeds:  []*discordgo.MessageEmbed{toEmbed(note)},
	}
	if _, err := n.session.WebhookExecute(n.id, n.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: execute webhook: %w", err)
	}
	return nil
}

// toEmbed converts a Notification to a Discord Embed.
func toEmbed(note notify.Notification) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       note.Title,
		Description: note.Body,
	}
	if note.Color != "" {
		embed.Color = parseHexColor(note.Color)
	}
	for _, f := range note.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Short,
		})
	}
	return embed
}

// parseHexColor converts a hex color string (e.g. "#36a64f") to an int.
func parseHexColor(hex string) int {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	var color int
	for _, c := range hex {
		color <<= 4
		switch {
		case c >= '0' && c <= '9':
			color |= int(c - '0')
		case c >= 'a' && c <= 'f':
			color |= int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			color |= int(c-'A') + 10
		}
	}
	return color
}
