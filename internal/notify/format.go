package notify

import (
	"fmt"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/models"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/stats"
)

// FormatResolved describes a resolution performed by "user" or "admin".
func FormatResolved(conv *models.Conversation, by, notes string) Notification {
	actor := "the user"
	if by == "admin" {
		actor = "an admin"
	}
	n := Notification{
		Title: fmt.Sprintf("Conversation %s resolved by %s", conv.ID, actor),
		Body:  notes,
		Color: ColorSuccess,
		Fields: []Field{
			{Name: "Topic", Value: conv.Topic},
			{Name: "User", Value: conv.UserName, Short: true},
			{Name: "Priority", Value: conv.Priority, Short: true},
			{Name: "Messages", Value: fmt.Sprintf("%d", len(conv.Messages)), Short: true},
		},
	}
	if conv.ResolvedDate != nil {
		n.Fields = append(n.Fields, Field{Name: "Resolved", Value: *conv.ResolvedDate, Short: true})
	}
	return n
}

// FormatDigest describes a periodic stats digest.
func FormatDigest(s stats.Stats) Notification {
	return Notification{
		Title: "Support digest",
		Body:  s.Summary(),
		Color: ColorInfo,
		Fields: []Field{
			{Name: "Open", Value: fmt.Sprintf("%d", s.Open), Short: true},
			{Name: "Resolved", Value: fmt.Sprintf("%d", s.Resolved), Short: true},
			{Name: "AI assisted", Value: fmt.Sprintf("%d", s.AIAssisted), Short: true},
			{Name: "AI cost", Value: fmt.Sprintf("$%.3f", s.AICost), Short: true},
		},
	}
}
