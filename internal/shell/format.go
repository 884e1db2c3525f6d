package shell

import (
	"fmt"
	"strings"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/models"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/session"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/stats"
)

// formatConversationTable formats conversations as a table, marking focus.
func formatConversationTable(convs []models.Conversation, focus string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("**Conversations** (%d)\n", len(convs)))
	b.WriteString(fmt.Sprintf("  %-8s %-9s %-11s %-18s %-8s %s\n",
		"ID", "STATUS", "STARTED", "USER", "PRI", "TOPIC"))
	for _, c := range convs {
		mark := " "
		if c.ID == focus {
			mark = "*"
		}
		topic := truncate(c.Topic, 40)
		b.WriteString(fmt.Sprintf("%s %-8s %-9s %-11s %-18s %-8s %s\n",
			mark, c.ID, c.Status(), c.StartDate, c.UserName, c.Priority, topic))
	}
	return b.String()
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// formatConversationDetail formats one conversation with its history.
func formatConversationDetail(c *models.Conversation) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("**%s** %s\n", c.ID, c.Topic))
	b.WriteString(fmt.Sprintf("Status: %s | User: %s | Started: %s\n", c.Status(), c.UserName, c.StartDate))
	b.WriteString(fmt.Sprintf("Category: %s | Priority: %s\n", c.Category, c.Priority))
	if c.ResolvedDate != nil {
		b.WriteString(fmt.Sprintf("Resolved: %s\n", *c.ResolvedDate))
	}
	if c.ResolutionNotes != nil && *c.ResolutionNotes != "" {
		b.WriteString(fmt.Sprintf("Notes: %s\n", *c.ResolutionNotes))
	}
	b.WriteString("\n")
	for _, m := range c.Messages {
		b.WriteString(fmt.Sprintf("%s: %s\n", speaker(m.Sender), m.Text))
	}
	return b.String()
}

func speaker(sender string) string {
	if sender == models.SenderAI {
		return "AI"
	}
	return "You"
}

func formatUserTable(users []models.User) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("**Users** (%d)\n", len(users)))
	b.WriteString(fmt.Sprintf("%-8s %-20s %-28s %-15s %s\n", "ID", "NAME", "EMAIL", "ROLE", "LAST LOGIN"))
	for _, u := range users {
		b.WriteString(fmt.Sprintf("%-8s %-20s %-28s %-15s %s\n", u.ID, u.Name, u.Email, u.Role, u.LastLogin))
	}
	return b.String()
}

func formatStats(s stats.Stats) string {
	return fmt.Sprintf("Total: %d | Open: %d | Resolved: %d | In progress: %d\n"+
		"AI-assisted: %d | AI cost: $%.3f", s.Total, s.Open, s.Resolved, s.InProgress, s.AIAssisted, s.AICost)
}

func formatReply(r session.ReplyResult) string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("[%s] reply failed: %v", r.ConversationID, r.Err)
	case r.Message == nil:
		return fmt.Sprintf("[%s] no reply", r.ConversationID)
	}
	return fmt.Sprintf("[%s] AI: %s", r.ConversationID, r.Message.Text)
}
