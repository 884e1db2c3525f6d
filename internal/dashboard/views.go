package dashboard

import (
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/models"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/stats"
)

type statsResponse struct {
	stats.Stats
	TotalUsers int64 `json:"total_users"`
}

type messageJSON struct {
	Sequence int    `json:"sequence"`
	Sender   string `json:"sender"`
	Text     string `json:"text"`
}

type conversationJSON struct {
	ID              string        `json:"id"`
	Topic           string        `json:"topic"`
	StartDate       string        `json:"start_date"`
	Status          string        `json:"status"`
	IsResolved      bool          `json:"is_resolved"`
	ResolvedDate    *string       `json:"resolved_date,omitempty"`
	ResolutionNotes *string       `json:"resolution_notes,omitempty"`
	User            string        `json:"user"`
	Category        string        `json:"category"`
	Priority        string        `json:"priority"`
	FeedbackGiven   bool          `json:"feedback_given"`
	MessageCount    int           `json:"message_count"`
	Messages        []messageJSON `json:"messages,omitempty"`
}

type userJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	LastLogin string `json:"last_login"`
}

func toConversationJSON(c *models.Conversation, withMessages bool) conversationJSON {
	out := conversationJSON{
		ID:              c.ID,
		Topic:           c.Topic,
		StartDate:       c.StartDate,
		Status:          c.Status(),
		IsResolved:      c.IsResolved,
		ResolvedDate:    c.ResolvedDate,
		ResolutionNotes: c.ResolutionNotes,
		User:            c.UserName,
		Category:        c.Category,
		Priority:        c.Priority,
		FeedbackGiven:   c.FeedbackGiven,
		MessageCount:    len(c.Messages),
	}
	if withMessages {
		out.Messages = make([]messageJSON, 0, len(c.Messages))
		for _, m := range c.Messages {
			out.Messages = append(out.Messages, messageJSON{Sequence: m.Sequence, Sender: m.Sender, Text: m.Text})
		}
	}
	return out
}

func toUserJSON(u *models.User) userJSON {
	return userJSON{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, LastLogin: u.LastLogin}
}
