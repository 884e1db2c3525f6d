package models

import "time"

// Lifecycle statuses derived from IsResolved. A conversation is either open or
// resolved; there is no intermediate state.
const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

// Conversation is a support ticket implemented as a chat thread.
type Conversation struct {
	ID              string  `gorm:"primaryKey;size:32"`
	Topic           string  `gorm:"size:256;not null"`
	StartDate       string  `gorm:"size:10;not null"` // YYYY-MM-DD
	IsResolved      bool    `gorm:"default:false;index"`
	ResolvedDate    *string `gorm:"size:10"`
	ResolutionNotes *string `gorm:"type:text"`
	UserName        string  `gorm:"size:128;index"`
	Category        string  `gorm:"size:64"`
	Priority        string  `gorm:"size:16"`
	FeedbackGiven   bool    `gorm:"default:false"`
	Position        int     `gorm:"index"`
	Seeded          bool    `gorm:"default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Messages []Message `gorm:"foreignKey:ConversationID"`
}

// Status returns the lifecycle status name for display and filtering.
func (c *Conversation) Status() string {
	if c.IsResolved {
		return StatusResolved
	}
	return StatusOpen
}

// AIMessageCount returns the number of messages authored by the assistant.
func (c *Conversation) AIMessageCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Sender == SenderAI {
			n++
		}
	}
	return n
}
