package models

import "time"

// Message senders. System notices are authored as SenderAI.
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// Message is a single entry in a conversation. Messages are append-only and
// ordered by Sequence within their conversation.
type Message struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	ConversationID string `gorm:"size:32;not null;uniqueIndex:idx_conv_seq"`
	Sequence       int    `gorm:"not null;uniqueIndex:idx_conv_seq"`
	Sender         string `gorm:"size:8;not null"`
	Text           string `gorm:"type:text;not null"`
	CreatedAt      time.Time
}

// ValidSender reports whether s is a recognised message sender.
func ValidSender(s string) bool {
	return s == SenderUser || s == SenderAI
}
