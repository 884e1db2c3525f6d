// Package conversation owns the canonical collection of support conversations
// and the lifecycle operations that mutate them.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/db"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/models"
	"gorm.io/gorm"
)

// Defaults applied to conversations started from the chat view.
const (
	DefaultTopic    = "New Chat"
	DefaultCategory = "General Inquiry"
	DefaultPriority = "Low"
	Greeting        = "Hello! How can I help you with a new issue today?"
)

// DateLayout is the calendar-date format used for StartDate and ResolvedDate.
const DateLayout = "2006-01-02"

// ListFilters holds optional filters for listing conversations.
type ListFilters struct {
	Status string // open, resolved
	Owner  string
	Search string // matched against id, topic and owner
}

// StoreOpts holds parameters for creating a Store.
type StoreOpts struct {
	DB  *gorm.DB
	Now func() time.Time // defaults to time.Now
}

// Store is the single source of truth for conversations. Every mutation runs
// in one transaction, so a failed call leaves no partial state behind.
type Store struct {
	db  *gorm.DB
	now func() time.Time

	mu      sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// NewStore creates a Store.
func NewStore(opts StoreOpts) (*Store, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("conversation: store: db is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		db:   opts.DB,
		now:  now,
		subs: make(map[int]chan Event),
	}, nil
}

func (s *Store) today() string {
	return s.now().Format(DateLayout)
}

func notFound(id string) error {
	return fmt.Errorf("conversation: %w: %s", models.ErrNotFound, id)
}

// Create starts a new conversation for owner, seeded with the assistant
// greeting and placed at the head of the canonical order.
func (s *Store) Create(ctx context.Context, owner string) (*models.Conversation, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, fmt.Errorf("conversation: %w: owner is required", models.ErrInvalidInput)
	}

	var id string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := db.NextValue(tx, db.CounterConversation)
		if err != nil {
			return err
		}
		id = fmt.Sprintf("CONV%03d", n)

		var head int
		if err := tx.Model(&models.Conversation{}).Select("COALESCE(MIN(position), 1)").Scan(&head).Error; err != nil {
			return fmt.Errorf("conversation: find head position: %w", err)
		}

		conv := models.Conversation{
			ID:        id,
			Topic:     DefaultTopic,
			StartDate: s.today(),
			UserName:  owner,
			Category:  DefaultCategory,
			Priority:  DefaultPriority,
			Position:  head - 1,
			Messages: []models.Message{{
				Sequence: 1,
				Sender:   models.SenderAI,
				Text:     Greeting,
			}},
		}
		if err := tx.Create(&conv).Error; err != nil {
			return fmt.Errorf("conversation: create %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(Event{Type: EventCreated, ConversationID: id})
	return s.Get(ctx, id)
}

// AppendMessage appends text from sender to the conversation. Only the named
// conversation is touched.
func (s *Store) AppendMessage(ctx context.Context, id, sender, text string) (*models.Message, error) {
	if !models.ValidSender(sender) {
		return nil, fmt.Errorf("conversation: %w: unknown sender %q", models.ErrInvalidInput, sender)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("conversation: %w: message text is required", models.ErrInvalidInput)
	}

	var msg *models.Message
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireExists(tx, id); err != nil {
			return err
		}
		m, err := appendTx(tx, id, sender, text)
		msg = m
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(Event{Type: EventMessage, ConversationID: id, Sender: sender})
	return msg, nil
}

// ResolveByUser marks the conversation resolved on the owner's behalf and
// appends a notice. Resolving an already-resolved conversation is a no-op;
// changed reports whether the transition happened.
func (s *Store) ResolveByUser(ctx context.Context, id, notes string) (changed bool, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv models.Conversation
		if err := tx.Where("id = ?", id).First(&conv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(id)
			}
			return fmt.Errorf("conversation: get %s: %w", id, err)
		}
		if conv.IsResolved {
			return nil
		}
		if err := tx.Model(&models.Conversation{}).Where("id = ?", id).Updates(s.resolution(notes)).Error; err != nil {
			return fmt.Errorf("conversation: resolve %s: %w", id, err)
		}
		if _, err := appendTx(tx, id, models.SenderAI, UserResolvedNotice); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil || !changed {
		return false, err
	}

	s.publish(Event{Type: EventResolved, ConversationID: id, By: ResolvedByUser, Notes: notes})
	return true, nil
}

// ResolveByAdmin applies the resolution only if the conversation is still
// open. The guard is a conditional update, so a second call finds no open
// row, changes nothing and appends no duplicate notice.
func (s *Store) ResolveByAdmin(ctx context.Context, id, notes string) (changed bool, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireExists(tx, id); err != nil {
			return err
		}
		result := tx.Model(&models.Conversation{}).
			Where("id = ? AND is_resolved = ?", id, false).
			Updates(s.resolution(notes))
		if result.Error != nil {
			return fmt.Errorf("conversation: resolve %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}
		if _, err := appendTx(tx, id, models.SenderAI, AdminResolvedNotice(notes)); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil || !changed {
		return false, err
	}

	s.publish(Event{Type: EventResolved, ConversationID: id, By: ResolvedByAdmin, Notes: notes})
	return true, nil
}

// RecordFeedback marks that the owner left feedback on a resolved conversation.
func (s *Store) RecordFeedback(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv models.Conversation
		if err := tx.Where("id = ?", id).First(&conv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(id)
			}
			return fmt.Errorf("conversation: get %s: %w", id, err)
		}
		if !conv.IsResolved {
			return fmt.Errorf("conversation: %w: %s is not resolved", models.ErrInvalidInput, id)
		}
		if err := tx.Model(&models.Conversation{}).Where("id = ?", id).Update("feedback_given", true).Error; err != nil {
			return fmt.Errorf("conversation: record feedback %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(Event{Type: EventFeedback, ConversationID: id})
	return nil
}

func (s *Store) resolution(notes string) map[string]interface{} {
	return map[string]interface{}{
		"is_resolved":      true,
		"resolved_date":    s.today(),
		"resolution_notes": notes,
		"feedback_given":   false,
	}
}

// Get retrieves a conversation with its messages in sequence order.
func (s *Store) Get(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.db.WithContext(ctx).Preload("Messages", orderBySequence).Where("id = ?", id).First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("conversation: get %s: %w", id, err)
	}
	return &conv, nil
}

// List returns conversations matching the filters in canonical order
// (most recently started chats first, then seed order).
func (s *Store) List(ctx context.Context, filters ListFilters) ([]models.Conversation, error) {
	q := s.db.WithContext(ctx).Model(&models.Conversation{})

	switch filters.Status {
	case "":
	case models.StatusOpen:
		q = q.Where("is_resolved = ?", false)
	case models.StatusResolved:
		q = q.Where("is_resolved = ?", true)
	default:
		return nil, fmt.Errorf("conversation: %w: unknown status %q", models.ErrInvalidInput, filters.Status)
	}
	if filters.Owner != "" {
		q = q.Where("user_name = ?", filters.Owner)
	}
	if term := strings.TrimSpace(filters.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(id) LIKE ? OR LOWER(topic) LIKE ? OR LOWER(user_name) LIKE ?", like, like, like)
	}

	var convs []models.Conversation
	if err := q.Preload("Messages", orderBySequence).Order("position ASC, id ASC").Find(&convs).Error; err != nil {
		return nil, fmt.Errorf("conversation: list: %w", err)
	}
	return convs, nil
}

// Snapshot returns every conversation in canonical order.
func (s *Store) Snapshot(ctx context.Context) ([]models.Conversation, error) {
	return s.List(ctx, ListFilters{})
}

// MessageCount returns the number of messages across all conversations.
func (s *Store) MessageCount(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Message{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("conversation: count messages: %w", err)
	}
	return n, nil
}

func orderBySequence(db *gorm.DB) *gorm.DB {
	return db.Order("sequence ASC")
}

func requireExists(tx *gorm.DB, id string) error {
	var n int64
	if err := tx.Model(&models.Conversation{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("conversation: check %s: %w", id, err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

// appendTx writes one message with the next per-conversation sequence number.
func appendTx(tx *gorm.DB, id, sender, text string) (*models.Message, error) {
	var maxSeq int
	if err := tx.Model(&models.Message{}).Where("conversation_id = ?", id).
		Select("COALESCE(MAX(sequence), 0)").Scan(&maxSeq).Error; err != nil {
		return nil, fmt.Errorf("conversation: next sequence for %s: %w", id, err)
	}
	msg := models.Message{
		ConversationID: id,
		Sequence:       maxSeq + 1,
		Sender:         sender,
		Text:           text,
	}
	if err := tx.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("conversation: append to %s: %w", id, err)
	}
	return &msg, nil
}
