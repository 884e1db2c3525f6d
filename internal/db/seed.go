package db

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed seed.yaml
var defaultSeed []byte

// SeedData is the initial state loaded at process start.
type SeedData struct {
	Conversations []SeedConversation `yaml:"conversations"`
	Users         []SeedUser         `yaml:"users"`
}

// SeedConversation describes one seeded conversation.
type SeedConversation struct {
	ID              string        `yaml:"id"`
	Topic           string        `yaml:"topic"`
	StartDate       string        `yaml:"start_date"`
	Resolved        bool          `yaml:"resolved"`
	ResolvedDate    string        `yaml:"resolved_date"`
	ResolutionNotes string        `yaml:"resolution_notes"`
	User            string        `yaml:"user"`
	Category        string        `yaml:"category"`
	Priority        string        `yaml:"priority"`
	Messages        []SeedMessage `yaml:"messages"`
}

// SeedMessage is one seeded message.
type SeedMessage struct {
	Sender string `yaml:"sender"`
	Text   string `yaml:"text"`
}

// SeedUser describes one seeded directory entry.
type SeedUser struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
	Role      string `yaml:"role"`
	LastLogin string `yaml:"last_login"`
}

// DefaultSeed returns the built-in seed data.
func DefaultSeed() (*SeedData, error) {
	return ParseSeed(defaultSeed)
}

// LoadSeed reads seed data from path, or the built-in seed when path is empty.
func LoadSeed(path string) (*SeedData, error) {
	if path == "" {
		return DefaultSeed()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("db: read seed %s: %w", path, err)
	}
	return ParseSeed(data)
}

// ParseSeed unmarshals and validates seed YAML.
func ParseSeed(data []byte) (*SeedData, error) {
	var sd SeedData
	if err := yaml.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("db: parse seed: %w", err)
	}
	if err := sd.validate(); err != nil {
		return nil, err
	}
	return &sd, nil
}

func (sd *SeedData) validate() error {
	var errs []string
	convIDs := make(map[string]bool)
	for i, c := range sd.Conversations {
		if c.ID == "" {
			errs = append(errs, fmt.Sprintf("conversations[%d].id is required", i))
		} else if convIDs[c.ID] {
			errs = append(errs, fmt.Sprintf("conversations[%d].id %q is duplicated", i, c.ID))
		}
		convIDs[c.ID] = true
		if c.Resolved && c.ResolvedDate == "" {
			errs = append(errs, fmt.Sprintf("conversations[%d].resolved_date is required when resolved", i))
		}
		if !c.Resolved && (c.ResolvedDate != "" || c.ResolutionNotes != "") {
			errs = append(errs, fmt.Sprintf("conversations[%d] has resolution fields but is not resolved", i))
		}
		if len(c.Messages) == 0 {
			errs = append(errs, fmt.Sprintf("conversations[%d] needs at least one message", i))
		}
		for j, m := range c.Messages {
			if !models.ValidSender(m.Sender) {
				errs = append(errs, fmt.Sprintf("conversations[%d].messages[%d].sender %q is invalid", i, j, m.Sender))
			}
			if strings.TrimSpace(m.Text) == "" {
				errs = append(errs, fmt.Sprintf("conversations[%d].messages[%d].text is required", i, j))
			}
		}
	}
	userIDs := make(map[string]bool)
	for i, u := range sd.Users {
		if u.ID == "" || u.Name == "" || u.Email == "" || u.Role == "" {
			errs = append(errs, fmt.Sprintf("users[%d] requires id, name, email and role", i))
		}
		if userIDs[u.ID] {
			errs = append(errs, fmt.Sprintf("users[%d].id %q is duplicated", i, u.ID))
		}
		userIDs[u.ID] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("db: seed validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Conversation converts a seed entry to a model placed at the given position.
func (sc SeedConversation) Conversation(position int) models.Conversation {
	conv := models.Conversation{
		ID:         sc.ID,
		Topic:      sc.Topic,
		StartDate:  sc.StartDate,
		IsResolved: sc.Resolved,
		UserName:   sc.User,
		Category:   sc.Category,
		Priority:   sc.Priority,
		Position:   position,
		Seeded:     true,
	}
	if conv.Category == "" {
		conv.Category = "General Inquiry"
	}
	if conv.Priority == "" {
		conv.Priority = "Low"
	}
	if sc.Resolved {
		date, notes := sc.ResolvedDate, sc.ResolutionNotes
		conv.ResolvedDate = &date
		conv.ResolutionNotes = &notes
	}
	for i, m := range sc.Messages {
		conv.Messages = append(conv.Messages, models.Message{
			ConversationID: sc.ID,
			Sequence:       i + 1,
			Sender:         m.Sender,
			Text:           m.Text,
		})
	}
	return conv
}

// Seed upserts the seed conversations and users, then raises the id counters
// past every numeric suffix seen so new ids never collide with seeded ones.
func Seed(db *gorm.DB, sd *SeedData) error {
	return db.Transaction(func(tx *gorm.DB) error {
		maxConv := 0
		for i, sc := range sd.Conversations {
			conv := sc.Conversation(i + 1)
			msgs := conv.Messages
			conv.Messages = nil
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&conv).Error; err != nil {
				return fmt.Errorf("db: seed conversation %q: %w", sc.ID, err)
			}
			if len(msgs) > 0 {
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&msgs).Error; err != nil {
					return fmt.Errorf("db: seed messages for %q: %w", sc.ID, err)
				}
			}
			if n := idSuffix(sc.ID); n > maxConv {
				maxConv = n
			}
		}

		maxUser := 0
		for _, su := range sd.Users {
			u := models.User{
				ID:        su.ID,
				Name:      su.Name,
				Email:     su.Email,
				Role:      su.Role,
				LastLogin: su.LastLogin,
			}
			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "email", "role", "last_login"}),
			}).Create(&u)
			if result.Error != nil {
				return fmt.Errorf("db: seed user %q: %w", su.ID, result.Error)
			}
			if n := idSuffix(su.ID); n > maxUser {
				maxUser = n
			}
		}

		if err := RaiseCounter(tx, CounterConversation, maxConv); err != nil {
			return err
		}
		return RaiseCounter(tx, CounterUser, maxUser)
	})
}

// idSuffix returns the trailing decimal number of an id like "CONV004" or 0.
func idSuffix(id string) int {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(id[i:])
	if err != nil {
		return 0
	}
	return n
}
