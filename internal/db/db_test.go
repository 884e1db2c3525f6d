package db

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/models"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db
}

func TestAllModels(t *testing.T) {
	if got := len(AllModels()); got != 4 {
		t.Errorf("len(AllModels()) = %d, want 4", got)
	}
}

func TestConnect_SingleConnection(t *testing.T) {
	db, err := Connect("")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB(): %v", err)
	}
	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Errorf("MaxOpenConnections = %d, want 1", got)
	}
}

func TestNextValue_Monotonic(t *testing.T) {
	db := openTestDB(t)
	for want := 1; want <= 3; want++ {
		got, err := NextValue(db, CounterUser)
		if err != nil {
			t.Fatalf("NextValue: %v", err)
		}
		if got != want {
			t.Errorf("NextValue() = %d, want %d", got, want)
		}
	}
}

func TestRaiseCounter_NeverLowers(t *testing.T) {
	db := openTestDB(t)
	if err := RaiseCounter(db, CounterConversation, 7); err != nil {
		t.Fatalf("RaiseCounter: %v", err)
	}
	if err := RaiseCounter(db, CounterConversation, 3); err != nil {
		t.Fatalf("RaiseCounter: %v", err)
	}
	got, err := NextValue(db, CounterConversation)
	if err != nil {
		t.Fatalf("NextValue: %v", err)
	}
	if got != 8 {
		t.Errorf("NextValue() after raise = %d, want 8", got)
	}
}

func TestDefaultSeed(t *testing.T) {
	sd, err := DefaultSeed()
	if err != nil {
		t.Fatalf("DefaultSeed: %v", err)
	}
	if len(sd.Conversations) != 4 {
		t.Fatalf("conversations = %d, want 4", len(sd.Conversations))
	}
	if len(sd.Users) != 4 {
		t.Fatalf("users = %d, want 4", len(sd.Users))
	}
	if sd.Conversations[0].ID != "CONV001" || sd.Conversations[0].Resolved {
		t.Errorf("first conversation = %+v, want unresolved CONV001", sd.Conversations[0])
	}
	if !sd.Conversations[1].Resolved {
		t.Error("CONV002 should be resolved")
	}
	if !strings.HasPrefix(sd.Conversations[1].ResolutionNotes, "Solution for Dashboard Loading Slowly:") {
		t.Errorf("CONV002 notes = %q", sd.Conversations[1].ResolutionNotes)
	}
}

func TestSeed_LoadsAndRaisesCounters(t *testing.T) {
	db := openTestDB(t)
	sd, _ := DefaultSeed()
	if err := Seed(db, sd); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	var convCount, msgCount, userCount int64
	db.Model(&models.Conversation{}).Count(&convCount)
	db.Model(&models.Message{}).Count(&msgCount)
	db.Model(&models.User{}).Count(&userCount)
	if convCount != 4 {
		t.Errorf("conversations = %d, want 4", convCount)
	}
	if msgCount != 12 {
		t.Errorf("messages = %d, want 12", msgCount)
	}
	if userCount != 4 {
		t.Errorf("users = %d, want 4", userCount)
	}

	var conv models.Conversation
	if err := db.Where("id = ?", "CONV002").First(&conv).Error; err != nil {
		t.Fatalf("load CONV002: %v", err)
	}
	if !conv.IsResolved || conv.ResolvedDate == nil || *conv.ResolvedDate != "2024-01-15" {
		t.Errorf("CONV002 resolution = %v/%v", conv.IsResolved, conv.ResolvedDate)
	}
	if conv.Position != 2 || !conv.Seeded {
		t.Errorf("CONV002 position/seeded = %d/%v, want 2/true", conv.Position, conv.Seeded)
	}

	next, _ := NextValue(db, CounterConversation)
	if next != 5 {
		t.Errorf("next conversation counter = %d, want 5", next)
	}
	next, _ = NextValue(db, CounterUser)
	if next != 5 {
		t.Errorf("next user counter = %d, want 5", next)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	db := openTestDB(t)
	sd, _ := DefaultSeed()
	if err := Seed(db, sd); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db, sd); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	var msgCount int64
	db.Model(&models.Message{}).Count(&msgCount)
	if msgCount != 12 {
		t.Errorf("messages after reseed = %d, want 12", msgCount)
	}
}

func TestParseSeed_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing id", "conversations:\n  - topic: x\n", "id is required"},
		{"duplicate id", "conversations:\n  - id: C1\n  - id: C1\n", "duplicated"},
		{"resolved without date", "conversations:\n  - id: C1\n    resolved: true\n", "resolved_date is required"},
		{"notes without resolution", "conversations:\n  - id: C1\n    resolution_notes: x\n", "not resolved"},
		{"bad sender", "conversations:\n  - id: C1\n    messages:\n      - {sender: bot, text: hi}\n", "sender \"bot\""},
		{"empty text", "conversations:\n  - id: C1\n    messages:\n      - {sender: ai, text: \"  \"}\n", "text is required"},
		{"no messages", "conversations:\n  - id: C1\n    topic: empty thread\n", "at least one message"},
		{"user fields", "users:\n  - {id: u1, name: A}\n", "requires id, name, email and role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadSeed_Path(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	data := "users:\n  - {id: usr010, name: Ana, email: ana@x.io, role: Customer, last_login: never}\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	sd, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if len(sd.Users) != 1 || sd.Users[0].ID != "usr010" {
		t.Errorf("users = %+v", sd.Users)
	}
}

func TestSeedConversation_Defaults(t *testing.T) {
	conv := SeedConversation{ID: "CONV010", Messages: []SeedMessage{{Sender: "ai", Text: "hi"}}}.Conversation(3)
	if conv.Category != "General Inquiry" || conv.Priority != "Low" {
		t.Errorf("defaults = %q/%q", conv.Category, conv.Priority)
	}
	if conv.ResolvedDate != nil || conv.ResolutionNotes != nil {
		t.Error("unresolved conversation should have no resolution fields")
	}
	if len(conv.Messages) != 1 || conv.Messages[0].Sequence != 1 || conv.Messages[0].ConversationID != "CONV010" {
		t.Errorf("messages = %+v", conv.Messages)
	}
}

func TestIdSuffix(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"CONV004", 4},
		{"usr120", 120},
		{"abc", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := idSuffix(tt.id); got != tt.want {
			t.Errorf("idSuffix(%q) = %d, want %d", tt.id, got, tt.want)
		}
	}
}
