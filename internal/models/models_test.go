package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// gormTag extracts the gorm tag from a struct field.
func gormTag(t *testing.T, typ reflect.Type, fieldName string) string {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	return f.Tag.Get("gorm")
}

// assertGormTag checks that a struct field's gorm tag contains the expected value.
func assertGormTag(t *testing.T, typ reflect.Type, fieldName, expected string) {
	t.Helper()
	tag := gormTag(t, typ, fieldName)
	if !strings.Contains(tag, expected) {
		t.Errorf("%s.%s gorm tag = %q, want to contain %q", typ.Name(), fieldName, tag, expected)
	}
}

// assertFieldType checks that a struct field has the expected Go type.
func assertFieldType(t *testing.T, typ reflect.Type, fieldName, expectedType string) {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	got := f.Type.String()
	if got != expectedType {
		t.Errorf("%s.%s type = %q, want %q", typ.Name(), fieldName, got, expectedType)
	}
}

func TestConversation_Fields(t *testing.T) {
	typ := reflect.TypeOf(Conversation{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "size:32")
	assertGormTag(t, typ, "Topic", "not null")
	assertGormTag(t, typ, "StartDate", "size:10")
	assertGormTag(t, typ, "IsResolved", "index")
	assertGormTag(t, typ, "Position", "index")
	assertGormTag(t, typ, "Messages", "foreignKey:ConversationID")

	assertFieldType(t, typ, "ResolvedDate", "*string")
	assertFieldType(t, typ, "ResolutionNotes", "*string")
	assertFieldType(t, typ, "Messages", "[]models.Message")
}

func TestMessage_Fields(t *testing.T) {
	typ := reflect.TypeOf(Message{})

	assertGormTag(t, typ, "ID", "autoIncrement")
	assertGormTag(t, typ, "ConversationID", "uniqueIndex:idx_conv_seq")
	assertGormTag(t, typ, "Sequence", "uniqueIndex:idx_conv_seq")
	assertGormTag(t, typ, "Sender", "size:8")
	assertGormTag(t, typ, "Text", "type:text")
}

func TestUser_Fields(t *testing.T) {
	typ := reflect.TypeOf(User{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "Name", "not null")
	assertGormTag(t, typ, "Email", "not null")
	assertGormTag(t, typ, "Role", "not null")
	assertFieldType(t, typ, "LastLogin", "string")
}

func TestCounter_Fields(t *testing.T) {
	typ := reflect.TypeOf(Counter{})
	assertGormTag(t, typ, "Name", "primaryKey")
	assertFieldType(t, typ, "Value", "int")
}

func TestConversation_Status(t *testing.T) {
	c := Conversation{}
	if got := c.Status(); got != StatusOpen {
		t.Errorf("Status() = %q, want %q", got, StatusOpen)
	}
	c.IsResolved = true
	if got := c.Status(); got != StatusResolved {
		t.Errorf("Status() = %q, want %q", got, StatusResolved)
	}
}

func TestConversation_AIMessageCount(t *testing.T) {
	c := Conversation{Messages: []Message{
		{Sender: SenderAI, Text: "hi"},
		{Sender: SenderUser, Text: "help"},
		{Sender: SenderAI, Text: "sure"},
	}}
	if got := c.AIMessageCount(); got != 2 {
		t.Errorf("AIMessageCount() = %d, want 2", got)
	}
}

func TestValidSender(t *testing.T) {
	tests := []struct {
		sender string
		want   bool
	}{
		{"user", true},
		{"ai", true},
		{"admin", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidSender(tt.sender); got != tt.want {
			t.Errorf("ValidSender(%q) = %v, want %v", tt.sender, got, tt.want)
		}
	}
}

func TestErrors_Wrapped(t *testing.T) {
	err := fmt.Errorf("conversation: %w: CONV009", ErrNotFound)
	if !errors.Is(err, ErrNotFound) {
		t.Error("wrapped error should match ErrNotFound")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Error("wrapped NotFound should not match ErrInvalidInput")
	}
}
