// Package notify forwards conversation lifecycle events to chat platforms.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Color constants for notification severity.
const (
	ColorSuccess = "#36a64f"
	ColorInfo    = "#2196f3"
)

// Notification is a platform-neutral message.
type Notification struct {
	Title  string  // headline, e.g. "Conversation CONV003 resolved"
	Body   string  // detail text
	Color  string  // sidebar color hint
	Fields []Field // key-value metadata pairs
}

// Field is a key-value pair displayed alongside a notification.
type Field struct {
	Name  string
	Value string
	Short bool // hint: render side-by-side with another field
}

// Text renders the notification as plain text, used as a fallback.
func (n Notification) Text() string {
	var b strings.Builder
	b.WriteString(n.Title)
	if n.Body != "" {
		b.WriteString("\n")
		b.WriteString(n.Body)
	}
	for _, f := range n.Fields {
		fmt.Fprintf(&b, "\n%s: %s", f.Name, f.Value)
	}
	return b.String()
}

// Notifier delivers notifications to one destination.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, n Notification) error
}

// Multi fans a notification out to several notifiers. Every notifier is
// tried; failures are joined.
type Multi []Notifier

// Name implements Notifier.
func (m Multi) Name() string {
	names := make([]string, len(m))
	for i, n := range m {
		names[i] = n.Name()
	}
	return strings.Join(names, "+")
}

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, target := range m {
		if err := target.Notify(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("notify: %s: %w", target.Name(), err))
		}
	}
	return errors.Join(errs...)
}
