package notify

import (
	"context"
	"sync"
)

// MockNotifier records notifications in memory.
type MockNotifier struct {
	mu   sync.Mutex
	sent []Notification
	Err  error // returned from Notify when set
}

// Name implements Notifier.
func (m *MockNotifier) Name() string { return "mock" }

// Notify implements Notifier.
func (m *MockNotifier) Notify(_ context.Context, n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
	return m.Err
}

// Sent returns a copy of the recorded notifications.
func (m *MockNotifier) Sent() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notification, len(m.sent))
	copy(out, m.sent)
	return out
}
