package conversation

import "log"

// Event types published after a mutation commits.
const (
	EventCreated  = "created"
	EventMessage  = "message"
	EventResolved = "resolved"
	EventFeedback = "feedback"
)

// subscriberBuffer bounds each subscriber's backlog. A subscriber that falls
// further behind misses events rather than blocking writers.
const subscriberBuffer = 64

// Event describes a committed change to the store.
type Event struct {
	Type           string
	ConversationID string
	Sender         string // EventMessage only
	By             string // EventResolved only: user or admin
	Notes          string // EventResolved only
}

// Subscribe registers for change events. The returned cancel func
// unregisters and closes the channel.
func (s *Store) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, subscriberBuffer)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

func (s *Store) publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			log.Printf("conversation: subscriber %d is full, dropping %s event for %s", id, ev.Type, ev.ConversationID)
		}
	}
}
