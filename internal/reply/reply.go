// Package reply produces the assistant's next message in a conversation.
package reply

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/models"
)

// ErrGenerator marks a failure inside a reply generator.
var ErrGenerator = errors.New("reply generator failed")

// FallbackText is appended in place of a reply when generation fails.
const FallbackText = "Oops! Something went wrong. Please try again."

// Generator produces exactly one assistant message from a conversation
// history whose last entry is the user message being answered.
type Generator interface {
	Generate(ctx context.Context, history []models.Message) (models.Message, error)
}

// CannedResponses is the pool the Canned generator draws from.
var CannedResponses = []string{
	"Hello! I'm your TicketAI assistant. How can I help you today?",
	"Please provide more details.",
	"I can summarize information or suggest next steps.",
	"That's an interesting problem. Let me check the knowledge base...",
	"Could you elaborate more on the symptoms?",
	"Thank you for the information. I'm processing your request.",
	"I am just a demo chatbot for now, but I can simulate helpful responses!",
}

// Canned picks a response at random from CannedResponses after an optional
// simulated delay. A fixed seed makes the sequence reproducible.
type Canned struct {
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewCanned creates a Canned generator. A zero seed uses the current time.
func NewCanned(seed int64, delay time.Duration) *Canned {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Canned{delay: delay, rng: rand.New(rand.NewSource(seed))}
}

// Generate implements Generator.
func (c *Canned) Generate(ctx context.Context, history []models.Message) (models.Message, error) {
	if err := wait(ctx, c.delay); err != nil {
		return models.Message{}, err
	}
	c.mu.Lock()
	text := CannedResponses[c.rng.Intn(len(CannedResponses))]
	c.mu.Unlock()
	return models.Message{Sender: models.SenderAI, Text: text}, nil
}

// Echo repeats the last user message back. It is deterministic.
type Echo struct {
	Delay time.Duration
}

// Generate implements Generator.
func (e Echo) Generate(ctx context.Context, history []models.Message) (models.Message, error) {
	if err := wait(ctx, e.Delay); err != nil {
		return models.Message{}, err
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Sender == models.SenderUser {
			return models.Message{Sender: models.SenderAI, Text: "You said: " + strings.TrimSpace(history[i].Text)}, nil
		}
	}
	return models.Message{}, fmt.Errorf("reply: echo: %w: no user message in history", ErrGenerator)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("reply: %w: %v", ErrGenerator, ctx.Err())
	case <-t.C:
		return nil
	}
}
