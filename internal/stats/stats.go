// Package stats derives dashboard metrics from a conversation snapshot.
package stats

import (
	"context"
	"fmt"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/conversation"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/models"
)

// DefaultUnitCost is the assumed cost of one assistant message.
const DefaultUnitCost = 0.005

// Stats summarises a snapshot of conversations.
type Stats struct {
	Total      int     `json:"total"`
	Open       int     `json:"open"`
	Resolved   int     `json:"resolved"`
	InProgress int     `json:"in_progress"` // always 0: conversations are open or resolved
	AIAssisted int     `json:"ai_assisted"`
	AICost     float64 `json:"ai_cost"`
}

// Compute derives Stats from convs. It reads nothing else, so equal
// snapshots always yield equal results.
func Compute(convs []models.Conversation, unitCost float64) Stats {
	var s Stats
	aiMessages := 0
	for i := range convs {
		s.Total++
		if convs[i].IsResolved {
			s.Resolved++
		}
		n := convs[i].AIMessageCount()
		if n > 0 {
			s.AIAssisted++
		}
		aiMessages += n
	}
	s.Open = s.Total - s.Resolved
	// Multiply once so the result does not depend on iteration order.
	s.AICost = float64(aiMessages) * unitCost
	return s
}

// Summary renders stats as a single line.
func (s Stats) Summary() string {
	return fmt.Sprintf("total=%d open=%d resolved=%d in_progress=%d ai_assisted=%d ai_cost=$%.3f",
		s.Total, s.Open, s.Resolved, s.InProgress, s.AIAssisted, s.AICost)
}

// Snapshotter provides the current conversation snapshot.
type Snapshotter interface {
	Snapshot(ctx context.Context) ([]models.Conversation, error)
}

// Aggregator recomputes stats from a store on demand. It holds no state of
// its own between calls.
type Aggregator struct {
	source   Snapshotter
	unitCost float64
}

// NewAggregator creates an Aggregator. A non-positive unitCost selects
// DefaultUnitCost.
func NewAggregator(source Snapshotter, unitCost float64) *Aggregator {
	if unitCost <= 0 {
		unitCost = DefaultUnitCost
	}
	return &Aggregator{source: source, unitCost: unitCost}
}

// Current computes stats for the store's present snapshot.
func (a *Aggregator) Current(ctx context.Context) (Stats, error) {
	convs, err := a.source.Snapshot(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: snapshot: %w", err)
	}
	return Compute(convs, a.unitCost), nil
}

// Watch recomputes stats after every store event and delivers them on the
// returned channel until ctx is cancelled. The first value reflects the
// state at subscription time.
func (a *Aggregator) Watch(ctx context.Context, store *conversation.Store) <-chan Stats {
	out := make(chan Stats, 1)
	events, cancel := store.Subscribe()
	go func() {
		defer close(out)
		defer cancel()
		emit := func() bool {
			st, err := a.Current(ctx)
			if err != nil {
				return ctx.Err() == nil
			}
			select {
			case out <- st:
				return true
			case <-ctx.Done():
				return false
			}
		}
		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok || !emit() {
					return
				}
			}
		}
	}()
	return out
}
