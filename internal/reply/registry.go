package reply

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/config"
)

// Factory builds a Generator from configuration.
type Factory func(cfg config.ReplyConfig) (Generator, error)

// Registry maps generator kinds to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a Registry with the built-in canned and echo kinds.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(config.ReplyCanned, func(cfg config.ReplyConfig) (Generator, error) {
		return NewCanned(cfg.Seed, time.Duration(cfg.DelayMs)*time.Millisecond), nil
	})
	r.Register(config.ReplyEcho, func(cfg config.ReplyConfig) (Generator, error) {
		return Echo{Delay: time.Duration(cfg.DelayMs) * time.Millisecond}, nil
	})
	return r
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind string, f Factory) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = f
}

// Kinds lists the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// New builds the generator configured in cfg.
func (r *Registry) New(cfg config.ReplyConfig) (Generator, error) {
	kind := strings.ToLower(strings.TrimSpace(cfg.Kind))
	r.mu.RLock()
	f, ok := r.factories[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("reply: unknown generator kind: %s (registered: %s)", cfg.Kind, strings.Join(r.Kinds(), ", "))
	}
	return f(cfg)
}
