// Package session tracks the role-scoped view (user chat or admin dashboard),
// the active selection within it, and routes actions to the right lifecycle
// operation.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/config"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/conversation"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/directory"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/models"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/reply"
)

// Roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ErrReplyPending is returned by Send while a reply for the same
// conversation is still being generated.
var ErrReplyPending = errors.New("reply pending")

// ReplyResult reports the outcome of one background reply.
type ReplyResult struct {
	ConversationID string
	Message        *models.Message
	Fallback       bool // generator failed and FallbackText was appended
	Err            error
}

// Opts holds parameters for creating a Session.
type Opts struct {
	Store     *conversation.Store
	Directory *directory.Directory
	Generator reply.Generator
	Owner     string            // display name for conversations started in the user view
	Policy    string            // config.PolicyLive (default) or config.PolicySeed
	OnReply   func(ReplyResult) // optional; called after each background reply lands
}

// Session is the single logical owner of view and selection state.
type Session struct {
	store   *conversation.Store
	dir     *directory.Directory
	gen     reply.Generator
	owner   string
	policy  string
	onReply func(ReplyResult)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu            sync.Mutex
	role          string
	active        string
	adminSelected string
	pending       map[string]bool
	closed        bool
	seedFirstOpen string
}

// New creates a Session in the user view, with the active conversation
// chosen by the selection policy.
func New(ctx context.Context, opts Opts) (*Session, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("session: store is required")
	}
	if opts.Directory == nil {
		return nil, fmt.Errorf("session: directory is required")
	}
	if opts.Generator == nil {
		return nil, fmt.Errorf("session: generator is required")
	}
	owner := strings.TrimSpace(opts.Owner)
	if owner == "" {
		return nil, fmt.Errorf("session: owner is required")
	}
	policy := opts.Policy
	if policy == "" {
		policy = config.PolicyLive
	}
	if policy != config.PolicyLive && policy != config.PolicySeed {
		return nil, fmt.Errorf("session: unknown selection policy %q", policy)
	}

	base, cancel := context.WithCancel(context.Background())
	s := &Session{
		store:   opts.Store,
		dir:     opts.Directory,
		gen:     opts.Generator,
		owner:   owner,
		policy:  policy,
		onReply: opts.OnReply,
		ctx:     base,
		cancel:  cancel,
		pending: make(map[string]bool),
	}

	if policy == config.PolicySeed {
		id, err := s.firstOpen(ctx, true)
		if err != nil {
			cancel()
			return nil, err
		}
		s.seedFirstOpen = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enterUserView(ctx); err != nil {
		cancel()
		return nil, err
	}
	return s, nil
}

// Close stops accepting sends, lets in-flight replies finish and land, then
// releases the session's lifetime context.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
	s.cancel()
}

// Owner returns the display name used for new conversations.
func (s *Session) Owner() string { return s.owner }

// Role returns the current view.
func (s *Session) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// ActiveConversationID returns the conversation open in the user view, or "".
func (s *Session) ActiveConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// AdminSelectedID returns the conversation selected for admin review, or "".
func (s *Session) AdminSelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adminSelected
}

// SwitchRole moves to role and applies its entry effects. Re-entering the
// current role re-applies them.
func (s *Session) SwitchRole(ctx context.Context, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch role {
	case RoleUser:
		return s.enterUserView(ctx)
	case RoleAdmin:
		s.enterAdminView()
		return nil
	default:
		return fmt.Errorf("session: %w: unknown role %q", models.ErrInvalidInput, role)
	}
}

// enterUserView clears the admin selection and opens the first unresolved
// conversation per the selection policy. Caller holds s.mu.
func (s *Session) enterUserView(ctx context.Context) error {
	var active string
	if s.policy == config.PolicySeed {
		active = s.seedFirstOpen
	} else {
		id, err := s.firstOpen(ctx, false)
		if err != nil {
			return err
		}
		active = id
	}
	s.role = RoleUser
	s.adminSelected = ""
	s.active = active
	return nil
}

// enterAdminView clears the active user conversation; the dashboard starts
// with nothing selected. Caller holds s.mu.
func (s *Session) enterAdminView() {
	s.role = RoleAdmin
	s.active = ""
	s.adminSelected = ""
}

// firstOpen returns the first unresolved conversation in canonical order,
// restricted to seeded conversations when seededOnly is set.
func (s *Session) firstOpen(ctx context.Context, seededOnly bool) (string, error) {
	convs, err := s.store.List(ctx, conversation.ListFilters{Status: models.StatusOpen})
	if err != nil {
		return "", fmt.Errorf("session: select first open conversation: %w", err)
	}
	for _, c := range convs {
		if seededOnly && !c.Seeded {
			continue
		}
		return c.ID, nil
	}
	return "", nil
}

func wrongView(action, want string) error {
	return fmt.Errorf("session: %w: %s requires the %s view", models.ErrInvalidInput, action, want)
}

// Current returns the conversation in focus for the current view, or nil.
func (s *Session) Current(ctx context.Context) (*models.Conversation, error) {
	s.mu.Lock()
	id := s.active
	if s.role == RoleAdmin {
		id = s.adminSelected
	}
	s.mu.Unlock()
	if id == "" {
		return nil, nil
	}
	return s.store.Get(ctx, id)
}

// Conversations lists conversations visible in either view.
func (s *Session) Conversations(ctx context.Context, filters conversation.ListFilters) ([]models.Conversation, error) {
	return s.store.List(ctx, filters)
}

// NewChat starts a conversation for the owner and makes it active.
func (s *Session) NewChat(ctx context.Context) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.role != RoleUser {
		return nil, wrongView("new chat", RoleUser)
	}
	conv, err := s.store.Create(ctx, s.owner)
	if err != nil {
		return nil, err
	}
	s.active = conv.ID
	return conv, nil
}

// OpenConversation makes id the active user conversation.
func (s *Session) OpenConversation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.role != RoleUser {
		return wrongView("open", RoleUser)
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	s.active = id
	return nil
}

// SelectForAdmin opens id in the admin detail view.
func (s *Session) SelectForAdmin(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.role != RoleAdmin {
		return wrongView("select", RoleAdmin)
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	s.adminSelected = id
	return nil
}

// Back leaves the admin detail view without touching the conversation.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.role != RoleAdmin {
		return wrongView("back", RoleAdmin)
	}
	s.adminSelected = ""
	return nil
}

// Resolve resolves the conversation in focus: by the user in the user view,
// by an admin in the admin view. An admin resolve also returns to the list.
// It returns the conversation id and whether the state changed.
func (s *Session) Resolve(ctx context.Context, notes string) (id string, changed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.role {
	case RoleUser:
		if s.active == "" {
			return "", false, fmt.Errorf("session: %w: no active conversation", models.ErrInvalidInput)
		}
		changed, err = s.store.ResolveByUser(ctx, s.active, notes)
		return s.active, changed, err
	default:
		if s.adminSelected == "" {
			return "", false, fmt.Errorf("session: %w: no conversation selected", models.ErrInvalidInput)
		}
		id = s.adminSelected
		changed, err = s.store.ResolveByAdmin(ctx, id, notes)
		if err != nil {
			return id, false, err
		}
		s.adminSelected = ""
		return id, changed, nil
	}
}

// Feedback records owner feedback on the active, resolved conversation.
func (s *Session) Feedback(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.role != RoleUser {
		return wrongView("feedback", RoleUser)
	}
	if s.active == "" {
		return fmt.Errorf("session: %w: no active conversation", models.ErrInvalidInput)
	}
	return s.store.RecordFeedback(ctx, s.active)
}
