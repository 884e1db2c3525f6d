package session

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/models"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/reply"
)

// Send appends text to the active conversation as the user and starts
// generating the assistant reply in the background. The user message is
// visible as soon as Send returns. While the reply is pending, further sends
// to that conversation fail with ErrReplyPending.
func (s *Session) Send(ctx context.Context, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("session: %w: message text is required", models.ErrInvalidInput)
	}

	s.mu.Lock()
	if s.role != RoleUser {
		s.mu.Unlock()
		return nil, wrongView("send", RoleUser)
	}
	id := s.active
	if id == "" {
		s.mu.Unlock()
		return nil, fmt.Errorf("session: %w: no active conversation", models.ErrInvalidInput)
	}
	if s.pending[id] {
		s.mu.Unlock()
		return nil, fmt.Errorf("session: %w: %s", ErrReplyPending, id)
	}
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("session: closed")
	}
	s.pending[id] = true
	s.wg.Add(1)
	s.mu.Unlock()

	msg, err := s.store.AppendMessage(ctx, id, models.SenderUser, text)
	if err != nil {
		s.clearPending(id)
		s.wg.Done()
		return nil, err
	}

	go s.generate(id)
	return msg, nil
}

// Pending reports whether a reply for id is being generated.
func (s *Session) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[id]
}

// Wait blocks until every in-flight reply has landed.
func (s *Session) Wait() {
	s.wg.Wait()
}

func (s *Session) clearPending(id string) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

// generate runs outside the caller's context: leaving the conversation does
// not cancel it, and the reply is appended wherever the user has navigated.
func (s *Session) generate(id string) {
	defer s.wg.Done()
	defer s.clearPending(id)

	res := ReplyResult{ConversationID: id}
	text, err := s.reply(id)
	if err != nil {
		log.Printf("session: reply for %s failed: %v", id, err)
		text = reply.FallbackText
		res.Fallback = true
	}

	// The append must land even if the session is closing.
	msg, err := s.store.AppendMessage(context.WithoutCancel(s.ctx), id, models.SenderAI, text)
	if err != nil {
		log.Printf("session: append reply to %s: %v", id, err)
		res.Err = err
	}
	res.Message = msg

	if s.onReply != nil {
		s.onReply(res)
	}
}

func (s *Session) reply(id string) (string, error) {
	conv, err := s.store.Get(s.ctx, id)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}
	msg, err := s.gen.Generate(s.ctx, conv.Messages)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(msg.Text) == "" {
		return "", fmt.Errorf("session: %w: empty reply", reply.ErrGenerator)
	}
	return msg.Text, nil
}
