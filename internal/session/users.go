package session

import (
	"context"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/directory"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/models"
)

// Users lists the directory.
func (s *Session) Users(ctx context.Context) ([]models.User, error) {
	return s.dir.List(ctx)
}

func (s *Session) requireAdmin(action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.role != RoleAdmin {
		return wrongView(action, RoleAdmin)
	}
	return nil
}

// AddUser adds a directory entry from the admin view.
func (s *Session) AddUser(ctx context.Context, opts directory.AddOpts) (*models.User, error) {
	if err := s.requireAdmin("add user"); err != nil {
		return nil, err
	}
	return s.dir.Add(ctx, opts)
}

// UpdateUser changes a directory entry from the admin view.
func (s *Session) UpdateUser(ctx context.Context, id string, opts directory.UpdateOpts) (*models.User, error) {
	if err := s.requireAdmin("update user"); err != nil {
		return nil, err
	}
	return s.dir.Update(ctx, id, opts)
}

// RemoveUser deletes a directory entry from the admin view.
func (s *Session) RemoveUser(ctx context.Context, id string) error {
	if err := s.requireAdmin("remove user"); err != nil {
		return err
	}
	return s.dir.Remove(ctx, id)
}
