// Package directory manages the collection of known user accounts.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/db"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/models"
	"gorm.io/gorm"
)

// NewUserLastLogin is the display value given to freshly added users.
const NewUserLastLogin = "Just now"

// AddOpts holds parameters for adding a user. All fields are required.
type AddOpts struct {
	Name  string
	Email string
	Role  string // Admin, Support Agent, Customer, Contact, ...
}

// UpdateOpts holds the fields to change. Nil fields are left untouched; a
// provided field must not be blank.
type UpdateOpts struct {
	Name      *string
	Email     *string
	Role      *string
	LastLogin *string
}

// Directory provides CRUD over users.
type Directory struct {
	db *gorm.DB
}

// New creates a Directory.
func New(gdb *gorm.DB) (*Directory, error) {
	if gdb == nil {
		return nil, fmt.Errorf("directory: db is required")
	}
	return &Directory{db: gdb}, nil
}

func invalid(msg string) error {
	return fmt.Errorf("directory: %w: %s", models.ErrInvalidInput, msg)
}

func notFound(id string) error {
	return fmt.Errorf("directory: %w: %s", models.ErrNotFound, id)
}

// Add creates a user with a fresh id that is never reused.
func (d *Directory) Add(ctx context.Context, opts AddOpts) (*models.User, error) {
	name := strings.TrimSpace(opts.Name)
	email := strings.TrimSpace(opts.Email)
	role := strings.TrimSpace(opts.Role)
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if role == "" {
		missing = append(missing, "role")
	}
	if len(missing) > 0 {
		return nil, invalid(strings.Join(missing, ", ") + " required")
	}

	var user models.User
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := db.NextValue(tx, db.CounterUser)
		if err != nil {
			return err
		}
		user = models.User{
			ID:        fmt.Sprintf("usr%03d", n),
			Name:      name,
			Email:     email,
			Role:      role,
			LastLogin: NewUserLastLogin,
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("directory: add %s: %w", user.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update modifies the provided fields of user id.
func (d *Directory) Update(ctx context.Context, id string, opts UpdateOpts) (*models.User, error) {
	updates := map[string]interface{}{}
	set := func(column string, v *string) error {
		if v == nil {
			return nil
		}
		trimmed := strings.TrimSpace(*v)
		if trimmed == "" {
			return invalid(column + " must not be blank")
		}
		updates[column] = trimmed
		return nil
	}
	for _, f := range []struct {
		column string
		value  *string
	}{
		{"name", opts.Name},
		{"email", opts.Email},
		{"role", opts.Role},
		{"last_login", opts.LastLogin},
	} {
		if err := set(f.column, f.value); err != nil {
			return nil, err
		}
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("directory: check %s: %w", id, err)
		}
		if n == 0 {
			return notFound(id)
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("directory: update %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d.Get(ctx, id)
}

// Remove deletes user id. Conversations naming the user are left as they are.
func (d *Directory) Remove(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return fmt.Errorf("directory: remove %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(id)
	}
	return nil
}

// Get retrieves a user by id.
func (d *Directory) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("directory: get %s: %w", id, err)
	}
	return &user, nil
}

// List returns all users ordered by id.
func (d *Directory) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := d.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("directory: list: %w", err)
	}
	return users, nil
}

// Count returns the number of users.
func (d *Directory) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := d.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("directory: count: %w", err)
	}
	return n, nil
}
