package db

import (
	"fmt"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Counter names used for identifier allocation.
const (
	CounterConversation = "conversation"
	CounterUser         = "user"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Conversation{},
		&models.Message{},
		&models.User{},
		&models.Counter{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// NextValue increments the named counter and returns its new value. Values are
// never reused, even after the rows they named are deleted. Call it inside the
// transaction that uses the value.
func NextValue(tx *gorm.DB, name string) (int, error) {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": gorm.Expr("value + 1")}),
	}).Create(&models.Counter{Name: name, Value: 1}).Error
	if err != nil {
		return 0, fmt.Errorf("db: advance counter %q: %w", name, err)
	}
	var c models.Counter
	if err := tx.Where("name = ?", name).First(&c).Error; err != nil {
		return 0, fmt.Errorf("db: read counter %q: %w", name, err)
	}
	return c.Value, nil
}

// RaiseCounter moves the named counter up to at least value. It never lowers it.
func RaiseCounter(tx *gorm.DB, name string, value int) error {
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value": gorm.Expr("MAX(value, excluded.value)"),
		}),
	}).Create(&models.Counter{Name: name, Value: value}).Error
	if err != nil {
		return fmt.Errorf("db: raise counter %q to %d: %w", name, value, err)
	}
	return nil
}
