package models

// Counter is a named monotonic sequence used to allocate identifiers.
type Counter struct {
	Name  string `gorm:"primaryKey;size:32"`
	Value int    `gorm:"not null;default:0"`
}
