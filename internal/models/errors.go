package models

import "errors"

// Error taxonomy shared by the store and directory. Callers match with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
