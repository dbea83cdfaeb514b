package domain

import "errors"

// Sentinel errors shared by services and repositories.
// Use errors.Is to check them.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
)
