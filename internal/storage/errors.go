package storage

import "errors"

// Storage errors shared by every backend.
var (
	// ErrNotFound is returned when a requested run or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a run's snapshot has already been written.
	// Snapshot stores are append-only per run.
	ErrDuplicateKey = errors.New("duplicate key: snapshot already written for run")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
