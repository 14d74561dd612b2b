package service

import "errors"

var (
	// ErrInvalidClassification means the batch named a subject or grade
	// outside the configured catalog. Nothing is written.
	ErrInvalidClassification = errors.New("invalid subject or grade")

	// ErrNotFound means no submission exists for the given id or key.
	ErrNotFound = errors.New("submission not found")

	// ErrInvalidState means the submission is not in the status the
	// operation requires.
	ErrInvalidState = errors.New("submission is not pending")
)
