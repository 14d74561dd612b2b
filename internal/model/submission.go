package model

import (
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Submission is one uploaded file awaiting or past moderation.
// Rejected rows are kept as tombstones with no backing blob.
type Submission struct {
	ID           int64     `db:"id"`
	StorageKey   string    `db:"storage_key"`   // Blob name in whichever zone holds it
	OriginalName string    `db:"original_name"` // Client-supplied filename, used for downloads
	Subject      string    `db:"subject"`
	Grade        string    `db:"grade"`
	Submitter    string    `db:"submitter"` // Free-text attribution, optional
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
}

func (s *Submission) IsPending() bool {
	return s.Status == StatusPending
}
