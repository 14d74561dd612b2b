package repository

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/notestack/notestack/internal/model"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
)

type SubmissionRepository interface {
	Create(submission *model.Submission) error
	ByID(id int64) (*model.Submission, error)
	ApprovedByStorageKey(key string) (*model.Submission, error)
	Pending() ([]*model.Submission, error)
	Approved(subject, grade string) ([]*model.Submission, error)
	UpdateStatusIfPending(id int64, status string) (bool, error)
}

type submissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) *submissionRepository {
	return &submissionRepository{db: db}
}

// Create inserts the submission and fills in its assigned id.
func (r *submissionRepository) Create(submission *model.Submission) error {
	query := `INSERT INTO submissions (storage_key, original_name, subject, grade, submitter, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	return r.db.Get(&submission.ID, query,
		submission.StorageKey,
		submission.OriginalName,
		submission.Subject,
		submission.Grade,
		submission.Submitter,
		submission.Status,
		submission.CreatedAt,
	)
}

func (r *submissionRepository) ByID(id int64) (*model.Submission, error) {
	submission := &model.Submission{}
	query := `SELECT * FROM submissions WHERE id = $1`

	err := r.db.Get(submission, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrSubmissionNotFound
	}

	return submission, err
}

// ApprovedByStorageKey resolves a storage key to its record, approved rows
// only. Public view/download routes go through this so that pending and
// rejected keys are never served.
func (r *submissionRepository) ApprovedByStorageKey(key string) (*model.Submission, error) {
	submission := &model.Submission{}
	query := `SELECT * FROM submissions WHERE storage_key = $1 AND status = $2`

	err := r.db.Get(submission, query, key, model.StatusApproved)
	if err == sql.ErrNoRows {
		return nil, ErrSubmissionNotFound
	}

	return submission, err
}

func (r *submissionRepository) Pending() ([]*model.Submission, error) {
	var submissions []*model.Submission
	query := `SELECT * FROM submissions WHERE status = $1 ORDER BY created_at DESC, id DESC`

	err := r.db.Select(&submissions, query, model.StatusPending)
	if err != nil {
		return nil, err
	}

	return submissions, nil
}

// Approved lists approved submissions, newest first. Empty subject or grade
// means no filter on that axis.
func (r *submissionRepository) Approved(subject, grade string) ([]*model.Submission, error) {
	query := `SELECT * FROM submissions WHERE status = $1`
	args := []any{model.StatusApproved}

	var filters []string
	if subject != "" {
		args = append(args, subject)
		filters = append(filters, "subject = $"+strconv.Itoa(len(args)))
	}
	if grade != "" {
		args = append(args, grade)
		filters = append(filters, "grade = $"+strconv.Itoa(len(args)))
	}
	if len(filters) > 0 {
		query += " AND " + strings.Join(filters, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	var submissions []*model.Submission
	err := r.db.Select(&submissions, query, args...)
	if err != nil {
		return nil, err
	}

	return submissions, nil
}

// UpdateStatusIfPending transitions a row out of pending in a single
// conditional UPDATE. It returns false when the row was not pending anymore,
// which is how concurrent approve/reject calls on the same id are serialized:
// exactly one caller sees true.
func (r *submissionRepository) UpdateStatusIfPending(id int64, status string) (bool, error) {
	query := `UPDATE submissions SET status = $1 WHERE id = $2 AND status = $3`

	res, err := r.db.Exec(query, status, id, model.StatusPending)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}
