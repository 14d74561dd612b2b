package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/notestack/notestack/internal/model"
	"github.com/notestack/notestack/internal/repository"
	"github.com/notestack/notestack/internal/storage"
)

type ModerationService struct {
	submissions repository.SubmissionRepository
	storage     storage.Storage
}

func NewModerationService(submissions repository.SubmissionRepository, store storage.Storage) *ModerationService {
	return &ModerationService{
		submissions: submissions,
		storage:     store,
	}
}

// Pending lists submissions awaiting moderation, newest first.
func (s *ModerationService) Pending() ([]*model.Submission, error) {
	return s.submissions.Pending()
}

// Approve publishes a pending submission: the blob moves pending→approved
// first, and only then does the status flip, via a conditional update so
// that concurrent approve/reject calls on the same id can't both win. A row
// is never marked approved without a confirmed successful move.
func (s *ModerationService) Approve(ctx context.Context, id int64) error {
	submission, err := s.byID(id)
	if err != nil {
		return err
	}
	if !submission.IsPending() {
		return fmt.Errorf("submission %d is %s: %w", id, submission.Status, ErrInvalidState)
	}

	err = s.storage.Move(ctx, submission.StorageKey, storage.ZonePending, storage.ZoneApproved)
	if err != nil {
		// Record stays pending; the caller may retry
		return fmt.Errorf("failed to move blob for submission %d: %w", id, err)
	}

	ok, err := s.submissions.UpdateStatusIfPending(id, model.StatusApproved)
	if err != nil {
		return fmt.Errorf("failed to update submission %d: %w", id, err)
	}
	if !ok {
		// Lost the race to a concurrent moderation action. Reconcile the
		// blob with whatever the winner decided: a winning reject already
		// treated the pending zone as emptied, so the blob we moved must be
		// discarded, not restored.
		s.reconcileLostApprove(ctx, id, submission.StorageKey)
		return fmt.Errorf("submission %d: %w", id, ErrInvalidState)
	}

	slog.Info("submission approved", "id", id, "key", submission.StorageKey)
	return nil
}

// reconcileLostApprove puts the approved-zone blob in the state the winning
// action's status implies. Failures here only log: the caller already
// reports ErrInvalidState and the key stays greppable for a sweep.
func (s *ModerationService) reconcileLostApprove(ctx context.Context, id int64, key string) {
	final, err := s.submissions.ByID(id)
	if err != nil {
		slog.Error("failed to re-read submission after lost approve race",
			"error", err, "id", id, "key", key)
		return
	}

	switch final.Status {
	case model.StatusRejected:
		err = s.storage.Delete(ctx, storage.ZoneApproved, key)
		if err != nil {
			slog.Error("failed to discard blob after lost approve race",
				"error", err, "id", id, "key", key)
		}
	case model.StatusPending:
		err = s.storage.Move(ctx, key, storage.ZoneApproved, storage.ZonePending)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			slog.Error("failed to restore blob after lost approve race",
				"error", err, "id", id, "key", key)
		}
	}
	// StatusApproved: a concurrent approve won and owns the blob now.
}

// Reject discards a pending submission: the pending blob is deleted (delete
// is idempotent, so a retried reject is safe) and the row becomes a
// rejected tombstone. Approved or already-rejected rows are not rejectable.
func (s *ModerationService) Reject(ctx context.Context, id int64) error {
	submission, err := s.byID(id)
	if err != nil {
		return err
	}
	if !submission.IsPending() {
		return fmt.Errorf("submission %d is %s: %w", id, submission.Status, ErrInvalidState)
	}

	// Deleting before the status update is safe against a concurrent
	// approve: if approve won, its move already emptied the pending zone
	// and this delete is a no-op on an absent key.
	err = s.storage.Delete(ctx, storage.ZonePending, submission.StorageKey)
	if err != nil {
		return fmt.Errorf("failed to delete blob for submission %d: %w", id, err)
	}

	ok, err := s.submissions.UpdateStatusIfPending(id, model.StatusRejected)
	if err != nil {
		return fmt.Errorf("failed to update submission %d: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("submission %d: %w", id, ErrInvalidState)
	}

	slog.Info("submission rejected", "id", id, "key", submission.StorageKey)
	return nil
}

// OpenPending streams a pending submission's bytes for operator review.
func (s *ModerationService) OpenPending(ctx context.Context, id int64) (*model.Submission, io.ReadCloser, error) {
	submission, err := s.byID(id)
	if err != nil {
		return nil, nil, err
	}
	if !submission.IsPending() {
		return nil, nil, fmt.Errorf("submission %d is %s: %w", id, submission.Status, ErrInvalidState)
	}

	rc, err := s.storage.Open(ctx, storage.ZonePending, submission.StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, fmt.Errorf("blob for submission %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open blob for submission %d: %w", id, err)
	}

	return submission, rc, nil
}

func (s *ModerationService) byID(id int64) (*model.Submission, error) {
	submission, err := s.submissions.ByID(id)
	if errors.Is(err, repository.ErrSubmissionNotFound) {
		return nil, fmt.Errorf("submission %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission %d: %w", id, err)
	}
	return submission, nil
}
