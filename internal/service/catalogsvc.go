package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/notestack/notestack/internal/catalog"
	"github.com/notestack/notestack/internal/model"
	"github.com/notestack/notestack/internal/repository"
	"github.com/notestack/notestack/internal/storage"
)

// CatalogService is the public, read-only view: approved submissions and
// the subject/grade classification.
type CatalogService struct {
	submissions repository.SubmissionRepository
	storage     storage.Storage
	catalog     *catalog.Catalog
}

func NewCatalogService(submissions repository.SubmissionRepository, store storage.Storage, cat *catalog.Catalog) *CatalogService {
	return &CatalogService{
		submissions: submissions,
		storage:     store,
		catalog:     cat,
	}
}

// Subjects returns the ordered classification catalog.
func (s *CatalogService) Subjects() []catalog.Subject {
	return s.catalog.Subjects()
}

// Browse lists approved submissions newest first, optionally filtered by
// subject and/or grade. Empty filter means all.
func (s *CatalogService) Browse(subject, grade string) ([]*model.Submission, error) {
	return s.submissions.Approved(subject, grade)
}

// GradesAvailable returns the grades to offer for a subject filter, or the
// union of all grades when the subject is empty or unknown.
func (s *CatalogService) GradesAvailable(subject string) []string {
	if subject != "" && s.catalog.HasSubject(subject) {
		return s.catalog.Grades(subject)
	}
	return s.catalog.AllGrades()
}

// OpenApproved resolves a storage key to its approved record and blob
// stream. Keys without an approved record are not served, whatever bytes
// may exist on disk.
func (s *CatalogService) OpenApproved(ctx context.Context, key string) (*model.Submission, io.ReadCloser, error) {
	submission, err := s.submissions.ApprovedByStorageKey(key)
	if errors.Is(err, repository.ErrSubmissionNotFound) {
		return nil, nil, fmt.Errorf("approved file %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get submission for key %q: %w", key, err)
	}

	rc, err := s.storage.Open(ctx, storage.ZoneApproved, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, fmt.Errorf("blob for key %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open blob for key %q: %w", key, err)
	}

	return submission, rc, nil
}
