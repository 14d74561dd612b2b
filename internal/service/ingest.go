package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/notestack/notestack/internal/catalog"
	"github.com/notestack/notestack/internal/model"
	"github.com/notestack/notestack/internal/repository"
	"github.com/notestack/notestack/internal/storage"
	"github.com/notestack/notestack/internal/validation"
)

// UploadFile is one raw payload in an ingestion batch.
type UploadFile struct {
	Name   string
	Reader io.Reader
}

// IngestReport tallies a batch. Per-file failures are counts, not errors:
// one bad file in a batch never loses the rest.
type IngestReport struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

type IngestService struct {
	submissions repository.SubmissionRepository
	storage     storage.Storage
	catalog     *catalog.Catalog
	constraints validation.FileConstraints
}

func NewIngestService(
	submissions repository.SubmissionRepository,
	store storage.Storage,
	cat *catalog.Catalog,
	constraints validation.FileConstraints,
) *IngestService {
	return &IngestService{
		submissions: submissions,
		storage:     store,
		catalog:     cat,
		constraints: constraints,
	}
}

// Ingest validates the classification for the whole batch, then processes
// each file independently: write the blob to the target zone, then insert
// the record. The record status follows the zone, which is how operator
// uploads land directly as approved.
func (s *IngestService) Ingest(ctx context.Context, subject, grade, submitter string, files []UploadFile, zone storage.Zone) (*IngestReport, error) {
	// Classification errors are batch-wide and precede any per-file work
	if !s.catalog.HasSubject(subject) || !s.catalog.Valid(subject, grade) {
		return nil, fmt.Errorf("subject %q grade %q: %w", subject, grade, ErrInvalidClassification)
	}

	status := model.StatusPending
	if zone == storage.ZoneApproved {
		status = model.StatusApproved
	}

	report := &IngestReport{}
	for _, file := range files {
		if s.ingestOne(ctx, subject, grade, submitter, file, zone, status) {
			report.Accepted++
		} else {
			report.Rejected++
		}
	}

	return report, nil
}

func (s *IngestService) ingestOne(ctx context.Context, subject, grade, submitter string, file UploadFile, zone storage.Zone, status string) bool {
	err := s.constraints.ValidateFilename(file.Name)
	if err != nil {
		slog.Debug("upload rejected", "name", file.Name, "reason", err)
		return false
	}

	now := time.Now()
	key := storage.NewKey(now, file.Name)

	// Blob first, record second. A record must never reference bytes that
	// were not confirmed written.
	err = s.storage.Save(ctx, zone, key, file.Reader)
	if err != nil {
		slog.Error("failed to save upload", "error", err, "key", key, "zone", zone)
		return false
	}

	submission := &model.Submission{
		StorageKey:   key,
		OriginalName: file.Name,
		Subject:      subject,
		Grade:        grade,
		Submitter:    submitter,
		Status:       status,
		CreatedAt:    now,
	}

	err = s.submissions.Create(submission)
	if err != nil {
		// The blob is now orphaned. Left in place on purpose: a background
		// sweep can reclaim it, and the timestamped key makes it greppable.
		slog.Warn("failed to create submission record, blob orphaned",
			"error", err, "key", key, "zone", zone)
		return false
	}

	return true
}
