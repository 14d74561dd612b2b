package service

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/notestack/notestack/internal/catalog"
	"github.com/notestack/notestack/internal/db"
	"github.com/notestack/notestack/internal/repository"
	"github.com/notestack/notestack/internal/storage"
	"github.com/notestack/notestack/internal/validation"
)

// testEnv wires real collaborators: a temp sqlite database with migrations
// applied and a temp-dir local blob store.
type testEnv struct {
	submissions repository.SubmissionRepository
	storage     storage.Storage
	ingest      *IngestService
	moderation  *ModerationService
	catalog     *CatalogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to init database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	err = db.RunMigrations(database.DB, "sqlite")
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}

	submissions := repository.NewSubmissionRepository(database)
	cat := catalog.Default()
	constraints := validation.NewFileConstraints([]string{"pdf"})

	return &testEnv{
		submissions: submissions,
		storage:     store,
		ingest:      NewIngestService(submissions, store, cat, constraints),
		moderation:  NewModerationService(submissions, store),
		catalog:     NewCatalogService(submissions, store, cat),
	}
}

func upload(name, content string) UploadFile {
	return UploadFile{Name: name, Reader: strings.NewReader(content)}
}

// blobExists reports whether the key is retrievable from the zone.
func (e *testEnv) blobExists(t *testing.T, zone storage.Zone, key string) bool {
	t.Helper()
	rc, err := e.storage.Open(t.Context(), zone, key)
	if err != nil {
		return false
	}
	_ = rc.Close()
	return true
}
