package service

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/notestack/notestack/internal/model"
	"github.com/notestack/notestack/internal/storage"
)

func TestBrowseOnlyApproved(t *testing.T) {
	env := newTestEnv(t)

	s := ingestOnePending(t, env, "a.pdf")
	if err := env.moderation.Approve(t.Context(), s.ID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	ingestOnePending(t, env, "b.pdf") // stays pending
	rejected := ingestOnePending(t, env, "c.pdf")
	if err := env.moderation.Reject(t.Context(), rejected.ID); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}

	filters := [][2]string{
		{"", ""},
		{"Mathematics", ""},
		{"", "10"},
		{"Mathematics", "10"},
	}
	for _, f := range filters {
		got, err := env.catalog.Browse(f[0], f[1])
		if err != nil {
			t.Fatalf("Browse(%q, %q) error = %v", f[0], f[1], err)
		}
		if len(got) != 1 {
			t.Fatalf("Browse(%q, %q) returned %d rows, want 1", f[0], f[1], len(got))
		}
		if got[0].Status != model.StatusApproved {
			t.Errorf("Browse() returned status %s", got[0].Status)
		}
		if got[0].ID != s.ID {
			t.Errorf("Browse() returned id %d, want %d", got[0].ID, s.ID)
		}
	}
}

func TestBrowseAfterModerationScenario(t *testing.T) {
	env := newTestEnv(t)

	// Batch of three: two PDFs and one rejected docx
	report, err := env.ingest.Ingest(t.Context(), "Mathematics", "10", "", []UploadFile{
		upload("a.pdf", "aaa"),
		upload("b.pdf", "bbb"),
		upload("c.docx", "ccc"),
	}, storage.ZonePending)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if report.Accepted != 2 || report.Rejected != 1 {
		t.Fatalf("report = %+v, want accepted=2 rejected=1", report)
	}

	pending, err := env.moderation.Pending()
	if err != nil {
		t.Fatalf("Pending() error = %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("got %d pending, want 2", len(pending))
	}

	// Approving the first leaves one approved + one pending
	if err := env.moderation.Approve(t.Context(), pending[0].ID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	approved, err := env.catalog.Browse("Mathematics", "10")
	if err != nil {
		t.Fatalf("Browse() error = %v", err)
	}
	if len(approved) != 1 || approved[0].ID != pending[0].ID {
		t.Fatalf("Browse() = %d rows, want exactly the approved one", len(approved))
	}

	remaining, err := env.moderation.Pending()
	if err != nil {
		t.Fatalf("Pending() error = %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != pending[1].ID {
		t.Errorf("queue should hold exactly the unapproved record")
	}
}

func TestGradesAvailable(t *testing.T) {
	env := newTestEnv(t)

	got := env.catalog.GradesAvailable("Mathematics")
	if !reflect.DeepEqual(got, []string{"8", "9", "10", "11", "12"}) {
		t.Errorf("GradesAvailable(Mathematics) = %v", got)
	}

	// Unknown or empty subject falls back to the union of all grades
	all := []string{"8", "9", "10", "11", "12"}
	if got := env.catalog.GradesAvailable(""); !reflect.DeepEqual(got, all) {
		t.Errorf("GradesAvailable(\"\") = %v, want %v", got, all)
	}
	if got := env.catalog.GradesAvailable("Alchemy"); !reflect.DeepEqual(got, all) {
		t.Errorf("GradesAvailable(Alchemy) = %v, want %v", got, all)
	}
}

func TestOpenApproved(t *testing.T) {
	env := newTestEnv(t)

	s := ingestOnePending(t, env, "a.pdf")

	// Pending keys are not served
	_, _, err := env.catalog.OpenApproved(t.Context(), s.StorageKey)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("OpenApproved(pending key) error = %v, want ErrNotFound", err)
	}

	if err := env.moderation.Approve(t.Context(), s.ID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	got, rc, err := env.catalog.OpenApproved(t.Context(), s.StorageKey)
	if err != nil {
		t.Fatalf("OpenApproved() error = %v", err)
	}
	defer func() { _ = rc.Close() }()

	if got.OriginalName != "a.pdf" {
		t.Errorf("OpenApproved() original name = %q", got.OriginalName)
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("failed to read stream: %v", err)
	}
	if string(data) != "content of a.pdf" {
		t.Errorf("stream content = %q", data)
	}

	_, _, err = env.catalog.OpenApproved(t.Context(), "no-such-key")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("OpenApproved(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSubjectsExposesCatalog(t *testing.T) {
	env := newTestEnv(t)

	subjects := env.catalog.Subjects()
	if len(subjects) == 0 {
		t.Fatal("Subjects() returned empty catalog")
	}
	if subjects[0].Name != "Mathematics" {
		t.Errorf("first subject = %s, want catalog order preserved", subjects[0].Name)
	}
}
