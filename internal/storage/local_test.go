package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newLocal(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage() error = %v", err)
	}
	return s
}

func readBlob(t *testing.T, s Storage, zone Zone, key string) string {
	t.Helper()
	rc, err := s.Open(t.Context(), zone, key)
	if err != nil {
		t.Fatalf("Open(%s, %s) error = %v", zone, key, err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("failed to read blob: %v", err)
	}
	return string(data)
}

func TestSaveAndOpen(t *testing.T) {
	s := newLocal(t)

	err := s.Save(t.Context(), ZonePending, "k1", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if got := readBlob(t, s, ZonePending, "k1"); got != "payload" {
		t.Errorf("blob content = %q, want %q", got, "payload")
	}

	// Saved to pending only, not approved
	_, err = s.Open(t.Context(), ZoneApproved, "k1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Open(approved) error = %v, want ErrNotFound", err)
	}
}

func TestSaveRefusesExistingKey(t *testing.T) {
	s := newLocal(t)

	if err := s.Save(t.Context(), ZonePending, "k1", strings.NewReader("one")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	err := s.Save(t.Context(), ZonePending, "k1", strings.NewReader("two"))
	if err == nil {
		t.Fatal("second Save with same key must fail, not overwrite")
	}
	if got := readBlob(t, s, ZonePending, "k1"); got != "one" {
		t.Errorf("blob content = %q, original must survive", got)
	}
}

func TestMove(t *testing.T) {
	s := newLocal(t)

	if err := s.Save(t.Context(), ZonePending, "k1", strings.NewReader("payload")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Move(t.Context(), "k1", ZonePending, ZoneApproved); err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	// Present in exactly one zone after the move
	if got := readBlob(t, s, ZoneApproved, "k1"); got != "payload" {
		t.Errorf("blob content = %q after move", got)
	}
	_, err := s.Open(t.Context(), ZonePending, "k1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Open(pending) after move error = %v, want ErrNotFound", err)
	}
}

func TestMoveMissingSource(t *testing.T) {
	s := newLocal(t)

	err := s.Move(t.Context(), "ghost", ZonePending, ZoneApproved)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Move() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	s := newLocal(t)

	if err := s.Save(t.Context(), ZonePending, "k1", strings.NewReader("payload")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Delete(t.Context(), ZonePending, "k1"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	// Second delete of an absent blob is success
	if err := s.Delete(t.Context(), ZonePending, "k1"); err != nil {
		t.Errorf("repeated Delete() error = %v, want nil", err)
	}

	_, err := s.Open(t.Context(), ZonePending, "k1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Open() after delete error = %v, want ErrNotFound", err)
	}
}

func TestNewLocalStorageCreatesZones(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "storage")
	_, err := NewLocalStorage(root)
	if err != nil {
		t.Fatalf("NewLocalStorage() error = %v", err)
	}

	for _, zone := range []Zone{ZonePending, ZoneApproved} {
		info, statErr := os.Stat(filepath.Join(root, string(zone)))
		if statErr != nil || !info.IsDir() {
			t.Errorf("zone directory %s missing: %v", zone, statErr)
		}
	}
}
