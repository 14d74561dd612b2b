package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStorage keeps each zone as a directory under a common root.
// Moves are same-volume renames, so they are atomic.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	for _, zone := range []Zone{ZonePending, ZoneApproved} {
		err := os.MkdirAll(filepath.Join(root, string(zone)), 0755)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s zone: %w", zone, err)
		}
	}
	return &LocalStorage{root: root}, nil
}

func (s *LocalStorage) path(zone Zone, key string) string {
	return filepath.Join(s.root, string(zone), key)
}

// Local filesystem calls don't take a context; it is accepted here only to
// satisfy Storage.
func (s *LocalStorage) Save(_ context.Context, zone Zone, key string, r io.Reader) error {
	// O_EXCL: the caller guarantees key uniqueness; a collision is a bug,
	// not something to silently overwrite.
	f, err := os.OpenFile(s.path(zone, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create blob: %w", err)
	}

	_, err = io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(s.path(zone, key))
		return fmt.Errorf("failed to write blob: %w", err)
	}

	err = f.Close()
	if err != nil {
		_ = os.Remove(s.path(zone, key))
		return fmt.Errorf("failed to close blob: %w", err)
	}

	return nil
}

func (s *LocalStorage) Move(_ context.Context, key string, from, to Zone) error {
	err := os.Rename(s.path(from, key), s.path(to, key))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to move blob: %w", err)
	}
	return nil
}

func (s *LocalStorage) Delete(_ context.Context, zone Zone, key string) error {
	err := os.Remove(s.path(zone, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

func (s *LocalStorage) Open(_ context.Context, zone Zone, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(zone, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	return f, nil
}
