package validation

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyFilename = errors.New("filename is empty")
	ErrBadExtension  = errors.New("file extension not allowed")
)

// FileConstraints defines validation rules for uploaded files.
type FileConstraints struct {
	AllowedExtensions map[string]bool
}

// NewFileConstraints builds constraints from a list of extensions without
// dots, e.g. ["pdf", "docx"].
func NewFileConstraints(extensions []string) FileConstraints {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed["."+strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return FileConstraints{AllowedExtensions: allowed}
}

// ValidateFilename checks that the name is non-empty and carries an allowed
// extension. The check is case-insensitive.
func (c FileConstraints) ValidateFilename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyFilename
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" || !c.AllowedExtensions[ext] {
		return ErrBadExtension
	}

	return nil
}
