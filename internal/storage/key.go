package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NewKey derives a storage key from the upload time and the client-supplied
// filename: a UTC microsecond timestamp followed by the sanitized name.
// Concurrent batches get distinct keys without any global lock; two files
// with the same name in the same microsecond is the only (theoretical)
// collision left, and Save's exclusive-create turns that into an error
// instead of an overwrite.
func NewKey(now time.Time, originalName string) string {
	now = now.UTC()
	stamp := fmt.Sprintf("%s%06d", now.Format("20060102150405"), now.Nanosecond()/1000)
	return stamp + "__" + SanitizeFilename(originalName)
}

// SanitizeFilename collapses a client-supplied filename to a safe character
// set: path separators and directory components are stripped, the name is
// NFKD-normalized, and anything outside [A-Za-z0-9._-] becomes '_'.
func SanitizeFilename(name string) string {
	// Drop any path the client sent along (both separator styles)
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	// Decompose accented characters so their ASCII base survives the filter
	name = norm.NFKD.String(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		case unicode.Is(unicode.Mn, r):
			// Combining marks left over from NFKD are dropped entirely
		default:
			b.WriteRune('_')
		}
	}

	sanitized := strings.Trim(b.String(), "._")
	if sanitized == "" {
		sanitized = "file"
	}
	return sanitized
}
