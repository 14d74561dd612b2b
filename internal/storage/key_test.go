package storage

import (
	"strings"
	"testing"
	"time"
)

func TestNewKeyFormat(t *testing.T) {
	at := time.Date(2025, 3, 14, 15, 9, 26, 535897000, time.UTC)

	key := NewKey(at, "algebra notes.pdf")
	want := "20250314150926535897__algebra_notes.pdf"
	if key != want {
		t.Errorf("NewKey() = %q, want %q", key, want)
	}
}

func TestNewKeyDistinguishesMicroseconds(t *testing.T) {
	at := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	a := NewKey(at, "a.pdf")
	b := NewKey(at.Add(time.Microsecond), "a.pdf")
	if a == b {
		t.Errorf("keys one microsecond apart must differ, both %q", a)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "notes.pdf", "notes.pdf"},
		{"spaces", "my notes final.pdf", "my_notes_final.pdf"},
		{"path stripped", "../../etc/passwd", "passwd"},
		{"windows path stripped", `C:\Users\x\notes.pdf`, "notes.pdf"},
		{"accents decomposed", "résumé.pdf", "resume.pdf"},
		{"control characters", "no\x00tes\n.pdf", "no_tes_.pdf"},
		{"only junk falls back", "///", "file"},
		{"leading dots trimmed", "..hidden.pdf", "hidden.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.in)
			if got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilenameSafeSet(t *testing.T) {
	got := SanitizeFilename("weird 名前 (v2)!.pdf")
	for _, r := range got {
		ok := r == '.' || r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			t.Errorf("sanitized name %q contains unsafe rune %q", got, r)
		}
	}
	if !strings.HasSuffix(got, ".pdf") {
		t.Errorf("sanitized name %q lost its extension", got)
	}
}
