package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/notestack/notestack/internal/model"
	"github.com/notestack/notestack/internal/service"
)

type BrowseHandler struct {
	catalogService *service.CatalogService
}

func NewBrowseHandler(catalogService *service.CatalogService) *BrowseHandler {
	return &BrowseHandler{
		catalogService: catalogService,
	}
}

// submissionView is the public shape of an approved record.
type submissionView struct {
	OriginalName string `json:"original_name"`
	Subject      string `json:"subject"`
	Grade        string `json:"grade"`
	StorageKey   string `json:"storage_key"`
	UploadedAt   string `json:"uploaded_at"`
}

func toView(s *model.Submission) submissionView {
	return submissionView{
		OriginalName: s.OriginalName,
		Subject:      s.Subject,
		Grade:        s.Grade,
		StorageKey:   s.StorageKey,
		UploadedAt:   s.CreatedAt.UTC().Format("2006-01-02"),
	}
}

// Subjects lists the classification catalog.
func (h *BrowseHandler) Subjects(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalogService.Subjects())
}

// Browse lists approved submissions, optionally filtered by subject/grade.
func (h *BrowseHandler) Browse(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	grade := r.URL.Query().Get("grade")

	submissions, err := h.catalogService.Browse(subject, grade)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]submissionView, 0, len(submissions))
	for _, s := range submissions {
		views = append(views, toView(s))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"files":            views,
		"subject":          subject,
		"grade":            grade,
		"grades_available": h.catalogService.GradesAvailable(subject),
	})
}

// ViewFile streams an approved blob inline.
func (h *BrowseHandler) ViewFile(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, false)
}

// DownloadFile streams an approved blob as an attachment named by the
// original filename.
func (h *BrowseHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, true)
}

func (h *BrowseHandler) serveFile(w http.ResponseWriter, r *http.Request, attachment bool) {
	key := r.PathValue("key")

	submission, rc, err := h.catalogService.OpenApproved(r.Context(), key)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", contentTypeFor(submission.OriginalName))
	if attachment {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", submission.OriginalName))
	}

	_, err = io.Copy(w, rc)
	if err != nil {
		slog.Error("failed to stream file", "error", err, "key", key)
	}
}
