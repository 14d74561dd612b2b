package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/notestack/notestack/internal/model"
	"github.com/notestack/notestack/internal/service"
	"github.com/notestack/notestack/internal/storage"
)

type AdminHandler struct {
	authService       *service.AuthService
	moderationService *service.ModerationService
	uploadHandler     *UploadHandler
}

func NewAdminHandler(authService *service.AuthService, moderationService *service.ModerationService, uploadHandler *UploadHandler) *AdminHandler {
	return &AdminHandler{
		authService:       authService,
		moderationService: moderationService,
		uploadHandler:     uploadHandler,
	}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	password := r.FormValue("password")

	token, expiry, err := h.authService.Login(password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "wrong password")
			return
		}
		slog.Error("login failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.authService.SetSessionCookie(w, token, expiry)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pendingView is the moderation-queue shape of a record.
type pendingView struct {
	ID           int64  `json:"id"`
	OriginalName string `json:"original_name"`
	Subject      string `json:"subject"`
	Grade        string `json:"grade"`
	Submitter    string `json:"submitter"`
	UploadedAt   string `json:"uploaded_at"`
}

func toPendingView(s *model.Submission) pendingView {
	return pendingView{
		ID:           s.ID,
		OriginalName: s.OriginalName,
		Subject:      s.Subject,
		Grade:        s.Grade,
		Submitter:    s.Submitter,
		UploadedAt:   s.CreatedAt.UTC().Format("2006-01-02"),
	}
}

// Pending lists the moderation queue, newest first.
func (h *AdminHandler) Pending(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.moderationService.Pending()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]pendingView, 0, len(submissions))
	for _, s := range submissions {
		views = append(views, toPendingView(s))
	}

	respondJSON(w, http.StatusOK, map[string]any{"pending": views})
}

// PendingFile streams a pending submission's bytes for review.
func (h *AdminHandler) PendingFile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	submission, rc, err := h.moderationService.OpenPending(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", contentTypeFor(submission.OriginalName))
	_, err = io.Copy(w, rc)
	if err != nil {
		slog.Error("failed to stream pending file", "error", err, "id", id)
	}
}

func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	err = h.moderationService.Approve(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	err = h.moderationService.Reject(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

// Upload publishes an operator batch straight into the approved zone,
// bypassing the moderation queue.
func (h *AdminHandler) Upload(w http.ResponseWriter, r *http.Request) {
	h.uploadHandler.ingestBatch(w, r, storage.ZoneApproved)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
