package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/notestack/notestack/internal/service"
	"github.com/notestack/notestack/internal/storage"
)

type UploadHandler struct {
	ingestService *service.IngestService
	maxBytes      int64
}

func NewUploadHandler(ingestService *service.IngestService, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		ingestService: ingestService,
		maxBytes:      maxBytes,
	}
}

// Upload accepts an anonymous multipart batch into the moderation queue.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	h.ingestBatch(w, r, storage.ZonePending)
}

func (h *UploadHandler) ingestBatch(w http.ResponseWriter, r *http.Request, zone storage.Zone) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	err := r.ParseMultipartForm(32 << 20)
	if requestTooLarge(err) {
		respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		respondError(w, http.StatusBadRequest, "no files in request")
		return
	}

	subject := r.FormValue("subject")
	grade := r.FormValue("grade")
	submitter := strings.TrimSpace(r.FormValue("uploader"))

	files, closeFiles, err := openUploads(headers)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unreadable file in request")
		return
	}
	defer closeFiles()

	report, err := h.ingestService.Ingest(r.Context(), subject, grade, submitter, files, zone)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// openUploads opens every part up front so the service sees plain readers.
// The returned closer releases them all.
func openUploads(headers []*multipart.FileHeader) ([]service.UploadFile, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to open %q: %w", header.Filename, err)
		}
		opened = append(opened, f)
		files = append(files, service.UploadFile{
			Name:   header.Filename,
			Reader: f,
		})
	}

	return files, closeAll, nil
}

// requestTooLarge reports whether err came from MaxBytesReader.
func requestTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
