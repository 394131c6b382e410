package api

import (
	"net/http"

	"github.com/stewardhq/steward/internal/metrics"
	"github.com/stewardhq/steward/internal/storage"
)

// uploadsHandler accepts editor image uploads and returns their public URLs.
type uploadsHandler struct {
	uploader *storage.Uploader
	metrics  *metrics.Metrics
	audit    *recorder
}

func newUploadsHandler(up *storage.Uploader, m *metrics.Metrics, rec *recorder) *uploadsHandler {
	return &uploadsHandler{uploader: up, metrics: m, audit: rec}
}

// Upload handles POST /api/v1/admin/uploads. The image arrives as the "file"
// part of a multipart form.
func (h *uploadsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		writeError(w, http.StatusServiceUnavailable, "storage_unconfigured", "no storage bucket is configured")
		return
	}

	if err := r.ParseMultipartForm(storage.MaxUploadSize); err != nil {
		h.metrics.IncUpload("rejected")
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.metrics.IncUpload("rejected")
		writeError(w, http.StatusBadRequest, "invalid_body", "a file part named \"file\" is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !storage.AllowedType(contentType) {
		h.metrics.IncUpload("rejected")
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_type", "only png, jpeg, gif, and webp images are accepted")
		return
	}
	if header.Size > storage.MaxUploadSize {
		h.metrics.IncUpload("rejected")
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", "image exceeds the upload size limit")
		return
	}

	url, err := h.uploader.Upload(r.Context(), file, contentType)
	if err != nil {
		h.metrics.IncUpload("rejected")
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to store upload")
		return
	}

	h.metrics.IncUpload("success")
	h.audit.record(r, "create", "upload", url, header.Filename)
	writeJSON(w, http.StatusCreated, map[string]any{"url": url})
}
