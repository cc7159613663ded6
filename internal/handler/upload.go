package handler

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/mediscan/mediscan/internal/auth"
	"github.com/mediscan/mediscan/internal/storage"

	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20 // 10MB

type UploadHandler struct {
	images storage.ImageStore
	svc    *auth.Service
	logger *slog.Logger
}

func NewUploadHandler(images storage.ImageStore, svc *auth.Service, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{images: images, svc: svc, logger: logger}
}

// Upload handles POST /api/upload, a multipart form with an "image" field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, err := requireUser(r, h.svc)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image too large or malformed upload"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image field is required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ext := filepath.Ext(header.Filename)
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	ext = strings.ToLower(ext)

	key := fmt.Sprintf("uploads/%d/%s%s", user.ID, uuid.NewString(), ext)
	url, err := h.images.Save(r.Context(), key, contentType, file)
	if err != nil {
		h.logger.Error("store upload", "key", key, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Upload failed"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
