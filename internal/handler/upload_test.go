package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mediscan/mediscan/internal/storage"
)

func multipartImage(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte(content))
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.registerUser(t, "up@x.com")
	h := NewUploadHandler(storage.NewLocalStore(t.TempDir()), env.svc, env.logger)

	body, contentType := multipartImage(t, "image", "scan.jpg", "jpegdata")
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(resp["url"], "/media/uploads/") || !strings.HasSuffix(resp["url"], ".jpg") {
		t.Errorf("url = %q", resp["url"])
	}
}

func TestUploadMissingField(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.registerUser(t, "up@x.com")
	h := NewUploadHandler(storage.NewLocalStore(t.TempDir()), env.svc, env.logger)

	body, contentType := multipartImage(t, "file", "scan.jpg", "jpegdata")
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUploadRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	h := NewUploadHandler(storage.NewLocalStore(t.TempDir()), env.svc, env.logger)

	body, contentType := multipartImage(t, "image", "scan.jpg", "jpegdata")
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
