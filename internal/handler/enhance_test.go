package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mediscan/mediscan/internal/enhance"
	"github.com/mediscan/mediscan/internal/model"
	"github.com/mediscan/mediscan/internal/websocket"
)

func TestEnhanceRunsToCompletion(t *testing.T) {
	env := newTestEnv(t)
	cookie, userID := env.registerUser(t, "e@x.com")

	hub := websocket.NewHub(env.logger)
	pipeline := enhance.NewPipeline(env.reports, hub, nil, env.logger)
	pipeline.SetStepDelay(time.Millisecond)
	h := NewEnhanceHandler(pipeline, env.reports, env.svc, env.logger)

	report, err := env.reports.Create(userID, "/media/a.jpg", "X-Ray", "Chest")
	if err != nil {
		t.Fatalf("create report: %v", err)
	}

	req := jsonRequest(http.MethodPost, "/api/enhance-image", `{"report_id":1}`)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.Enhance(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success          bool   `json:"success"`
		Status           string `json:"status"`
		EnhancedImageURL string `json:"enhanced_image_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Status != model.StatusCompleted || body.EnhancedImageURL == "" {
		t.Errorf("body = %+v", body)
	}

	stored, err := env.reports.GetByID(report.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != model.StatusCompleted {
		t.Errorf("stored status = %q", stored.Status)
	}
}

func TestEnhanceUnknownReport(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.registerUser(t, "e@x.com")

	hub := websocket.NewHub(env.logger)
	pipeline := enhance.NewPipeline(env.reports, hub, nil, env.logger)
	pipeline.SetStepDelay(time.Millisecond)
	h := NewEnhanceHandler(pipeline, env.reports, env.svc, env.logger)

	req := jsonRequest(http.MethodPost, "/api/enhance-image", `{"report_id":42}`)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.Enhance(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
