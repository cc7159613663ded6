package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mediscan/mediscan/internal/model"
)

func TestReportCreateAndList(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.registerUser(t, "r@x.com")
	h := NewReportHandler(env.reports, env.svc, env.logger)

	req := jsonRequest(http.MethodPost, "/api/reports",
		`{"image_type":"X-Ray","body_part":"Chest","original_image_url":"/media/uploads/1/a.jpg"}`)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created struct {
		ReportID int64 `json:"report_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil || created.ReportID == 0 {
		t.Fatalf("create response: %s", rec.Body.String())
	}

	listReq := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	listReq.AddCookie(cookie)
	listRec := httptest.NewRecorder()
	h.List(listRec, listReq)
	if listRec.Code != http.StatusOK {
		t.Fatalf("list status = %d", listRec.Code)
	}
	var listed struct {
		Reports []model.Report `json:"reports"`
	}
	if err := json.Unmarshal(listRec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("list response: %v", err)
	}
	if len(listed.Reports) != 1 || listed.Reports[0].ID != created.ReportID {
		t.Errorf("listed = %+v", listed.Reports)
	}
	if listed.Reports[0].Status != model.StatusUploaded {
		t.Errorf("status = %q, want %q", listed.Reports[0].Status, model.StatusUploaded)
	}
}

func TestReportCreateMissingFields(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.registerUser(t, "r@x.com")
	h := NewReportHandler(env.reports, env.svc, env.logger)

	req := jsonRequest(http.MethodPost, "/api/reports", `{"image_type":"X-Ray"}`)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestReportGetOwnership(t *testing.T) {
	env := newTestEnv(t)
	ownerCookie, ownerID := env.registerUser(t, "owner@x.com")
	otherCookie, _ := env.registerUser(t, "other@x.com")
	h := NewReportHandler(env.reports, env.svc, env.logger)

	if _, err := env.reports.Create(ownerID, "/media/a.jpg", "MRI", "Brain"); err != nil {
		t.Fatalf("create report: %v", err)
	}

	get := func(cookie *http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/reports/1", nil)
		req.SetPathValue("id", "1")
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		h.Get(rec, req)
		return rec
	}

	if rec := get(ownerCookie); rec.Code != http.StatusOK {
		t.Errorf("owner status = %d, want 200", rec.Code)
	}
	if rec := get(otherCookie); rec.Code != http.StatusNotFound {
		t.Errorf("non-owner status = %d, want 404", rec.Code)
	}
}

func TestImageStatus(t *testing.T) {
	env := newTestEnv(t)
	cookie, userID := env.registerUser(t, "s@x.com")
	h := NewReportHandler(env.reports, env.svc, env.logger)

	report, err := env.reports.Create(userID, "/media/a.jpg", "CT", "Abdomen")
	if err != nil {
		t.Fatalf("create report: %v", err)
	}
	if err := env.reports.UpdateStatus(report.ID, model.StatusEnhancing); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := env.reports.UpdateProgress(report.ID, 50); err != nil {
		t.Fatalf("update progress: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/image-status/1", nil)
	req.SetPathValue("id", "1")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ImageStatus(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Status   string `json:"status"`
		Progress int    `json:"enhancement_progress"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != model.StatusEnhancing || body.Progress != 50 {
		t.Errorf("body = %+v", body)
	}

	missing := httptest.NewRequest(http.MethodGet, "/api/image-status/999", nil)
	missing.SetPathValue("id", "999")
	missing.AddCookie(cookie)
	missingRec := httptest.NewRecorder()
	h.ImageStatus(missingRec, missing)
	if missingRec.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", missingRec.Code)
	}
}
