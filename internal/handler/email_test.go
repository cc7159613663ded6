package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mediscan/mediscan/internal/email"
	"github.com/mediscan/mediscan/internal/store"
)

func TestSendReportSimulatedWhenUnconfigured(t *testing.T) {
	env := newTestEnv(t)
	cookie, userID := env.registerUser(t, "mail@x.com")
	logs := store.NewEmailLogStore(env.db)
	h := NewEmailHandler(email.NewClient("", ""), env.reports, logs, env.svc, "http://localhost:8080", env.logger)

	report, err := env.reports.Create(userID, "/media/a.jpg", "X-Ray", "Chest")
	if err != nil {
		t.Fatalf("create report: %v", err)
	}
	if err := env.reports.SetAnalysis(report.ID,
		`{"findings":["clear"],"recommendations":["rest"],"riskLevel":"low","confidence":90}`, 90); err != nil {
		t.Fatalf("set analysis: %v", err)
	}

	req := jsonRequest(http.MethodPost, "/api/send-report-email",
		`{"report_id":1,"email":"dest@example.com"}`)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.SendReport(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	entries, err := logs.ListByReport(report.ID)
	if err != nil {
		t.Fatalf("list email logs: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("email log entries = %d, want 1", len(entries))
	}
	if entries[0].RecipientEmail != "dest@example.com" {
		t.Errorf("recipient = %q", entries[0].RecipientEmail)
	}
	if entries[0].Status != "simulated" {
		t.Errorf("status = %q, want simulated", entries[0].Status)
	}
}

func TestSendReportNotOwned(t *testing.T) {
	env := newTestEnv(t)
	_, ownerID := env.registerUser(t, "owner@x.com")
	otherCookie, _ := env.registerUser(t, "other@x.com")
	logs := store.NewEmailLogStore(env.db)
	h := NewEmailHandler(email.NewClient("", ""), env.reports, logs, env.svc, "http://localhost:8080", env.logger)

	if _, err := env.reports.Create(ownerID, "/media/a.jpg", "MRI", "Knee"); err != nil {
		t.Fatalf("create report: %v", err)
	}

	req := jsonRequest(http.MethodPost, "/api/send-report-email",
		`{"report_id":1,"email":"dest@example.com"}`)
	req.AddCookie(otherCookie)
	rec := httptest.NewRecorder()
	h.SendReport(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSendReportMissingFields(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.registerUser(t, "mail@x.com")
	logs := store.NewEmailLogStore(env.db)
	h := NewEmailHandler(email.NewClient("", ""), env.reports, logs, env.svc, "http://localhost:8080", env.logger)

	req := jsonRequest(http.MethodPost, "/api/send-report-email", `{"report_id":1}`)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.SendReport(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
