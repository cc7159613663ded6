package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mediscan/mediscan/internal/auth"
	"github.com/mediscan/mediscan/internal/email"
	"github.com/mediscan/mediscan/internal/store"
)

type EmailHandler struct {
	client   *email.Client
	reports  *store.ReportStore
	emailLog *store.EmailLogStore
	svc      *auth.Service
	baseURL  string
	logger   *slog.Logger
}

func NewEmailHandler(client *email.Client, reports *store.ReportStore, emailLog *store.EmailLogStore, svc *auth.Service, baseURL string, logger *slog.Logger) *EmailHandler {
	return &EmailHandler{client: client, reports: reports, emailLog: emailLog, svc: svc, baseURL: baseURL, logger: logger}
}

type sendReportRequest struct {
	ReportID int64  `json:"report_id"`
	Email    string `json:"email"`
}

// storedAnalysis covers both shapes the analysis_results column holds: the
// enhancement pipeline writes plain-string findings with riskLevel, the LLM
// analysis writes structured findings with urgency.
type storedAnalysis struct {
	Findings        []json.RawMessage `json:"findings"`
	Recommendations []string          `json:"recommendations"`
	RiskLevel       string            `json:"riskLevel"`
	Urgency         string            `json:"urgency"`
}

func parseStoredAnalysis(raw string) (findings []string, recommendations []string, riskLevel string) {
	var sa storedAnalysis
	if err := json.Unmarshal([]byte(raw), &sa); err != nil {
		return nil, nil, ""
	}
	for _, f := range sa.Findings {
		var s string
		if err := json.Unmarshal(f, &s); err == nil {
			findings = append(findings, s)
			continue
		}
		var structured struct {
			Description string `json:"description"`
		}
		if err := json.Unmarshal(f, &structured); err == nil && structured.Description != "" {
			findings = append(findings, structured.Description)
		}
	}
	riskLevel = sa.RiskLevel
	if riskLevel == "" {
		riskLevel = sa.Urgency
	}
	return findings, sa.Recommendations, riskLevel
}

// SendReport handles POST /api/send-report-email. Delivery is a simulated
// success when no email provider is configured.
func (h *EmailHandler) SendReport(w http.ResponseWriter, r *http.Request) {
	user, err := requireUser(r, h.svc)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var req sendReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.ReportID == 0 || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
		return
	}

	report, err := h.reports.GetByIDForUser(req.ReportID, user.ID)
	if err != nil {
		h.logger.Error("email report lookup", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	if report == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Report not found"})
		return
	}

	findings, recommendations, riskLevel := parseStoredAnalysis(report.AnalysisResults)
	if riskLevel == "" {
		riskLevel = "unknown"
	}
	tmpl := email.BuildReportTemplate(email.ReportData{
		ID:              report.ID,
		PatientName:     user.FirstName + " " + user.LastName,
		ImageType:       report.ImageType,
		BodyPart:        report.BodyPart,
		ConfidenceScore: report.ConfidenceScore,
		RiskLevel:       riskLevel,
		Findings:        findings,
		Recommendations: recommendations,
		CreatedAt:       report.CreatedAt,
	}, user.PreferredLanguage, h.baseURL)

	status := "sent"
	if h.client.Configured() {
		if err := h.client.Send(req.Email, tmpl); err != nil {
			h.logger.Error("send report email", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to send email"})
			return
		}
	} else {
		// No provider configured: log and report success, as a simulation.
		h.logger.Info("email delivery simulated", "report_id", report.ID, "recipient", req.Email)
		status = "simulated"
	}

	if _, err := h.emailLog.Create(user.ID, report.ID, req.Email, status); err != nil {
		h.logger.Error("record email log", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Report sent successfully"})
}
