package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mediscan/mediscan/internal/auth"
	"github.com/mediscan/mediscan/internal/store"
)

type ReportHandler struct {
	reports *store.ReportStore
	svc     *auth.Service
	logger  *slog.Logger
}

func NewReportHandler(reports *store.ReportStore, svc *auth.Service, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, svc: svc, logger: logger}
}

type createReportRequest struct {
	ImageType        string `json:"image_type"`
	BodyPart         string `json:"body_part"`
	OriginalImageURL string `json:"original_image_url"`
}

// Create handles POST /api/reports
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := requireUser(r, h.svc)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.ImageType == "" || req.BodyPart == "" || req.OriginalImageURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image_type, body_part, and original_image_url are required"})
		return
	}

	report, err := h.reports.Create(user.ID, req.OriginalImageURL, req.ImageType, req.BodyPart)
	if err != nil {
		h.logger.Error("create report", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create report"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"report_id": report.ID, "report": report})
}

// List handles GET /api/reports
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := requireUser(r, h.svc)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	reports, err := h.reports.ListByUser(user.ID)
	if err != nil {
		h.logger.Error("list reports", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list reports"})
		return
	}
	if reports == nil {
		writeJSON(w, http.StatusOK, map[string]any{"reports": []any{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

// Get handles GET /api/reports/{id}
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := requireUser(r, h.svc)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	report, err := h.reports.GetByIDForUser(id, user.ID)
	if err != nil {
		h.logger.Error("get report", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load report"})
		return
	}
	if report == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Report not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"report": report})
}

// ImageStatus handles GET /api/image-status/{id}, the polling endpoint the
// dashboard uses while a report is being enhanced.
func (h *ReportHandler) ImageStatus(w http.ResponseWriter, r *http.Request) {
	user, err := requireUser(r, h.svc)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	report, err := h.reports.GetByIDForUser(id, user.ID)
	if err != nil {
		h.logger.Error("image status", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Status check failed"})
		return
	}
	if report == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Image not found"})
		return
	}

	var analysis any
	if report.AnalysisResults != "" {
		analysis = json.RawMessage(report.AnalysisResults)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":               report.Status,
		"enhancement_progress": report.EnhancementProgress,
		"enhanced_image_url":   report.EnhancedImageURL,
		"analysis_results":     analysis,
		"confidence_score":     report.ConfidenceScore,
	})
}
