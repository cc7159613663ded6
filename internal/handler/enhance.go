package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mediscan/mediscan/internal/auth"
	"github.com/mediscan/mediscan/internal/enhance"
	"github.com/mediscan/mediscan/internal/store"
)

type EnhanceHandler struct {
	pipeline *enhance.Pipeline
	reports  *store.ReportStore
	svc      *auth.Service
	logger   *slog.Logger
}

func NewEnhanceHandler(pipeline *enhance.Pipeline, reports *store.ReportStore, svc *auth.Service, logger *slog.Logger) *EnhanceHandler {
	return &EnhanceHandler{pipeline: pipeline, reports: reports, svc: svc, logger: logger}
}

type enhanceRequest struct {
	ReportID int64 `json:"report_id"`
}

// Enhance handles POST /api/enhance-image. The pipeline runs in-request; the
// client watches progress over the websocket or the status polling endpoint.
func (h *EnhanceHandler) Enhance(w http.ResponseWriter, r *http.Request) {
	user, err := requireUser(r, h.svc)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var req enhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	report, err := h.reports.GetByIDForUser(req.ReportID, user.ID)
	if err != nil {
		h.logger.Error("enhance lookup", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Enhancement failed"})
		return
	}
	if report == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Report not found"})
		return
	}

	final, err := h.pipeline.Run(r.Context(), report)
	if err != nil {
		h.logger.Error("enhancement pipeline", "report_id", report.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Enhancement failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":            true,
		"report_id":          final.ID,
		"status":             final.Status,
		"analysis_results":   json.RawMessage(final.AnalysisResults),
		"enhanced_image_url": final.EnhancedImageURL,
	})
}
