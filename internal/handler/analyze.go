package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mediscan/mediscan/internal/analysis"
	"github.com/mediscan/mediscan/internal/auth"
	"github.com/mediscan/mediscan/internal/model"
	"github.com/mediscan/mediscan/internal/store"
	"github.com/mediscan/mediscan/internal/websocket"
)

type AnalyzeHandler struct {
	client  *analysis.Client
	reports *store.ReportStore
	hub     *websocket.Hub
	svc     *auth.Service
	logger  *slog.Logger
}

func NewAnalyzeHandler(client *analysis.Client, reports *store.ReportStore, hub *websocket.Hub, svc *auth.Service, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{client: client, reports: reports, hub: hub, svc: svc, logger: logger}
}

type analyzeRequest struct {
	ReportID int64 `json:"report_id"`
}

// Analyze handles POST /api/analyze-medical. The language model call degrades
// to a canned result, so the handler only fails on store errors.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	user, err := requireUser(r, h.svc)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.ReportID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
		return
	}

	report, err := h.reports.GetByIDForUser(req.ReportID, user.ID)
	if err != nil {
		h.logger.Error("analyze lookup", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Analysis failed"})
		return
	}
	if report == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Report not found"})
		return
	}

	if err := h.reports.UpdateStatus(report.ID, model.StatusAnalyzing); err != nil {
		h.logger.Error("analyze status", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Analysis failed"})
		return
	}
	h.hub.Broadcast(websocket.ReportStatus(report.ID, model.StatusAnalyzing, 0))

	result := h.client.Analyze(r.Context(), report.ImageType, report.BodyPart)
	data, err := json.Marshal(result)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Analysis failed"})
		return
	}

	if err := h.reports.SetAnalysis(report.ID, string(data), result.PrimaryConfidence()); err != nil {
		h.logger.Error("record analysis", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Analysis failed"})
		return
	}
	h.hub.Broadcast(websocket.ReportStatus(report.ID, model.StatusCompleted, 100))

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"report_id": report.ID,
		"analysis":  result,
		"message":   "Medical analysis completed successfully",
	})
}
