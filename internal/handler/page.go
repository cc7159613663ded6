package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/mediscan/mediscan/internal/auth"
	"github.com/mediscan/mediscan/internal/store"
)

type PageHandler struct {
	templates *template.Template
	svc       *auth.Service
	reports   *store.ReportStore
	logger    *slog.Logger
}

func NewPageHandler(templates *template.Template, svc *auth.Service, reports *store.ReportStore, logger *slog.Logger) *PageHandler {
	return &PageHandler{templates: templates, svc: svc, reports: reports, logger: logger}
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, "index.html", map[string]any{"Title": "MediScan"})
}

func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", map[string]any{"Title": "Sign In - MediScan"})
}

func (h *PageHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.html", map[string]any{"Title": "Register - MediScan"})
}

func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, err := requireUser(r, h.svc)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	reports, err := h.reports.ListByUser(user.ID)
	if err != nil {
		h.logger.Error("dashboard reports", "error", err)
		http.Error(w, "failed to load data", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "dashboard.html", map[string]any{
		"Title":   "Dashboard - MediScan",
		"User":    user,
		"Reports": reports,
	})
}

func (h *PageHandler) ReportsPage(w http.ResponseWriter, r *http.Request) {
	user, err := requireUser(r, h.svc)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	reports, err := h.reports.ListByUser(user.ID)
	if err != nil {
		h.logger.Error("reports page", "error", err)
		http.Error(w, "failed to load data", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "reports.html", map[string]any{
		"Title":   "Reports - MediScan",
		"User":    user,
		"Reports": reports,
	})
}

func (h *PageHandler) ReportDetailPage(w http.ResponseWriter, r *http.Request) {
	user, err := requireUser(r, h.svc)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	report, err := h.reports.GetByIDForUser(id, user.ID)
	if err != nil {
		h.logger.Error("report detail", "error", err)
		http.Error(w, "failed to load report", http.StatusInternalServerError)
		return
	}
	if report == nil {
		http.NotFound(w, r)
		return
	}

	h.render(w, r, "report_detail.html", map[string]any{
		"Title":  "Report - MediScan",
		"User":   user,
		"Report": report,
	})
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("render template", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
