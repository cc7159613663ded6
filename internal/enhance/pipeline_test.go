package enhance

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mediscan/mediscan/internal/database"
	"github.com/mediscan/mediscan/internal/model"
	"github.com/mediscan/mediscan/internal/store"
	"github.com/mediscan/mediscan/internal/websocket"
)

func setupPipelineTest(t *testing.T) (*Pipeline, *store.ReportStore, *model.Report) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := store.NewUserStore(db)
	reports := store.NewReportStore(db)
	hub := websocket.NewHub(logger)

	u, err := users.Create("pipeline@example.com", "hash", "Pat", "Lee", "")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	r, err := reports.Create(u.ID, "/media/uploads/scan.jpg", "X-Ray", "Chest")
	if err != nil {
		t.Fatalf("create report: %v", err)
	}

	p := NewPipeline(reports, hub, nil, logger)
	p.SetStepDelay(time.Millisecond)
	return p, reports, r
}

func TestPipelineRunCompletesReport(t *testing.T) {
	p, reports, r := setupPipelineTest(t)

	final, err := p.Run(context.Background(), r)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if final.Status != model.StatusCompleted {
		t.Errorf("status = %q, want %q", final.Status, model.StatusCompleted)
	}
	if final.EnhancementProgress != 100 {
		t.Errorf("progress = %d, want 100", final.EnhancementProgress)
	}
	if !strings.HasPrefix(final.EnhancedImageURL, "/enhanced/") || !strings.HasSuffix(final.EnhancedImageURL, ".jpg") {
		t.Errorf("enhanced url = %q", final.EnhancedImageURL)
	}
	if final.ConfidenceScore < 80 || final.ConfidenceScore > 99 {
		t.Errorf("confidence = %d, want 80-99", final.ConfidenceScore)
	}

	var res result
	if err := json.Unmarshal([]byte(final.AnalysisResults), &res); err != nil {
		t.Fatalf("analysis results not valid JSON: %v", err)
	}
	if len(res.Findings) == 0 || len(res.Recommendations) == 0 {
		t.Error("expected findings and recommendations")
	}
	if res.RiskLevel != "low" {
		t.Errorf("risk level = %q, want low", res.RiskLevel)
	}
	if !strings.Contains(res.Findings[0], "X-Ray") {
		t.Errorf("findings should mention image type: %q", res.Findings[0])
	}

	stored, err := reports.GetByID(r.ID)
	if err != nil {
		t.Fatalf("reload report: %v", err)
	}
	if stored.Status != model.StatusCompleted {
		t.Errorf("stored status = %q, want %q", stored.Status, model.StatusCompleted)
	}
}

func TestPipelineRunStopsOnCancel(t *testing.T) {
	p, reports, r := setupPipelineTest(t)
	p.SetStepDelay(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Run(ctx, r); err == nil {
		t.Fatal("Run() expected error on cancelled context")
	}

	stored, err := reports.GetByID(r.ID)
	if err != nil {
		t.Fatalf("reload report: %v", err)
	}
	if stored.Status != model.StatusEnhancing {
		t.Errorf("status = %q, want %q (cancellation leaves interim status)", stored.Status, model.StatusEnhancing)
	}
}

func TestSteps(t *testing.T) {
	got := Steps()
	if len(got) != 6 {
		t.Fatalf("len(Steps()) = %d, want 6", len(got))
	}
	got[0] = "mutated"
	if Steps()[0] == "mutated" {
		t.Error("Steps() should return a copy")
	}
}
