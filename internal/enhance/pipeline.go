package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mediscan/mediscan/internal/model"
	"github.com/mediscan/mediscan/internal/push"
	"github.com/mediscan/mediscan/internal/store"
	"github.com/mediscan/mediscan/internal/websocket"

	"github.com/google/uuid"
)

// Enhancement stages shown to the client while the simulated pipeline runs.
var steps = []string{
	"Analyzing image quality...",
	"Applying noise reduction...",
	"Enhancing contrast and brightness...",
	"Performing medical analysis...",
	"Generating diagnostic insights...",
	"Finalizing report...",
}

// result is the payload the pipeline stores in analysis_results.
type result struct {
	Findings        []string `json:"findings"`
	Recommendations []string `json:"recommendations"`
	RiskLevel       string   `json:"riskLevel"`
	Confidence      int      `json:"confidence"`
}

// Pipeline runs the simulated image enhancement for a report: it advances
// through the fixed stages with a delay between each, publishes progress over
// the hub, then records the enhanced image URL and a generated analysis.
type Pipeline struct {
	reports   *store.ReportStore
	hub       *websocket.Hub
	notifier  *push.Notifier
	logger    *slog.Logger
	stepDelay time.Duration
}

func NewPipeline(reports *store.ReportStore, hub *websocket.Hub, notifier *push.Notifier, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		reports:   reports,
		hub:       hub,
		notifier:  notifier,
		logger:    logger,
		stepDelay: time.Second,
	}
}

// SetStepDelay overrides the per-stage delay. Used by tests.
func (p *Pipeline) SetStepDelay(d time.Duration) {
	p.stepDelay = d
}

// Steps returns the stage descriptions in order.
func Steps() []string {
	out := make([]string, len(steps))
	copy(out, steps)
	return out
}

// Run executes the pipeline for a report and returns the final record.
// Store failures mark the report failed; context cancellation stops the
// stage loop without touching the report's status.
func (p *Pipeline) Run(ctx context.Context, report *model.Report) (*model.Report, error) {
	if err := p.reports.UpdateStatus(report.ID, model.StatusEnhancing); err != nil {
		return nil, fmt.Errorf("start enhancement: %w", err)
	}
	p.hub.Broadcast(websocket.ReportStatus(report.ID, model.StatusEnhancing, 0))

	timer := time.NewTimer(p.stepDelay)
	defer timer.Stop()

	for i := range steps {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
		timer.Reset(p.stepDelay)

		progress := (i + 1) * 100 / len(steps)
		if err := p.reports.UpdateProgress(report.ID, progress); err != nil {
			p.fail(report.ID)
			return nil, fmt.Errorf("update progress: %w", err)
		}
		msg := websocket.ReportStatus(report.ID, model.StatusEnhancing, progress)
		msg.Extra = map[string]any{"step": steps[i]}
		p.hub.Broadcast(msg)
	}

	enhancedURL := fmt.Sprintf("/enhanced/%s.jpg", uuid.NewString())
	if err := p.reports.SetEnhanced(report.ID, enhancedURL); err != nil {
		p.fail(report.ID)
		return nil, fmt.Errorf("record enhanced image: %w", err)
	}

	analysis := buildResult(report.ImageType, report.BodyPart)
	data, err := json.Marshal(analysis)
	if err != nil {
		p.fail(report.ID)
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}
	if err := p.reports.SetAnalysis(report.ID, string(data), analysis.Confidence); err != nil {
		p.fail(report.ID)
		return nil, fmt.Errorf("record analysis: %w", err)
	}

	p.hub.Broadcast(websocket.ReportStatus(report.ID, model.StatusCompleted, 100))

	final, err := p.reports.GetByID(report.ID)
	if err != nil {
		return nil, fmt.Errorf("load completed report: %w", err)
	}
	if p.notifier != nil {
		p.notifier.ReportCompleted(final)
	}
	return final, nil
}

func (p *Pipeline) fail(reportID int64) {
	if err := p.reports.MarkFailed(reportID); err != nil {
		p.logger.Error("mark report failed", "report_id", reportID, "error", err)
	}
	p.hub.Broadcast(websocket.ReportStatus(reportID, model.StatusFailed, 0))
}

func buildResult(imageType, bodyPart string) result {
	return result{
		Findings: []string{
			fmt.Sprintf("%s image shows normal anatomical structures", imageType),
			fmt.Sprintf("No obvious abnormalities detected in %s region", bodyPart),
			"Image quality is sufficient for diagnostic evaluation",
			"Recommend clinical correlation with patient symptoms",
		},
		Recommendations: []string{
			"Continue routine monitoring if asymptomatic",
			"Consult with radiologist for detailed interpretation",
			"Consider follow-up imaging if symptoms persist",
			"Maintain regular health check-ups",
		},
		RiskLevel:  "low",
		Confidence: 80 + rand.Intn(20),
	}
}
