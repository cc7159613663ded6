package store

import (
	"database/sql"
	"fmt"

	"github.com/mediscan/mediscan/internal/model"
)

type ReportStore struct {
	db *sql.DB
}

func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

func scanReport(scanner interface{ Scan(...any) error }) (*model.Report, error) {
	var r model.Report
	err := scanner.Scan(&r.ID, &r.UserID, &r.OriginalImageURL, &r.EnhancedImageURL,
		&r.ImageType, &r.BodyPart, &r.Status, &r.EnhancementProgress,
		&r.AnalysisResults, &r.ConfidenceScore, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

const reportCols = `id, user_id, original_image_url, enhanced_image_url, image_type, body_part, status, enhancement_progress, analysis_results, confidence_score, created_at`

// Create inserts a new report in the "uploaded" state.
func (s *ReportStore) Create(userID int64, originalImageURL, imageType, bodyPart string) (*model.Report, error) {
	result, err := s.db.Exec(
		`INSERT INTO medical_reports (user_id, original_image_url, image_type, body_part, status) VALUES (?, ?, ?, ?, ?)`,
		userID, originalImageURL, imageType, bodyPart, model.StatusUploaded,
	)
	if err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ReportStore) GetByID(id int64) (*model.Report, error) {
	row := s.db.QueryRow(`SELECT `+reportCols+` FROM medical_reports WHERE id = ?`, id)
	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return r, nil
}

// GetByIDForUser returns the report only when it belongs to the given user;
// a report owned by someone else is indistinguishable from a missing one.
func (s *ReportStore) GetByIDForUser(id, userID int64) (*model.Report, error) {
	row := s.db.QueryRow(`SELECT `+reportCols+` FROM medical_reports WHERE id = ? AND user_id = ?`, id, userID)
	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report for user: %w", err)
	}
	return r, nil
}

// ListByUser returns the user's reports, newest first.
func (s *ReportStore) ListByUser(userID int64) ([]model.Report, error) {
	rows, err := s.db.Query(
		`SELECT `+reportCols+` FROM medical_reports WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

func (s *ReportStore) UpdateStatus(id int64, status string) error {
	_, err := s.db.Exec(`UPDATE medical_reports SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	return nil
}

func (s *ReportStore) UpdateProgress(id int64, progress int) error {
	_, err := s.db.Exec(`UPDATE medical_reports SET enhancement_progress = ? WHERE id = ?`, progress, id)
	if err != nil {
		return fmt.Errorf("update report progress: %w", err)
	}
	return nil
}

// SetEnhanced records the enhanced image URL and moves the report to the
// enhanced state with full progress.
func (s *ReportStore) SetEnhanced(id int64, enhancedImageURL string) error {
	_, err := s.db.Exec(
		`UPDATE medical_reports SET status = ?, enhanced_image_url = ?, enhancement_progress = 100 WHERE id = ?`,
		model.StatusEnhanced, enhancedImageURL, id,
	)
	if err != nil {
		return fmt.Errorf("set report enhanced: %w", err)
	}
	return nil
}

// SetAnalysis stores the analysis payload and confidence score (0-100) and
// completes the report.
func (s *ReportStore) SetAnalysis(id int64, analysisJSON string, confidence int) error {
	_, err := s.db.Exec(
		`UPDATE medical_reports SET status = ?, analysis_results = ?, confidence_score = ? WHERE id = ?`,
		model.StatusCompleted, analysisJSON, confidence, id,
	)
	if err != nil {
		return fmt.Errorf("set report analysis: %w", err)
	}
	return nil
}

func (s *ReportStore) MarkFailed(id int64) error {
	return s.UpdateStatus(id, model.StatusFailed)
}
