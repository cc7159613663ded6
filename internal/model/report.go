package model

import "time"

// Report status values. A report advances uploaded -> enhancing -> enhanced ->
// analyzing -> completed; any stage may leave it failed.
const (
	StatusUploaded  = "uploaded"
	StatusEnhancing = "enhancing"
	StatusEnhanced  = "enhanced"
	StatusAnalyzing = "analyzing"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type Report struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"user_id"`
	OriginalImageURL    string    `json:"original_image_url"`
	EnhancedImageURL    string    `json:"enhanced_image_url"`
	ImageType           string    `json:"image_type"`
	BodyPart            string    `json:"body_part"`
	Status              string    `json:"status"`
	EnhancementProgress int       `json:"enhancement_progress"`
	AnalysisResults     string    `json:"analysis_results"`
	ConfidenceScore     int       `json:"confidence_score"`
	CreatedAt           time.Time `json:"created_at"`
}

type EmailLog struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	ReportID       int64     `json:"report_id"`
	RecipientEmail string    `json:"recipient_email"`
	Status         string    `json:"status"`
	SentAt         time.Time `json:"sent_at"`
}
