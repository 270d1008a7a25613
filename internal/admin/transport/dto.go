package transport

import (
	"time"

	"maturity_backend/internal/catalog"

	"github.com/google/uuid"
)

// LeadSummary is one row of the admin listing.
type LeadSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Company       string    `json:"company"`
	JobTitle      string    `json:"jobTitle"`
	Phone         string    `json:"phone"`
	CreatedAt     time.Time `json:"createdAt"`
	OverallScore  *float64  `json:"overallScore"`
	MaturityLevel *int      `json:"maturityLevel"`
	Badge         string    `json:"badge"`
}

// LeadListResponse wraps the filtered listing.
type LeadListResponse struct {
	Items []LeadSummary `json:"items"`
	Total int           `json:"total"`
}

// ResponseItem is one stored answer.
type ResponseItem struct {
	QuestionID   string `json:"questionId"`
	QuestionText string `json:"questionText"`
	AnswerValue  int    `json:"answerValue"`
	Category     string `json:"category"`
}

// ResultItem is the stored scored tuple.
type ResultItem struct {
	OverallScore   float64            `json:"overallScore"`
	MaturityLevel  int                `json:"maturityLevel"`
	CategoryScores map[string]float64 `json:"categoryScores"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// LeadDetail is everything the admin per-lead report shows.
type LeadDetail struct {
	Lead        LeadSummary           `json:"lead"`
	Result      *ResultItem           `json:"result"`
	Responses   []ResponseItem        `json:"responses"`
	Profile     *catalog.LevelProfile `json:"profile"`
	FollowUps   []string              `json:"followUps"`
	WhatsAppURL string                `json:"whatsAppUrl"`
	MailtoURL   string                `json:"mailtoUrl"`
	ShareURL    string                `json:"shareUrl"`

	ArchivedReportURL string `json:"archivedReportUrl,omitempty"`
}

// PurgeChallenge is the first step of delete-all.
type PurgeChallenge struct {
	Token     string    `json:"token"`
	Count     int64     `json:"count"`
	ExpiresAt time.Time `json:"expiresAt"`
	Prompt    string    `json:"prompt"`
}

// PurgeRequest confirms delete-all.
type PurgeRequest struct {
	Token        string `json:"token" validate:"required"`
	Confirmation string `json:"confirmation" validate:"required"`
}

// PurgeResult reports how many leads were deleted.
type PurgeResult struct {
	Deleted int64 `json:"deleted"`
}
