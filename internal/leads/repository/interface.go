package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("lead not found")

// Lead is a captured contact.
type Lead struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Company   string
	JobTitle  string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateLeadParams contains the sanitized contact fields to store.
type CreateLeadParams struct {
	Name     string
	Email    string
	Company  string
	JobTitle string
	Phone    string
}

// Response is one stored answer with the question text and category name
// copied in, so the row stays readable if the catalog changes.
type Response struct {
	ID           uuid.UUID
	LeadID       uuid.UUID
	QuestionID   string
	QuestionText string
	AnswerValue  int
	Category     string
	CreatedAt    time.Time
}

// MaturityResult is the scored tuple stored for a lead.
type MaturityResult struct {
	ID             uuid.UUID
	LeadID         uuid.UUID
	OverallScore   float64
	MaturityLevel  int
	CategoryScores map[string]float64
	CreatedAt      time.Time
}

// LeadWriter stores the three record kinds of a submission.
type LeadWriter interface {
	CreateLead(ctx context.Context, params CreateLeadParams) (Lead, error)
	InsertResponses(ctx context.Context, leadID uuid.UUID, rows []Response) error
	InsertResult(ctx context.Context, result MaturityResult) error
}

// LeadReader loads what the report renderers need.
type LeadReader interface {
	GetLead(ctx context.Context, id uuid.UUID) (Lead, error)
	GetResult(ctx context.Context, leadID uuid.UUID) (MaturityResult, error)
	ListResponses(ctx context.Context, leadID uuid.UUID) ([]Response, error)
}

// Repository is the full persistence surface of the leads module.
type Repository interface {
	LeadWriter
	LeadReader
}
