package transport

import (
	"maturity_backend/internal/assessment"

	"github.com/google/uuid"
)

// SubmitLeadRequest is the lead capture form plus the answers it unlocks.
// Answers come from a completed quiz session or are sent inline.
type SubmitLeadRequest struct {
	Name      string            `json:"name" validate:"required,min=2"`
	Email     string            `json:"email" validate:"required,email"`
	Company   string            `json:"company" validate:"required,min=2"`
	JobTitle  string            `json:"jobTitle" validate:"required,min=2"`
	Phone     string            `json:"phone" validate:"required,phonedigits=10"`
	SessionID string            `json:"sessionId,omitempty"`
	Answers   map[string]string `json:"answers,omitempty"`
}

// SubmitLeadResponse is returned once the lead is stored.
type SubmitLeadResponse struct {
	LeadID    uuid.UUID         `json:"leadId"`
	State     string            `json:"state"`
	History   []string          `json:"history"`
	Result    assessment.Result `json:"result"`
	ReportURL string            `json:"reportUrl"`
	ShareURL  string            `json:"shareUrl"`
}

// LeadReportResponse is the stored result of a lead.
type LeadReportResponse struct {
	LeadID  uuid.UUID         `json:"leadId"`
	Name    string            `json:"name"`
	Company string            `json:"company"`
	Result  assessment.Result `json:"result"`
}
