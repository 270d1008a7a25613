package transport

import (
	"maturity_backend/internal/assessment"
	"maturity_backend/internal/catalog"
)

// AnswerRequest records one answer.
type AnswerRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	Value      int    `json:"value" validate:"required,min=1,max=5"`
}

// SessionResponse is the state of a quiz session as the client renders it.
type SessionResponse struct {
	SessionID string              `json:"sessionId"`
	Question  catalog.QuestionRef `json:"question"`
	Cursor    int                 `json:"cursor"`
	Total     int                 `json:"total"`
	Progress  float64             `json:"progress"`
	Answered  bool                `json:"answered"`
	Answers   map[string]string   `json:"answers"`
	Completed bool                `json:"completed"`
	Result    *assessment.Result  `json:"result,omitempty"`
}

// CatalogResponse exposes the question catalog to clients.
type CatalogResponse struct {
	Categories     []catalog.Category     `json:"categories"`
	Levels         []catalog.LevelProfile `json:"levels"`
	TotalQuestions int                    `json:"totalQuestions"`
}

// EvaluateRequest scores an answer set without a session.
type EvaluateRequest struct {
	Answers map[string]string `json:"answers" validate:"required"`
}
