package repository

import (
	"context"
	"errors"
	"time"

	"maturity_backend/internal/assessment"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("quiz session not found")

// Session is a stored collector snapshot.
type Session struct {
	ID        string           `json:"id"`
	State     assessment.State `json:"state"`
	StartedAt time.Time        `json:"startedAt"`
}

// SessionStore persists quiz sessions for a bounded lifetime. Save refreshes
// the lifetime so an active respondent never expires mid-quiz.
type SessionStore interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}
