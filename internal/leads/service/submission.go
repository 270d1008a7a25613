package service

import (
	"fmt"

	"maturity_backend/platform/apperr"
)

// SubmissionState is a step of the lead submission flow.
type SubmissionState string

const (
	StateIdle             SubmissionState = "idle"
	StateValidating       SubmissionState = "validating"
	StateSubmitting       SubmissionState = "submitting"
	StatePersisted        SubmissionState = "persisted"
	StateDocumentUnlocked SubmissionState = "document_unlocked"
	StatePersistFailed    SubmissionState = "persist_failed"
)

// transitions lists the allowed next states. DocumentUnlocked is only
// reachable from Persisted, so the document never unlocks without a stored lead.
var transitions = map[SubmissionState][]SubmissionState{
	StateIdle:             {StateValidating},
	StateValidating:       {StateIdle, StateSubmitting},
	StateSubmitting:       {StatePersisted, StatePersistFailed},
	StatePersisted:        {StateDocumentUnlocked},
	StatePersistFailed:    {StateIdle},
	StateDocumentUnlocked: nil,
}

// Submission tracks one lead submission attempt.
type Submission struct {
	state   SubmissionState
	history []SubmissionState
	Fields  apperr.FieldErrors
}

// NewSubmission starts in Idle.
func NewSubmission() *Submission {
	return &Submission{state: StateIdle, history: []SubmissionState{StateIdle}}
}

// State returns the current state.
func (s *Submission) State() SubmissionState { return s.state }

// History returns every state visited, in order.
func (s *Submission) History() []SubmissionState {
	return append([]SubmissionState(nil), s.history...)
}

// To moves to next or fails without changing state.
func (s *Submission) To(next SubmissionState) error {
	for _, allowed := range transitions[s.state] {
		if allowed == next {
			s.state = next
			s.history = append(s.history, next)
			return nil
		}
	}
	return fmt.Errorf("submission: invalid transition %s -> %s", s.state, next)
}

// DocumentUnlocked reports whether the document view may be served.
func (s *Submission) DocumentUnlocked() bool {
	return s.state == StateDocumentUnlocked
}
