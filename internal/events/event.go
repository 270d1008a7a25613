// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"maturity_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCaptured is published once the lead row is stored and the document
// view is unlocked for it.
type LeadCaptured struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Company       string    `json:"company"`
	MaturityLevel int       `json:"maturityLevel"`
	OverallScore  float64   `json:"overallScore"`
}

func (e LeadCaptured) EventName() string { return "leads.lead.captured" }

// =============================================================================
// Admin Domain Events
// =============================================================================

// LeadsPurged is published after a confirmed delete-all.
type LeadsPurged struct {
	BaseEvent
	Deleted int64 `json:"deleted"`
}

func (e LeadsPurged) EventName() string { return "admin.leads.purged" }
