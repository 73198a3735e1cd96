package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter EventType = "step_enter"
	EventStepLeave EventType = "step_leave"
	EventReject    EventType = "reject"
	EventFinalize  EventType = "finalize"
)

// StepEvent describes a single observable moment of a turn.
type StepEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Step      StepID    `json:"step"`
	// Reason is set on rejections.
	Reason string `json:"reason,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStepEnter func(context.Context, *StepEvent)
	OnStepLeave func(context.Context, *StepEvent)
	OnReject    func(context.Context, *StepEvent)
	OnFinalize  func(context.Context, *StepEvent)
}
