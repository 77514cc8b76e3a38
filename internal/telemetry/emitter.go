// Package telemetry records operational events emitted by the wizard engine
// (step transitions, validation failures, availability checks) into a
// storage.TelemetryStore.
package telemetry

import (
	"context"
	"strconv"
	"time"

	"github.com/luan640/nr01facil/internal/storage"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Event names emitted by the wizard engine.
const (
	EventStepAdvanced      = "step_advanced"
	EventStepRetreated     = "step_retreated"
	EventValidationFailed  = "validation_failed"
	EventCPFCheckCompleted = "cpf_check_completed"
	EventOptionsResolved   = "options_resolved"
	EventResponseSubmitted = "response_submitted"
)

// Emitter records operational telemetry events.
type Emitter struct {
	store storage.TelemetryStore
	clock func() time.Time
}

// NewEmitter creates a new telemetry emitter.
func NewEmitter(store storage.TelemetryStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records a telemetry event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, name string, severity Severity, attrs map[string]string) error {
	if e == nil || e.store == nil {
		return nil
	}
	clock := e.clock
	if clock == nil {
		clock = time.Now
	}
	return e.store.AppendTelemetryEvent(ctx, storage.TelemetryEvent{
		Name:      name,
		Severity:  string(severity),
		Timestamp: clock().UTC(),
		Attrs:     attrs,
	})
}

// StepAttrs builds the attribute set for step transition events.
func StepAttrs(campaignID string, from, to int) map[string]string {
	return map[string]string{
		"campaign_id": campaignID,
		"from_step":   strconv.Itoa(from),
		"to_step":     strconv.Itoa(to),
	}
}
