package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/luan640/nr01facil/internal/wizard/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ResponseKey formats the storage key for a campaign's in-progress response.
func ResponseKey(campaignID string) string {
	return fmt.Sprintf("campaign:%s:responses", campaignID)
}

// ResponseStore persists in-progress wizard state records.
//
// Load never surfaces corruption: a missing or unreadable record yields the
// empty state shape, so losing in-progress answers can never block the flow.
// Genuine I/O failures (closed database) still return errors.
type ResponseStore interface {
	Load(ctx context.Context, key string) (domain.WizardState, error)
	Save(ctx context.Context, key string, state domain.WizardState) error
	Clear(ctx context.Context, key string) error
}

// TelemetryEvent is one operational event record.
type TelemetryEvent struct {
	Name      string            `json:"name"`
	Severity  string            `json:"severity"`
	Timestamp time.Time         `json:"timestamp"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

// TelemetryStore persists telemetry events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
}
