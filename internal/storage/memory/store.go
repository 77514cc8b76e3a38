// Package memory provides an in-memory implementation of the wizard storage
// interfaces, used by unit tests and by kiosks running in volatile mode.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/luan640/nr01facil/internal/storage"
	"github.com/luan640/nr01facil/internal/wizard/domain"
)

// Store keeps wizard state records in process memory. Values are stored as
// their JSON encoding so the corrupt-record recovery path behaves exactly
// like the durable store.
type Store struct {
	mu        sync.RWMutex
	responses map[string][]byte
	events    []storage.TelemetryEvent
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{responses: map[string][]byte{}}
}

// Save persists the wizard state for a campaign instance key.
func (s *Store) Save(ctx context.Context, key string, state domain.WizardState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[key] = payload
	return nil
}

// Load fetches the wizard state for a key. Missing or unparsable records
// yield the empty shape, never an error.
func (s *Store) Load(ctx context.Context, key string) (domain.WizardState, error) {
	if err := ctx.Err(); err != nil {
		return domain.WizardState{}, err
	}

	s.mu.RLock()
	payload, ok := s.responses[key]
	s.mu.RUnlock()
	if !ok {
		return domain.EmptyState(), nil
	}

	var state domain.WizardState
	if err := json.Unmarshal(payload, &state); err != nil {
		return domain.EmptyState(), nil
	}
	if state.Responses == nil {
		state.Responses = map[string][]domain.Answer{}
	}
	return state, nil
}

// Clear removes the stored record for a key.
func (s *Store) Clear(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.responses, key)
	return nil
}

// AppendTelemetryEvent records a telemetry event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return nil
}

// TelemetryEvents returns a copy of the recorded events, oldest first.
func (s *Store) TelemetryEvents() []storage.TelemetryEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]storage.TelemetryEvent(nil), s.events...)
}

// Corrupt replaces the stored record for a key with unparsable bytes. Test
// hook for the recovery policy.
func (s *Store) Corrupt(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[key] = []byte("{corrupt")
}
