// Package submit flattens the stored wizard state into the single payload
// field the hosting form carries on its final POST. This is the one point
// where the wizard hands control back to the standard form submission.
package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/luan640/nr01facil/internal/errors"
	"github.com/luan640/nr01facil/internal/storage"
	"github.com/luan640/nr01facil/internal/telemetry"
	"github.com/luan640/nr01facil/internal/wizard/domain"
)

// PayloadField is the hidden form field consumed by the platform.
const PayloadField = "local_payload"

// Payload is the serialized wizard state ready to attach to the outgoing
// form.
type Payload struct {
	Field string
	JSON  []byte
}

// AttachTo writes the payload into the form values next to the host's
// visible fields.
func (p Payload) AttachTo(values url.Values) {
	values.Set(p.Field, string(p.JSON))
}

// Serializer finalizes a campaign response.
type Serializer struct {
	store   storage.ResponseStore
	policy  *bluemonday.Policy
	emitter *telemetry.Emitter
}

// NewSerializer creates a serializer over the response store.
func NewSerializer(store storage.ResponseStore, emitter *telemetry.Emitter) *Serializer {
	return &Serializer{
		store:   store,
		policy:  bluemonday.StrictPolicy(),
		emitter: emitter,
	}
}

// Finalize loads the wizard state, writes the trimmed comment into it,
// persists it and returns the serialized payload. It only acts on the final
// step; earlier submit events are rejected so a stray submit can never send
// a half-finished response.
func (s *Serializer) Finalize(ctx context.Context, currentStep int, key, comment string) (Payload, error) {
	if currentStep != domain.FinalStep {
		return Payload{}, errors.New(errors.CodeNotFinalStep)
	}

	state, err := s.store.Load(ctx, key)
	if err != nil {
		return Payload{}, fmt.Errorf("load wizard state: %w", err)
	}

	if err := state.SetComment(s.sanitize(comment)); err != nil {
		return Payload{}, errors.New(errors.CodeCommentTooLong).Wrap(err)
	}

	if err := s.store.Save(ctx, key, state); err != nil {
		return Payload{}, fmt.Errorf("save wizard state: %w", err)
	}

	encoded, err := json.Marshal(state)
	if err != nil {
		return Payload{}, fmt.Errorf("marshal wizard state: %w", err)
	}

	_ = s.emitter.Emit(ctx, telemetry.EventResponseSubmitted, telemetry.SeverityInfo, map[string]string{
		"key":   key,
		"steps": fmt.Sprintf("%d", len(state.Responses)),
	})

	return Payload{Field: PayloadField, JSON: encoded}, nil
}

// sanitize strips any markup from the free-text comment while keeping the
// plain text, including characters an HTML sanitizer would entity-escape.
func (s *Serializer) sanitize(comment string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(comment)))
}
