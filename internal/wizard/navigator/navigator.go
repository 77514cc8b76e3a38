// Package navigator is the finite-state controller of the ten-step wizard.
// It owns the transient navigation state and the working copy of the
// persisted WizardState: every successful Advance saves before the
// transition becomes visible, so a reload resumes at the furthest completed
// step with all prior answers intact.
package navigator

import (
	"context"
	"fmt"

	"github.com/luan640/nr01facil/internal/storage"
	"github.com/luan640/nr01facil/internal/telemetry"
	"github.com/luan640/nr01facil/internal/wizard/domain"
	"github.com/luan640/nr01facil/internal/wizard/validate"
)

// StepForm is the raw form data the host reads for the current step. Only
// the field matching the step kind is consulted.
type StepForm struct {
	Identification *validate.Step1Input
	Cards          []validate.Card
	Comment        string
}

// FormReader supplies the current step's form data at Advance time. It is
// the seam between the engine and the host's controls (DOM originally, a
// prompt driver on the kiosk).
type FormReader interface {
	ReadStep(ctx context.Context, step int) (StepForm, error)
}

// Config wires a Navigator.
type Config struct {
	CampaignID string
	// StartStep is the server-supplied starting step.
	StartStep int
	Store     storage.ResponseStore
	Form      FormReader
	Telemetry *telemetry.Emitter
	Locale    string
}

// StepRestore carries previously saved data for a step so the host can
// pre-fill its controls. Restoration must never clobber a field the user
// already began editing on this page instance; the navigator only hands out
// the data, the host applies it as defaults.
type StepRestore struct {
	Meta    *domain.Meta
	Answers []domain.Answer
	Comment string
}

// Navigator drives the step state machine for one campaign instance.
type Navigator struct {
	campaignID string
	key        string
	current    int
	state      domain.WizardState
	store      storage.ResponseStore
	form       FormReader
	emitter    *telemetry.Emitter
	locale     string
}

// New loads the stored wizard state for the campaign and positions the
// navigator at the clamped starting step.
func New(ctx context.Context, cfg Config) (*Navigator, error) {
	if cfg.CampaignID == "" {
		return nil, fmt.Errorf("campaign id is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("response store is required")
	}
	if cfg.Form == nil {
		return nil, fmt.Errorf("form reader is required")
	}

	key := storage.ResponseKey(cfg.CampaignID)
	state, err := cfg.Store.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load wizard state: %w", err)
	}

	return &Navigator{
		campaignID: cfg.CampaignID,
		key:        key,
		current:    domain.ClampStep(cfg.StartStep),
		state:      state,
		store:      cfg.Store,
		form:       cfg.Form,
		emitter:    cfg.Telemetry,
		locale:     cfg.Locale,
	}, nil
}

// Current returns the active step number.
func (n *Navigator) Current() int {
	return n.current
}

// Progress returns the active step and the total step count.
func (n *Navigator) Progress() (int, int) {
	return n.current, domain.FinalStep
}

// State returns a copy of the working wizard state.
func (n *Navigator) State() domain.WizardState {
	return n.state.Clone()
}

// Key returns the storage key of this campaign instance.
func (n *Navigator) Key() string {
	return n.key
}

// Advance validates the current step, persists its answers and moves
// forward, clamped at the final step. A failed validation returns the
// verdict without saving or moving.
func (n *Navigator) Advance(ctx context.Context) (validate.Result, error) {
	if n.current >= domain.FinalStep {
		return validate.Result{OK: true, FirstUnanswered: -1}, nil
	}

	form, err := n.form.ReadStep(ctx, n.current)
	if err != nil {
		return validate.Result{}, fmt.Errorf("read step %d form: %w", n.current, err)
	}

	result := n.applyStep(form)
	if !result.OK {
		_ = n.emitter.Emit(ctx, telemetry.EventValidationFailed, telemetry.SeverityWarn, map[string]string{
			"campaign_id": n.campaignID,
			"step":        domain.StepKey(n.current),
			"code":        string(result.Code),
		})
		return result, nil
	}

	if err := n.store.Save(ctx, n.key, n.state); err != nil {
		return validate.Result{}, fmt.Errorf("save wizard state: %w", err)
	}

	from := n.current
	n.current = domain.ClampStep(n.current + 1)
	_ = n.emitter.Emit(ctx, telemetry.EventStepAdvanced, telemetry.SeverityInfo,
		telemetry.StepAttrs(n.campaignID, from, n.current))

	return result, nil
}

// Retreat moves one step back unconditionally. Previously saved answers are
// untouched and nothing is re-validated.
func (n *Navigator) Retreat(ctx context.Context) {
	if n.current <= domain.FirstStep {
		return
	}
	from := n.current
	n.current--
	_ = n.emitter.Emit(ctx, telemetry.EventStepRetreated, telemetry.SeverityInfo,
		telemetry.StepAttrs(n.campaignID, from, n.current))
}

// Restore returns the saved data for a step so the host can pre-fill its
// controls on entry.
func (n *Navigator) Restore(step int) StepRestore {
	restore := StepRestore{}
	switch {
	case step == domain.StepIdentification:
		if n.state.Meta.IdentificationNumber != "" {
			meta := n.state.Meta
			restore.Meta = &meta
		}
	case domain.IsQuestionStep(step):
		restore.Answers = append([]domain.Answer(nil), n.state.StepAnswers(step)...)
	case step == domain.StepComments:
		restore.Comment = n.state.Comments
	}
	return restore
}

func (n *Navigator) applyStep(form StepForm) validate.Result {
	switch {
	case n.current == domain.StepIdentification:
		input := validate.Step1Input{}
		if form.Identification != nil {
			input = *form.Identification
		}
		meta, result := validate.Step1(input, n.locale)
		if result.OK {
			n.state.Meta = meta
		}
		return result

	case domain.IsQuestionStep(n.current):
		result := validate.QuestionStep(form.Cards, n.locale)
		if result.OK {
			// Question steps always validate before SetStepAnswers runs, so
			// the error path is unreachable here.
			_ = n.state.SetStepAnswers(n.current, validate.Answers(form.Cards))
		}
		return result

	default:
		result := validate.Comments(form.Comment, n.locale)
		if result.OK {
			_ = n.state.SetComment(form.Comment)
		}
		return result
	}
}
