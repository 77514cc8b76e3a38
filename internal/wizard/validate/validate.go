// Package validate holds the per-step predicates the navigator consults
// before advancing. Validators are pure functions over plain data: the host
// reads its form controls into the input structs, and failures come back as
// a machine code plus the localized blocking message to display.
package validate

import (
	"strconv"
	"time"

	"github.com/luan640/nr01facil/internal/errors"
	"github.com/luan640/nr01facil/internal/wizard/availability"
	"github.com/luan640/nr01facil/internal/wizard/domain"
	"github.com/luan640/nr01facil/internal/wizard/options"
)

// HighlightTTL is how long the host should keep the transient highlight on
// the first unanswered card after a question-step failure.
const HighlightTTL = 1200 * time.Millisecond

// Result is a validation verdict. On failure, Reason carries the blocking
// message for the user and FirstUnanswered the 0-based index of the first
// offending question card (-1 when not applicable).
type Result struct {
	OK              bool
	Code            errors.Code
	Reason          string
	FirstUnanswered int
	HighlightTTL    time.Duration
}

func pass() Result {
	return Result{OK: true, FirstUnanswered: -1}
}

func fail(code errors.Code, locale string, metadata map[string]string) Result {
	return Result{
		OK:              false,
		Code:            code,
		Reason:          errors.Message(code, locale, metadata),
		FirstUnanswered: -1,
	}
}

// Step1Input is the raw step-1 form data plus the async collaborator states
// that gate it.
type Step1Input struct {
	RawIdentification string
	RawAge            string
	FirstName         string
	RawSex            string

	Mode          options.CascadeMode
	HazardGroupID int64
	DepartmentID  int64
	JobFunctionID int64

	Availability availability.State
}

// Step1 validates the identification step. On success the normalized meta
// block is returned for the navigator to persist.
func Step1(in Step1Input, locale string) (domain.Meta, Result) {
	digits, err := domain.NormalizeCPF(in.RawIdentification)
	if err != nil {
		return domain.Meta{}, fail(errors.CodeIdentificationInvalid, locale, nil)
	}

	age, err := domain.ParseAge(in.RawAge)
	if err != nil {
		return domain.Meta{}, fail(errors.CodeAgeInvalid, locale, nil)
	}

	switch in.Mode {
	case options.ModeHazardGroup:
		if in.HazardGroupID == 0 || in.DepartmentID == 0 {
			return domain.Meta{}, fail(errors.CodeCascadeIncomplete, locale, map[string]string{
				"First":  "o GHE",
				"Second": "o setor",
			})
		}
	case options.ModeDepartment:
		if in.DepartmentID == 0 || in.JobFunctionID == 0 {
			return domain.Meta{}, fail(errors.CodeCascadeIncomplete, locale, map[string]string{
				"First":  "o setor",
				"Second": "a função",
			})
		}
	default:
		return domain.Meta{}, fail(errors.CodeCascadeIncomplete, locale, map[string]string{
			"First":  "o setor",
			"Second": "a função",
		})
	}

	// Fail closed: an unchecked or mid-flight availability state blocks the
	// step just like a confirmed-unavailable verdict.
	if in.Availability.InFlight {
		return domain.Meta{}, fail(errors.CodeIdentificationCheckPending, locale, nil)
	}
	if !in.Availability.Available {
		result := fail(errors.CodeIdentificationUnavailable, locale, nil)
		if in.Availability.Message != "" {
			result.Reason = in.Availability.Message
		}
		return domain.Meta{}, result
	}

	meta := domain.Meta{
		IdentificationNumber: digits,
		Age:                  age,
		FirstName:            in.FirstName,
		Sex:                  domain.NormalizeSex(in.RawSex),
		HazardGroupID:        in.HazardGroupID,
		DepartmentID:         in.DepartmentID,
		JobFunctionID:        in.JobFunctionID,
	}
	return meta, pass()
}

// Card is one question card of a question step: the question text and the
// currently selected answer ("" when none).
type Card struct {
	Question string
	Answer   string
}

// QuestionStep validates that every card has a selected answer. On failure
// the result points at the first unanswered card and carries the transient
// highlight duration.
func QuestionStep(cards []Card, locale string) Result {
	for i, card := range cards {
		if card.Answer == "" {
			result := fail(errors.CodeQuestionUnanswered, locale, nil)
			result.FirstUnanswered = i
			result.HighlightTTL = HighlightTTL
			return result
		}
	}
	return pass()
}

// Answers converts answered cards into the persisted answer sequence,
// preserving card order.
func Answers(cards []Card) []domain.Answer {
	answers := make([]domain.Answer, 0, len(cards))
	for _, card := range cards {
		answers = append(answers, domain.Answer{Question: card.Question, Answer: card.Answer})
	}
	return answers
}

// Comments validates the free-text comment step. The comment is optional;
// over-long input is a blocking failure, never a silent truncation.
func Comments(text string, locale string) Result {
	if len([]rune(text)) > domain.MaxCommentLength {
		return fail(errors.CodeCommentTooLong, locale, map[string]string{
			"Max": strconv.Itoa(domain.MaxCommentLength),
		})
	}
	return pass()
}
