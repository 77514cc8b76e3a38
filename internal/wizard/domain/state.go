package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Step numbers for the ten-step flow.
const (
	// StepIdentification collects the respondent meta block.
	StepIdentification = 1
	// FirstQuestionStep through LastQuestionStep are the question blocks.
	FirstQuestionStep = 2
	LastQuestionStep  = 8
	// StepComments collects the optional free-text comment.
	StepComments = 9
	// StepSubmit is the terminal step where the payload is emitted.
	StepSubmit = 10

	FirstStep = StepIdentification
	FinalStep = StepSubmit
)

// IdentificationLength is the digit count of a normalized CPF.
const IdentificationLength = 11

// MaxCommentLength caps the free-text comment.
const MaxCommentLength = 1000

var (
	// ErrInvalidIdentification indicates the identification number does not
	// normalize to exactly eleven digits.
	ErrInvalidIdentification = errors.New("identification must have 11 digits")
	// ErrInvalidAge indicates the age is not a positive integer.
	ErrInvalidAge = errors.New("age must be a positive integer")
	// ErrCommentTooLong indicates the comment exceeds MaxCommentLength.
	ErrCommentTooLong = errors.New("comment exceeds maximum length")
	// ErrInvalidStep indicates a step number outside [FirstStep, FinalStep].
	ErrInvalidStep = errors.New("step is out of range")
)

// Sex is the self-reported sex field. The platform stores it as a free
// string, so the type is string-backed and unknown values pass through.
type Sex string

const (
	SexUnspecified Sex = ""
	SexFemale      Sex = "feminino"
	SexMale        Sex = "masculino"
	SexOther       Sex = "outro"
)

// Meta is the step-1 identification block. It is written once when step 1
// completes and stays immutable until resubmission. ID fields use zero for
// "not selected" and are omitted from the payload when unset.
type Meta struct {
	IdentificationNumber string `json:"cpf"`
	Age                  int    `json:"age"`
	FirstName            string `json:"first_name"`
	Sex                  Sex    `json:"sex"`
	HazardGroupID        int64  `json:"ghe_id,omitempty"`
	DepartmentID         int64  `json:"department_id,omitempty"`
	JobFunctionID        int64  `json:"job_function_id,omitempty"`
}

// Answer pairs a question card with its selected answer. Order within a
// step's list matches the visual order of the cards.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// WizardState is the persisted in-progress response for one campaign.
type WizardState struct {
	Meta      Meta                `json:"meta"`
	Responses map[string][]Answer `json:"responses"`
	Comments  string              `json:"comments"`
}

// EmptyState returns the empty shape used when nothing is stored or the
// stored record is unreadable.
func EmptyState() WizardState {
	return WizardState{Responses: map[string][]Answer{}}
}

// Clone returns a deep copy so callers can hand out state without aliasing
// the navigator's working copy.
func (s WizardState) Clone() WizardState {
	out := s
	out.Responses = make(map[string][]Answer, len(s.Responses))
	for key, answers := range s.Responses {
		out.Responses[key] = append([]Answer(nil), answers...)
	}
	return out
}

// StepKey returns the responses map key for a question step ("step2".."step8").
func StepKey(step int) string {
	return "step" + strconv.Itoa(step)
}

// IsQuestionStep reports whether the step is one of the question blocks.
func IsQuestionStep(step int) bool {
	return step >= FirstQuestionStep && step <= LastQuestionStep
}

// QuestionSteps returns the question block step numbers in order.
func QuestionSteps() []int {
	steps := make([]int, 0, LastQuestionStep-FirstQuestionStep+1)
	for step := FirstQuestionStep; step <= LastQuestionStep; step++ {
		steps = append(steps, step)
	}
	return steps
}

// ClampStep forces a step into [FirstStep, FinalStep].
func ClampStep(step int) int {
	if step < FirstStep {
		return FirstStep
	}
	if step > FinalStep {
		return FinalStep
	}
	return step
}

// NormalizeCPF strips every non-digit rune and requires exactly eleven
// digits to remain.
func NormalizeCPF(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	normalized := digits.String()
	if len(normalized) != IdentificationLength {
		return "", ErrInvalidIdentification
	}
	return normalized, nil
}

// ParseAge parses the raw age field as a positive integer.
func ParseAge(raw string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || age <= 0 {
		return 0, ErrInvalidAge
	}
	return age, nil
}

// NormalizeSex trims the raw value. Unknown values are preserved as-is
// because the platform treats the column as free text.
func NormalizeSex(raw string) Sex {
	return Sex(strings.TrimSpace(strings.ToLower(raw)))
}

// SetComment writes a trimmed comment, enforcing the length cap. The cap is
// a hard validation boundary; stored data is never silently truncated.
func (s *WizardState) SetComment(comment string) error {
	trimmed := strings.TrimSpace(comment)
	if len([]rune(trimmed)) > MaxCommentLength {
		return fmt.Errorf("%w: %d runes", ErrCommentTooLong, len([]rune(trimmed)))
	}
	s.Comments = trimmed
	return nil
}

// SetStepAnswers records the ordered answers for a question step, creating
// the step entry on first completion.
func (s *WizardState) SetStepAnswers(step int, answers []Answer) error {
	if !IsQuestionStep(step) {
		return ErrInvalidStep
	}
	if s.Responses == nil {
		s.Responses = map[string][]Answer{}
	}
	s.Responses[StepKey(step)] = append([]Answer(nil), answers...)
	return nil
}

// StepAnswers returns the saved answers for a question step, or nil when the
// step has never been completed.
func (s WizardState) StepAnswers(step int) []Answer {
	if s.Responses == nil {
		return nil
	}
	return s.Responses[StepKey(step)]
}
