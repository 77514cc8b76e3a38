// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Identification errors
	CodeIdentificationInvalid      Code = "IDENTIFICATION_INVALID"
	CodeIdentificationUnavailable  Code = "IDENTIFICATION_UNAVAILABLE"
	CodeIdentificationCheckPending Code = "IDENTIFICATION_CHECK_PENDING"
	CodeIdentificationUnreachable  Code = "IDENTIFICATION_CHECK_UNREACHABLE"

	// Step-1 field errors
	CodeAgeInvalid        Code = "AGE_INVALID"
	CodeCascadeIncomplete Code = "CASCADE_SELECTION_INCOMPLETE"

	// Question step errors
	CodeQuestionUnanswered Code = "QUESTION_UNANSWERED"

	// Comment errors
	CodeCommentTooLong Code = "COMMENT_TOO_LONG"

	// Navigation errors
	CodeStepOutOfRange Code = "STEP_OUT_OF_RANGE"
	CodeNotFinalStep   Code = "NOT_FINAL_STEP"

	// Option list errors
	CodeOptionsLoading    Code = "OPTIONS_LOADING"
	CodeOptionsEmpty      Code = "OPTIONS_EMPTY"
	CodeOptionsLoadFailed Code = "OPTIONS_LOAD_FAILED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)
