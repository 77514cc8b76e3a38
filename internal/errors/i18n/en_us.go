package i18n

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		CodeUnknown: "An unexpected error occurred",

		// Identification errors
		CodeIdentificationInvalid:      "Enter a valid 11-digit CPF",
		CodeIdentificationUnavailable:  "This CPF has already answered this campaign",
		CodeIdentificationCheckPending: "Wait for the CPF check to finish before continuing",
		CodeIdentificationUnreachable:  "The CPF check is unavailable. Try again shortly",

		// Step-1 field errors
		CodeAgeInvalid:        "Enter a valid age",
		CodeCascadeIncomplete: "Select {{.First}} and {{.Second}} to continue",

		// Question step errors
		CodeQuestionUnanswered: "Answer every question in this step before continuing",

		// Comment errors
		CodeCommentTooLong: "The comment must be at most {{.Max}} characters",

		// Navigation errors
		CodeStepOutOfRange: "Invalid step",
		CodeNotFinalStep:   "Submission is only allowed on the last step",

		// Option list errors
		CodeOptionsLoading:    "Loading...",
		CodeOptionsEmpty:      "No items available",
		CodeOptionsLoadFailed: "Failed to load",

		// Storage errors
		CodeNotFound: "Record not found",
	},
}
