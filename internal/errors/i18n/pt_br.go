package i18n

// Error codes must match the codes defined in internal/errors/codes.go.
const (
	CodeUnknown                    = "UNKNOWN"
	CodeIdentificationInvalid      = "IDENTIFICATION_INVALID"
	CodeIdentificationUnavailable  = "IDENTIFICATION_UNAVAILABLE"
	CodeIdentificationCheckPending = "IDENTIFICATION_CHECK_PENDING"
	CodeIdentificationUnreachable  = "IDENTIFICATION_CHECK_UNREACHABLE"
	CodeAgeInvalid                 = "AGE_INVALID"
	CodeCascadeIncomplete          = "CASCADE_SELECTION_INCOMPLETE"
	CodeQuestionUnanswered         = "QUESTION_UNANSWERED"
	CodeCommentTooLong             = "COMMENT_TOO_LONG"
	CodeStepOutOfRange             = "STEP_OUT_OF_RANGE"
	CodeNotFinalStep               = "NOT_FINAL_STEP"
	CodeOptionsLoading             = "OPTIONS_LOADING"
	CodeOptionsEmpty               = "OPTIONS_EMPTY"
	CodeOptionsLoadFailed          = "OPTIONS_LOAD_FAILED"
	CodeNotFound                   = "NOT_FOUND"
)

var ptBRCatalog = &Catalog{
	locale: "pt-BR",
	messages: map[Code]string{
		CodeUnknown: "Ocorreu um erro inesperado",

		// Identification errors
		CodeIdentificationInvalid:      "Informe um CPF válido com 11 dígitos",
		CodeIdentificationUnavailable:  "Este CPF já respondeu esta campanha",
		CodeIdentificationCheckPending: "Aguarde a verificação do CPF para continuar",
		CodeIdentificationUnreachable:  "Não foi possível verificar o CPF. Tente novamente em instantes",

		// Step-1 field errors
		CodeAgeInvalid:        "Informe uma idade válida",
		CodeCascadeIncomplete: "Selecione {{.First}} e {{.Second}} para continuar",

		// Question step errors
		CodeQuestionUnanswered: "Responda todas as perguntas desta etapa antes de continuar",

		// Comment errors
		CodeCommentTooLong: "O comentário deve ter no máximo {{.Max}} caracteres",

		// Navigation errors
		CodeStepOutOfRange: "Etapa inválida",
		CodeNotFinalStep:   "O envio só é permitido na última etapa",

		// Option list errors
		CodeOptionsLoading:    "Carregando...",
		CodeOptionsEmpty:      "Nenhum item disponível",
		CodeOptionsLoadFailed: "Falha ao carregar",

		// Storage errors
		CodeNotFound: "Registro não encontrado",
	},
}
