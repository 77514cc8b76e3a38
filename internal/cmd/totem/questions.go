package totem

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/luan640/nr01facil/internal/directory"
	"github.com/luan640/nr01facil/internal/wizard/domain"
)

// Questionnaire is the kiosk's local copy of the campaign content: the
// top-level options of the step-1 cascade (hazard groups or departments,
// depending on the cascade mode) and the question text of each question
// step. The web version receives this content server-rendered; the kiosk
// loads it from a JSON file or falls back to the built-in catalog.
type Questionnaire struct {
	Parents   []directory.Option  `json:"parents"`
	Scale     []string            `json:"scale"`
	Questions map[string][]string `json:"questions"`
}

// DefaultQuestionnaire returns the built-in pt-BR psychosocial risk
// questionnaire.
func DefaultQuestionnaire() Questionnaire {
	return Questionnaire{
		Parents: []directory.Option{
			{ID: 1, Name: "GHE Administrativo"},
			{ID: 2, Name: "GHE Operacional"},
			{ID: 3, Name: "GHE Comercial"},
		},
		Scale: []string{
			"1 - Nunca",
			"2 - Raramente",
			"3 - Às vezes",
			"4 - Frequentemente",
			"5 - Sempre",
		},
		Questions: map[string][]string{
			"step2": {
				"Tenho tempo suficiente para concluir minhas tarefas",
				"Meu ritmo de trabalho é adequado",
				"Consigo fazer pausas quando preciso",
			},
			"step3": {
				"Posso decidir como organizar meu trabalho",
				"Minha opinião é considerada nas decisões que afetam minha atividade",
				"Tenho clareza sobre o que é esperado de mim",
			},
			"step4": {
				"O relacionamento com meus colegas é respeitoso",
				"Recebo ajuda dos colegas quando preciso",
				"Os conflitos na equipe são tratados de forma justa",
			},
			"step5": {
				"Minha liderança está disponível quando preciso de orientação",
				"Recebo retorno sobre o meu desempenho",
				"Sinto que posso relatar problemas sem medo de represália",
			},
			"step6": {
				"Meu trabalho é reconhecido",
				"Vejo possibilidade de crescimento na empresa",
				"Sinto que meu trabalho tem importância",
			},
			"step7": {
				"Consigo conciliar o trabalho com minha vida pessoal",
				"Minha jornada de trabalho é previsível",
				"Saio do trabalho com energia para outras atividades",
			},
			"step8": {
				"Já presenciei situações de humilhação ou constrangimento no trabalho",
				"Já sofri tratamento hostil de colegas ou superiores",
				"Sinto-me seguro no meu ambiente de trabalho",
			},
		},
	}
}

// LoadQuestionnaire reads a questionnaire JSON file. An empty path returns
// the built-in catalog. Sections missing from the file keep their defaults.
func LoadQuestionnaire(path string) (Questionnaire, error) {
	q := DefaultQuestionnaire()
	if path == "" {
		return q, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Questionnaire{}, fmt.Errorf("read questionnaire: %w", err)
	}
	var loaded Questionnaire
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return Questionnaire{}, fmt.Errorf("parse questionnaire: %w", err)
	}
	if len(loaded.Parents) > 0 {
		q.Parents = loaded.Parents
	}
	if len(loaded.Scale) > 0 {
		q.Scale = loaded.Scale
	}
	for key, questions := range loaded.Questions {
		q.Questions[key] = questions
	}
	return q, nil
}

// StepQuestions returns the question text of a question step, in display
// order.
func (q Questionnaire) StepQuestions(step int) []string {
	return q.Questions[domain.StepKey(step)]
}

// Validate checks that every question step has at least one question and
// that a rating scale is present.
func (q Questionnaire) Validate() error {
	if len(q.Parents) == 0 {
		return fmt.Errorf("questionnaire has no parent options")
	}
	if len(q.Scale) == 0 {
		return fmt.Errorf("questionnaire has no rating scale")
	}
	for _, step := range domain.QuestionSteps() {
		if len(q.StepQuestions(step)) == 0 {
			return fmt.Errorf("questionnaire has no questions for step %d", step)
		}
	}
	return nil
}
