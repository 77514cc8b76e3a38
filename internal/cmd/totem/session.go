package totem

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/luan640/nr01facil/internal/telemetry"
	"github.com/luan640/nr01facil/internal/wizard/availability"
	"github.com/luan640/nr01facil/internal/wizard/domain"
	"github.com/luan640/nr01facil/internal/wizard/navigator"
	"github.com/luan640/nr01facil/internal/wizard/options"
	"github.com/luan640/nr01facil/internal/wizard/submit"
	"github.com/luan640/nr01facil/internal/wizard/validate"
)

const thanksMessage = "Respostas enviadas. Obrigado por participar!"

var sexLabels = []struct {
	label string
	value string
}{
	{"Feminino", string(domain.SexFemale)},
	{"Masculino", string(domain.SexMale)},
	{"Outro", string(domain.SexOther)},
}

// session runs one respondent through the wizard. It doubles as the
// navigator's FormReader: prompts fill the per-step form cache that
// Advance reads back out.
type session struct {
	driver        PromptDriver
	nav           *navigator.Navigator
	resolver      *options.Resolver
	checker       *availability.Checker
	serializer    *submit.Serializer
	emitter       *telemetry.Emitter
	store         sessionStore
	questionnaire Questionnaire
	mode          options.CascadeMode
	campaignID    string
	terminalID    string
	submitURL     string
	httpClient    *http.Client
	forms         map[int]navigator.StepForm
}

// ReadStep hands the navigator the form data collected by the prompts.
func (s *session) ReadStep(ctx context.Context, step int) (navigator.StepForm, error) {
	return s.forms[step], nil
}

func (s *session) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		step := s.nav.Current()

		if step == domain.FinalStep {
			done, err := s.finalize(ctx)
			if err != nil || done {
				return err
			}
			continue
		}

		current, total := s.nav.Progress()
		if err := s.driver.Info(ctx, fmt.Sprintf("Etapa %d de %d", current, total)); err != nil {
			return err
		}

		back, err := s.direction(ctx, step)
		if err != nil {
			return err
		}
		if back {
			s.nav.Retreat(ctx)
			continue
		}

		form, err := s.collect(ctx, step)
		if err != nil {
			return err
		}
		s.forms[step] = form

		result, err := s.nav.Advance(ctx)
		if err != nil {
			return err
		}
		if !result.OK {
			if err := s.driver.Info(ctx, result.Reason); err != nil {
				return err
			}
		}
	}
}

// direction lets the respondent step back before re-answering. The first
// step has nowhere to go back to.
func (s *session) direction(ctx context.Context, step int) (bool, error) {
	if step <= domain.FirstStep {
		return false, nil
	}
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message: "Navegação",
		Options: []string{"Continuar", "Voltar à etapa anterior"},
	})
	if err != nil {
		return false, err
	}
	return idx == 1, nil
}

func (s *session) collect(ctx context.Context, step int) (navigator.StepForm, error) {
	switch {
	case step == domain.StepIdentification:
		input, err := s.collectIdentification(ctx)
		if err != nil {
			return navigator.StepForm{}, err
		}
		return navigator.StepForm{Identification: input}, nil

	case domain.IsQuestionStep(step):
		cards, err := s.collectQuestions(ctx, step)
		if err != nil {
			return navigator.StepForm{}, err
		}
		return navigator.StepForm{Cards: cards}, nil

	default:
		comment, err := s.collectComment(ctx, step)
		if err != nil {
			return navigator.StepForm{}, err
		}
		return navigator.StepForm{Comment: comment}, nil
	}
}

func (s *session) collectIdentification(ctx context.Context) (*validate.Step1Input, error) {
	defaults := domain.Meta{}
	if restore := s.nav.Restore(domain.StepIdentification); restore.Meta != nil {
		defaults = *restore.Meta
	}

	cpf, err := s.driver.Input(ctx, InputConfig{
		Message: "CPF",
		Default: defaults.IdentificationNumber,
		Help:    "Somente números, 11 dígitos",
	})
	if err != nil {
		return nil, err
	}
	checked, err := s.checkAvailability(ctx, cpf)
	if err != nil {
		return nil, err
	}
	if checked {
		snap := s.checker.Snapshot()
		_ = s.emitter.Emit(ctx, telemetry.EventCPFCheckCompleted, telemetry.SeverityInfo, map[string]string{
			"campaign_id": s.campaignID,
			"available":   strconv.FormatBool(snap.Available),
		})
	}
	if msg := s.checker.Snapshot().Message; msg != "" {
		if err := s.driver.Info(ctx, msg); err != nil {
			return nil, err
		}
	}

	ageDefault := ""
	if defaults.Age > 0 {
		ageDefault = strconv.Itoa(defaults.Age)
	}
	age, err := s.driver.Input(ctx, InputConfig{Message: "Idade", Default: ageDefault})
	if err != nil {
		return nil, err
	}

	name, err := s.driver.Input(ctx, InputConfig{Message: "Primeiro nome", Default: defaults.FirstName})
	if err != nil {
		return nil, err
	}

	sex, err := s.collectSex(ctx, defaults.Sex)
	if err != nil {
		return nil, err
	}

	input := &validate.Step1Input{
		RawIdentification: cpf,
		RawAge:            age,
		FirstName:         name,
		RawSex:            sex,
		Mode:              s.mode,
		Availability:      s.checker.Snapshot(),
	}
	if err := s.collectCascade(ctx, input); err != nil {
		return nil, err
	}
	return input, nil
}

func (s *session) collectSex(ctx context.Context, current domain.Sex) (string, error) {
	labels := make([]string, len(sexLabels))
	defaultIndex := 0
	for i, option := range sexLabels {
		labels[i] = option.label
		if option.value == string(current) {
			defaultIndex = i
		}
	}
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      "Sexo",
		Options:      labels,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(sexLabels) {
		return "", nil
	}
	return sexLabels[idx].value, nil
}

// collectCascade prompts the parent select, resolves the dependent list and
// prompts the child. Ids land in the mode's field pair.
func (s *session) collectCascade(ctx context.Context, input *validate.Step1Input) error {
	parentLabel, childLabel := "GHE", "Setor"
	if s.mode == options.ModeDepartment {
		parentLabel, childLabel = "Setor", "Função"
	}

	parentNames := make([]string, len(s.questionnaire.Parents))
	for i, parent := range s.questionnaire.Parents {
		parentNames[i] = parent.Name
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: parentLabel, Options: parentNames})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(s.questionnaire.Parents) {
		return nil
	}
	parentID := s.questionnaire.Parents[idx].ID

	list := s.resolver.Resolve(ctx, parentID)
	_ = s.emitter.Emit(ctx, telemetry.EventOptionsResolved, telemetry.SeverityInfo, map[string]string{
		"campaign_id": s.campaignID,
		"mode":        s.mode.String(),
		"count":       strconv.Itoa(len(list.Options)),
	})
	if !list.Enabled() {
		return s.driver.Info(ctx, list.Placeholder)
	}

	childNames := make([]string, len(list.Options))
	for i, option := range list.Options {
		childNames[i] = option.Name
	}
	idx, err = s.driver.Select(ctx, SelectConfig{Message: childLabel, Options: childNames})
	if err != nil {
		return err
	}
	var childID int64
	if idx >= 0 && idx < len(list.Options) {
		childID = list.Options[idx].ID
	}

	if s.mode == options.ModeDepartment {
		input.DepartmentID = parentID
		input.JobFunctionID = childID
	} else {
		input.HazardGroupID = parentID
		input.DepartmentID = childID
	}
	return nil
}

// checkAvailability feeds the CPF edit to the debounced checker and, when a
// remote check was scheduled, waits for its verdict before moving on. It
// reports whether a check ran.
func (s *session) checkAvailability(ctx context.Context, raw string) (bool, error) {
	// Drop any stale settle signal from an earlier pass over this step.
	select {
	case <-s.checker.Settled():
	default:
	}

	before := s.checker.Snapshot()
	s.checker.Input(ctx, raw)

	digits := onlyDigits(raw)
	if len(digits) != domain.IdentificationLength || digits == before.LastChecked {
		return false, nil
	}
	select {
	case <-s.checker.Settled():
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (s *session) collectQuestions(ctx context.Context, step int) ([]validate.Card, error) {
	questions := s.questionnaire.StepQuestions(step)
	saved := map[string]string{}
	for _, answer := range s.nav.Restore(step).Answers {
		saved[answer.Question] = answer.Answer
	}

	cards := make([]validate.Card, 0, len(questions))
	for i, question := range questions {
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      fmt.Sprintf("%d/%d %s", i+1, len(questions), question),
			Options:      s.questionnaire.Scale,
			DefaultIndex: scaleIndex(s.questionnaire.Scale, saved[question]),
		})
		if err != nil {
			return nil, err
		}
		card := validate.Card{Question: question}
		if idx >= 0 && idx < len(s.questionnaire.Scale) {
			card.Answer = scaleValue(s.questionnaire.Scale[idx])
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (s *session) collectComment(ctx context.Context, step int) (string, error) {
	return s.driver.TextArea(ctx, TextAreaConfig{
		Message: "Comentários (opcional)",
		Default: s.nav.Restore(step).Comment,
		Help:    fmt.Sprintf("Até %d caracteres", domain.MaxCommentLength),
	})
}

// finalize confirms, serializes the stored response into the hidden payload
// field and posts the form to the platform. A declined confirmation steps
// back to the comments.
func (s *session) finalize(ctx context.Context) (bool, error) {
	ok, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: "Enviar suas respostas agora?",
		Default: true,
	})
	if err != nil {
		return false, err
	}
	if !ok {
		s.nav.Retreat(ctx)
		return false, nil
	}

	payload, err := s.serializer.Finalize(ctx, s.nav.Current(), s.nav.Key(), s.nav.State().Comments)
	if err != nil {
		return false, err
	}

	values := url.Values{
		"campaign_id": {s.campaignID},
		"terminal_id": {s.terminalID},
	}
	payload.AttachTo(values)

	resp, err := s.httpClient.PostForm(s.submitURL, values)
	if err != nil {
		return false, fmt.Errorf("post response: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("post response: unexpected status %d", resp.StatusCode)
	}

	if err := s.store.Clear(ctx, s.nav.Key()); err != nil {
		return false, fmt.Errorf("clear response store: %w", err)
	}
	return true, s.driver.Info(ctx, thanksMessage)
}

// scaleValue extracts the stored answer value from a scale label such as
// "4 - Frequentemente".
func scaleValue(label string) string {
	if idx := strings.Index(label, " "); idx > 0 {
		return label[:idx]
	}
	return label
}

// scaleIndex finds the scale label matching a previously saved answer value.
func scaleIndex(scale []string, answer string) int {
	if answer == "" {
		return 0
	}
	for i, label := range scale {
		if scaleValue(label) == answer {
			return i
		}
	}
	return 0
}

func onlyDigits(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}
