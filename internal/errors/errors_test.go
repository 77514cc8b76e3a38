package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestUserMessageRendersMetadata(t *testing.T) {
	err := New(CodeCascadeIncomplete).WithMetadata(map[string]string{
		"First":  "o GHE",
		"Second": "o setor",
	})

	got := UserMessage(err, "pt-BR")
	want := "Selecione o GHE e o setor para continuar"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	gotEN := UserMessage(err, "en-US")
	wantEN := "Select o GHE and o setor to continue"
	if gotEN != wantEN {
		t.Fatalf("expected %q, got %q", wantEN, gotEN)
	}
}

func TestUserMessageDefaultsToPortuguese(t *testing.T) {
	got := UserMessage(New(CodeAgeInvalid), "")
	if got != "Informe uma idade válida" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestUserMessageUnknownError(t *testing.T) {
	got := UserMessage(stderrors.New("boom"), "pt-BR")
	if got != "Ocorreu um erro inesperado" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestGetCodeUnwrapsChains(t *testing.T) {
	inner := New(CodeIdentificationInvalid)
	wrapped := fmt.Errorf("validate step 1: %w", inner)

	if GetCode(wrapped) != CodeIdentificationInvalid {
		t.Fatalf("expected code through wrap, got %v", GetCode(wrapped))
	}
	if !IsCode(wrapped, CodeIdentificationInvalid) {
		t.Fatalf("IsCode should match through wrap")
	}
	if GetCode(stderrors.New("plain")) != CodeUnknown {
		t.Fatalf("plain errors must map to CodeUnknown")
	}
}

func TestErrorStringCarriesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := New(CodeIdentificationUnreachable).Wrap(cause)

	if err.Error() != "IDENTIFICATION_CHECK_UNREACHABLE: connection refused" {
		t.Fatalf("unexpected error string: %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Fatalf("cause must be reachable via errors.Is")
	}
}
