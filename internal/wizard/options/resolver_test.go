package options

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/luan640/nr01facil/internal/directory"
)

func TestSelectPopulatesOptions(t *testing.T) {
	fetch := func(ctx context.Context, parentID int64) ([]directory.Option, error) {
		if parentID != 5 {
			t.Errorf("expected parent 5, got %d", parentID)
		}
		return []directory.Option{{ID: 12, Name: "Usinagem"}}, nil
	}
	resolver := NewResolver(fetch, "pt-BR")

	<-resolver.Select(context.Background(), 5)

	list := resolver.Snapshot()
	if list.Status != StatusReady {
		t.Fatalf("expected ready, got %v", list.Status)
	}
	if !list.Enabled() {
		t.Fatal("ready list must be enabled")
	}
	if !list.Contains(12) || list.Contains(99) {
		t.Fatalf("unexpected contents: %+v", list.Options)
	}
}

func TestSelectShowsLoadingPlaceholderImmediately(t *testing.T) {
	release := make(chan struct{})
	fetch := func(ctx context.Context, parentID int64) ([]directory.Option, error) {
		<-release
		return nil, nil
	}
	resolver := NewResolver(fetch, "pt-BR")

	done := resolver.Select(context.Background(), 5)

	list := resolver.Snapshot()
	if list.Status != StatusLoading {
		t.Fatalf("expected loading, got %v", list.Status)
	}
	if list.Placeholder != "Carregando..." {
		t.Fatalf("unexpected placeholder: %q", list.Placeholder)
	}
	if list.Enabled() {
		t.Fatal("loading list must be disabled")
	}

	close(release)
	<-done
}

func TestEmptyResultShowsExplanatoryPlaceholder(t *testing.T) {
	fetch := func(ctx context.Context, parentID int64) ([]directory.Option, error) {
		return nil, nil
	}
	resolver := NewResolver(fetch, "pt-BR")

	list := resolver.Resolve(context.Background(), 5)
	if list.Status != StatusEmpty {
		t.Fatalf("expected empty, got %v", list.Status)
	}
	if list.Placeholder != "Nenhum item disponível" {
		t.Fatalf("unexpected placeholder: %q", list.Placeholder)
	}
}

func TestFailedFetchShowsFailurePlaceholder(t *testing.T) {
	fetch := func(ctx context.Context, parentID int64) ([]directory.Option, error) {
		return nil, errors.New("network down")
	}
	resolver := NewResolver(fetch, "pt-BR")

	list := resolver.Resolve(context.Background(), 5)
	if list.Status != StatusFailed {
		t.Fatalf("expected failed, got %v", list.Status)
	}
	if list.Placeholder != "Falha ao carregar" {
		t.Fatalf("unexpected placeholder: %q", list.Placeholder)
	}
	if list.Enabled() {
		t.Fatal("failed list must be disabled")
	}
}

func TestStaleResponseNeverOverwritesNewerSelection(t *testing.T) {
	// The fetch for parent 1 is slow; parent 2 resolves first. The late
	// result for parent 1 must be discarded by its stale token.
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var once sync.Once

	fetch := func(ctx context.Context, parentID int64) ([]directory.Option, error) {
		if parentID == 1 {
			once.Do(func() { close(firstStarted) })
			<-releaseFirst
			return []directory.Option{{ID: 100, Name: "stale"}}, nil
		}
		return []directory.Option{{ID: 200, Name: "fresh"}}, nil
	}
	resolver := NewResolver(fetch, "pt-BR")

	firstDone := resolver.Select(context.Background(), 1)
	<-firstStarted

	<-resolver.Select(context.Background(), 2)
	close(releaseFirst)
	<-firstDone

	list := resolver.Snapshot()
	if list.Status != StatusReady || list.ParentID != 2 {
		t.Fatalf("expected result for parent 2, got %+v", list)
	}
	want := []directory.Option{{ID: 200, Name: "fresh"}}
	if diff := cmp.Diff(want, list.Options); diff != "" {
		t.Fatalf("stale result applied (-want +got):\n%s", diff)
	}
}

func TestResetReturnsToIdle(t *testing.T) {
	fetch := func(ctx context.Context, parentID int64) ([]directory.Option, error) {
		return []directory.Option{{ID: 1, Name: "x"}}, nil
	}
	resolver := NewResolver(fetch, "pt-BR")

	<-resolver.Select(context.Background(), 5)
	resolver.Reset()

	list := resolver.Snapshot()
	if list.Status != StatusIdle || len(list.Options) != 0 {
		t.Fatalf("expected idle list, got %+v", list)
	}
}

func TestResetDiscardsInFlightFetch(t *testing.T) {
	release := make(chan struct{})
	fetch := func(ctx context.Context, parentID int64) ([]directory.Option, error) {
		<-release
		return []directory.Option{{ID: 1, Name: "late"}}, nil
	}
	resolver := NewResolver(fetch, "pt-BR")

	done := resolver.Select(context.Background(), 5)
	resolver.Reset()
	close(release)
	<-done

	list := resolver.Snapshot()
	if list.Status != StatusIdle {
		t.Fatalf("late fetch must not revive a reset list: %+v", list)
	}
}

func TestParseCascadeMode(t *testing.T) {
	tests := []struct {
		raw  string
		want CascadeMode
		ok   bool
	}{
		{raw: "ghe", want: ModeHazardGroup, ok: true},
		{raw: "setor", want: ModeDepartment, ok: true},
		{raw: "", ok: false},
		{raw: "other", ok: false},
	}
	for _, tt := range tests {
		mode, err := ParseCascadeMode(tt.raw)
		if tt.ok && (err != nil || mode != tt.want) {
			t.Fatalf("ParseCascadeMode(%q) = %v, %v", tt.raw, mode, err)
		}
		if !tt.ok && err == nil {
			t.Fatalf("expected error for %q", tt.raw)
		}
	}
}
