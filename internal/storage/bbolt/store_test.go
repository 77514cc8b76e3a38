package bbolt

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.etcd.io/bbolt"

	"github.com/luan640/nr01facil/internal/storage"
	"github.com/luan640/nr01facil/internal/wizard/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "responses.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	key := storage.ResponseKey("0b3e7a9c")

	state := domain.EmptyState()
	state.Meta = domain.Meta{
		IdentificationNumber: "12345678901",
		Age:                  30,
		FirstName:            "Ana",
		Sex:                  domain.SexFemale,
		HazardGroupID:        5,
		DepartmentID:         12,
	}
	if err := state.SetStepAnswers(2, []domain.Answer{
		{Question: "Ritmo de trabalho", Answer: "4"},
		{Question: "Pausas suficientes", Answer: "2"},
	}); err != nil {
		t.Fatalf("set step answers: %v", err)
	}
	state.Comments = "sem observações"

	if err := store.Save(ctx, key, state); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, key)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(state, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingReturnsEmptyState(t *testing.T) {
	store := openTestStore(t)

	loaded, err := store.Load(context.Background(), storage.ResponseKey("missing"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(domain.EmptyState(), loaded); diff != "" {
		t.Fatalf("expected empty state (-want +got):\n%s", diff)
	}
}

func TestLoadCorruptRecordRecoversSilently(t *testing.T) {
	store := openTestStore(t)
	key := storage.ResponseKey("corrupted")

	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(responseBucket)).Put([]byte(key), []byte("{not json"))
	})
	if err != nil {
		t.Fatalf("seed corrupt record: %v", err)
	}

	loaded, err := store.Load(context.Background(), key)
	if err != nil {
		t.Fatalf("load must not surface corruption: %v", err)
	}
	if diff := cmp.Diff(domain.EmptyState(), loaded); diff != "" {
		t.Fatalf("expected empty state (-want +got):\n%s", diff)
	}
}

func TestSaveOverwritesLastWriteWins(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	key := storage.ResponseKey("overwrite")

	first := domain.EmptyState()
	first.Comments = "first"
	second := domain.EmptyState()
	second.Comments = "second"

	if err := store.Save(ctx, key, first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := store.Save(ctx, key, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	loaded, err := store.Load(ctx, key)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Comments != "second" {
		t.Fatalf("expected last write to win, got %q", loaded.Comments)
	}
}

func TestClearRemovesRecord(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	key := storage.ResponseKey("cleared")

	state := domain.EmptyState()
	state.Comments = "to be cleared"
	if err := store.Save(ctx, key, state); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(ctx, key); err != nil {
		t.Fatalf("clear: %v", err)
	}

	loaded, err := store.Load(ctx, key)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(domain.EmptyState(), loaded); diff != "" {
		t.Fatalf("expected empty state after clear (-want +got):\n%s", diff)
	}
}

func TestAppendTelemetryEventOrdersBySequence(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"step_advanced", "validation_failed", "response_submitted"} {
		evt := storage.TelemetryEvent{Name: name, Severity: "INFO"}
		if err := store.AppendTelemetryEvent(ctx, evt); err != nil {
			t.Fatalf("append %s: %v", name, err)
		}
	}

	var names []string
	err := store.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(telemetryBucket)).ForEach(func(_, v []byte) error {
			var evt storage.TelemetryEvent
			if err := json.Unmarshal(v, &evt); err != nil {
				return err
			}
			names = append(names, evt.Name)
			return nil
		})
	})
	if err != nil {
		t.Fatalf("scan telemetry: %v", err)
	}

	want := []string{"step_advanced", "validation_failed", "response_submitted"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("unexpected event order (-want +got):\n%s", diff)
	}
}

func TestSaveRequiresKey(t *testing.T) {
	store := openTestStore(t)
	if err := store.Save(context.Background(), " ", domain.EmptyState()); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
