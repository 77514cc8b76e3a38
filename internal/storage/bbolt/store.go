// Package bbolt provides a BoltDB-backed implementation of the wizard
// storage interfaces. It is the kiosk analog of the browser's per-origin
// storage: one JSON record per campaign instance key.
package bbolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/luan640/nr01facil/internal/storage"
	"github.com/luan640/nr01facil/internal/wizard/domain"
)

const (
	responseBucket  = "responses"
	telemetryBucket = "telemetry"
)

// Store provides a BoltDB-backed response and telemetry store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save persists the wizard state for a campaign instance key.
func (s *Store) Save(ctx context.Context, key string, state domain.WizardState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("response key is required")
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal wizard state: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(responseBucket))
		if bucket == nil {
			return fmt.Errorf("responses bucket is missing")
		}
		return bucket.Put([]byte(key), payload)
	})
}

// Load fetches the wizard state for a campaign instance key.
//
// A missing or unparsable record is treated as the empty state and never
// surfaced as an error: losing in-progress answers is preferable to blocking
// the flow.
func (s *Store) Load(ctx context.Context, key string) (domain.WizardState, error) {
	if err := ctx.Err(); err != nil {
		return domain.WizardState{}, err
	}
	if s == nil || s.db == nil {
		return domain.WizardState{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(key) == "" {
		return domain.WizardState{}, fmt.Errorf("response key is required")
	}

	state := domain.EmptyState()
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(responseBucket))
		if bucket == nil {
			return fmt.Errorf("responses bucket is missing")
		}
		payload := bucket.Get([]byte(key))
		if payload == nil {
			return nil
		}
		var stored domain.WizardState
		if err := json.Unmarshal(payload, &stored); err != nil {
			// Corrupt record: recover with the empty shape.
			return nil
		}
		if stored.Responses == nil {
			stored.Responses = map[string][]domain.Answer{}
		}
		state = stored
		return nil
	})
	if err != nil {
		return domain.WizardState{}, err
	}

	return state, nil
}

// Clear removes the stored wizard state for a campaign instance key.
func (s *Store) Clear(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("response key is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(responseBucket))
		if bucket == nil {
			return fmt.Errorf("responses bucket is missing")
		}
		return bucket.Delete([]byte(key))
	})
}

// AppendTelemetryEvent stores a telemetry event under a monotonic sequence.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal telemetry event: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(telemetryBucket))
		if bucket == nil {
			return fmt.Errorf("telemetry bucket is missing")
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("next telemetry sequence: %w", err)
		}
		return bucket.Put(telemetryKey(seq), payload)
	})
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{responseBucket, telemetryBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func telemetryKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
