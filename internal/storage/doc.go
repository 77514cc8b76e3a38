// Package storage defines the persistence interfaces for the wizard.
//
// It provides the local response store that keeps one in-progress
// WizardState record per campaign instance, plus the telemetry event sink.
// Implementations of these interfaces live in subpackages (bbolt, memory).
//
// # Error Types
//
// The package defines common error types used across storage implementations:
//   - ErrNotFound: Indicates a requested record is missing.
package storage
