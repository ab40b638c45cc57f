package mediacatalog

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrRecordNotFound indicates a catalog record was not found
	ErrRecordNotFound = errors.New("catalog record not found")

	// ErrUnknownAssetClass indicates an unrecognized asset class
	ErrUnknownAssetClass = errors.New("unknown asset class")

	// ErrUnknownMediaType indicates an unrecognized gallery media type
	ErrUnknownMediaType = errors.New("unknown media type")

	// ErrUnknownProvenance indicates an unrecognized provenance mode
	ErrUnknownProvenance = errors.New("unknown provenance")
)

// ValidationReason distinguishes why a create request was rejected.
type ValidationReason string

// Validation reason constants (typed).
const (
	ReasonUnsupportedType ValidationReason = "unsupported_type"
	ReasonTooLarge        ValidationReason = "too_large"
	ReasonMissingField    ValidationReason = "missing_field"
	ReasonMalformedURL    ValidationReason = "malformed_url"
)

// ValidationError rejects a create request before any side effect occurs.
// Always recoverable by the caller; reported as a 400-class failure.
type ValidationError struct {
	Reason ValidationReason
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("validation failed (%s) on %s: %s", e.Reason, e.Field, e.Detail)
	}
	return fmt.Sprintf("validation failed (%s) on %s", e.Reason, e.Field)
}

// StorageError represents a failed object-store operation. Fatal to the
// enclosing create: no catalog write follows a failed store write.
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// PersistenceError represents a failed catalog-store operation. On create it
// may leave an orphan stored object; that inconsistency is accepted rather
// than compensated.
type PersistenceError struct {
	Store string
	Op    string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("catalog operation %s failed on store %s: %v", e.Op, e.Store, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ConfigurationError indicates a required backend setting is missing or
// unusable. Raised at construction time so the process fails loudly instead
// of degrading at first use.
type ConfigurationError struct {
	Component string
	Setting   string
	Err       error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error in %s (%s): %v", e.Component, e.Setting, e.Err)
	}
	return fmt.Sprintf("configuration error in %s: %s is required", e.Component, e.Setting)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
