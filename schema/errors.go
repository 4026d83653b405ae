package schema

import (
	"fmt"
	"strings"
)

// UnknownInstrumentError indicates the instrument key is not registered.
type UnknownInstrumentError struct {
	Key string
}

func (e *UnknownInstrumentError) Error() string {
	return fmt.Sprintf("unknown instrument %q", e.Key)
}

// MissingResponseError lists every question id of the definition that has no answer.
type MissingResponseError struct {
	InstrumentKey string
	Missing       []string
}

func (e *MissingResponseError) Error() string {
	return fmt.Sprintf("missing responses for %s: %s", e.InstrumentKey, strings.Join(e.Missing, ", "))
}

// InsufficientHistoryError indicates a trend was requested with no history.
// Callers should treat it as "no trend yet" rather than a failure.
type InsufficientHistoryError struct {
	InstrumentKey string
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history for %s", e.InstrumentKey)
}

// InvalidResponseError lists answers that are non-numeric or out of range.
// It is only returned under the reject answer policy.
type InvalidResponseError struct {
	InstrumentKey string
	Invalid       []string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid responses for %s: %s", e.InstrumentKey, strings.Join(e.Invalid, ", "))
}

// UnknownQuestionError lists response keys that the definition does not declare.
// It is only returned under the reject answer policy.
type UnknownQuestionError struct {
	InstrumentKey string
	Unknown       []string
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("unknown questions for %s: %s", e.InstrumentKey, strings.Join(e.Unknown, ", "))
}

// DefinitionError indicates a malformed instrument definition.
type DefinitionError struct {
	Key    string
	Reason string
}

func (e *DefinitionError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid definition: %s", e.Reason)
	}
	return fmt.Sprintf("invalid definition %s: %s", e.Key, e.Reason)
}
