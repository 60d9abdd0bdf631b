package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrNilUseCase is returned when a nil use case is validated or transformed.
	ErrNilUseCase = errors.New("use case is nil")
	// ErrUnknownKind is returned when a serialized sentence carries an unknown kind tag.
	ErrUnknownKind = errors.New("unknown sentence kind")
	// ErrUnknownTransaction is returned for an unrecognized transaction kind.
	ErrUnknownTransaction = errors.New("unknown transaction kind")
	// ErrDuplicateStepID is returned when two sentences share an id.
	ErrDuplicateStepID = errors.New("duplicate step id")
	// ErrMissingStepID is returned when a sentence has no id.
	ErrMissingStepID = errors.New("missing step id")
	// ErrUnknownResumeTarget is returned when a resume step names a step that does not exist.
	ErrUnknownResumeTarget = errors.New("resume target not found")
	// ErrNodeIDCollision is returned when two distinct step ids would produce the same
	// activity node id.
	ErrNodeIDCollision = errors.New("step ids produce the same node id")
)

// AggregateError collects every failure found while validating a use case.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
