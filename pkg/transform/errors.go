package transform

import (
	"errors"
	"fmt"

	"github.com/CodeQwQ/ucflow/pkg/usecase"
)

var (
	// ErrUnknownSentenceVariant is returned when dispatch meets a sentence it cannot lower.
	ErrUnknownSentenceVariant = errors.New("unknown sentence variant")
	// ErrForwardResume is returned under ResumeStrict when a resume step targets a step
	// that has not been lowered yet.
	ErrForwardResume = errors.New("forward resume unsupported")
	// ErrUnresolvedResume is returned under ResumeDeferred when a pending resume target
	// never appears in the use case.
	ErrUnresolvedResume = errors.New("unresolved resume target")
)

// StepError attributes a lowering failure to the sentence that caused it.
type StepError struct {
	StepID string
	Kind   usecase.Kind
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q (%s): %v", e.StepID, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
