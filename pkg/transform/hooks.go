package transform

import (
	"time"

	"github.com/CodeQwQ/ucflow/pkg/usecase"
)

// SentenceEvent is emitted after a sentence has been lowered.
type SentenceEvent struct {
	UseCase string
	StepID  string
	Kind    usecase.Kind
	// Exit is the node control continues from; empty when the sentence has no exit.
	Exit string
}

// CompleteEvent is emitted once per Transform call, on success and on failure.
type CompleteEvent struct {
	UseCase  string
	Mode     Mode
	Nodes    int
	Edges    int
	Duration time.Duration
	Err      error
}

// Hooks defines callbacks for observing transformations. Nil callbacks are skipped.
type Hooks struct {
	OnSentence func(SentenceEvent)
	OnComplete func(CompleteEvent)
}
