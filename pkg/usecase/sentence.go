package usecase

// Kind is the variant tag of a Sentence. It is also the discriminator used in
// serialized use cases.
type Kind string

const (
	KindSimple         Kind = "simple"
	KindConditionCheck Kind = "condition_check"
	KindConditional    Kind = "conditional"
	KindParallel       Kind = "parallel"
	KindIterative      Kind = "iterative"
	KindInclude        Kind = "include"
	KindExtend         Kind = "extend"
	KindAbort          Kind = "abort"
	KindResumeStep     Kind = "resume_step"
)

// Kinds lists every sentence kind in declaration order.
var Kinds = []Kind{
	KindSimple, KindConditionCheck, KindConditional, KindParallel, KindIterative,
	KindInclude, KindExtend, KindAbort, KindResumeStep,
}

// Sentence is one step or control construct of a flow.
// The set of implementations is closed to this package.
type Sentence interface {
	Kind() Kind
	Meta() Base
	// Children returns the nested sentence lists in lowering order.
	Children() [][]Sentence
	sentence()
}

// Base holds the fields shared by all sentence variants.
type Base struct {
	ID      string
	Content string
}

func (b Base) Meta() Base { return b }

func (Base) sentence() {}

// Simple is a single actor/action/object step.
type Simple struct {
	Base
	Actor       string
	Action      string
	Object      string
	Transaction TransactionKind
}

func (Simple) Kind() Kind { return KindSimple }
func (Simple) Children() [][]Sentence { return nil }

// ConditionCheck validates Condition; the alternative flow runs when it does not hold.
type ConditionCheck struct {
	Base
	Condition       string
	AlternativeFlow []Sentence
}

func (ConditionCheck) Kind() Kind { return KindConditionCheck }

func (s ConditionCheck) Children() [][]Sentence { return [][]Sentence{s.AlternativeFlow} }

// ElseIfBranch is one guarded alternative of a Conditional.
type ElseIfBranch struct {
	Condition string
	Sentences []Sentence
}

// Conditional is an if / else-if / else construct.
type Conditional struct {
	Base
	Condition      string
	Then           []Sentence
	Else           []Sentence
	ElseIfBranches []ElseIfBranch
}

func (Conditional) Kind() Kind { return KindConditional }

// Children returns then, else (when present) and the else-if branches, the order in
// which they are lowered.
func (s Conditional) Children() [][]Sentence {
	out := [][]Sentence{s.Then}
	if len(s.Else) > 0 {
		out = append(out, s.Else)
	}
	for _, b := range s.ElseIfBranches {
		out = append(out, b.Sentences)
	}
	return out
}

// Parallel runs its branches concurrently. Branches may be empty.
type Parallel struct {
	Base
	Branches [][]Sentence
}

func (Parallel) Kind() Kind { return KindParallel }

func (s Parallel) Children() [][]Sentence { return s.Branches }

// Iterative repeats Body while Condition holds.
type Iterative struct {
	Base
	Condition string
	Body      []Sentence
}

func (Iterative) Kind() Kind { return KindIterative }

func (s Iterative) Children() [][]Sentence { return [][]Sentence{s.Body} }

// Include references a use case whose behavior is inserted at this point.
type Include struct {
	Base
	UseCase string
}

func (Include) Kind() Kind { return KindInclude }
func (Include) Children() [][]Sentence { return nil }

// Extend marks an extension point taken over by another use case.
type Extend struct {
	Base
	UseCase string
}

func (Extend) Kind() Kind { return KindExtend }
func (Extend) Children() [][]Sentence { return nil }

// Abort ends the flow abnormally.
type Abort struct {
	Base
}

func (Abort) Kind() Kind { return KindAbort }
func (Abort) Children() [][]Sentence { return nil }

// ResumeStep transfers control back to the step identified by Target.
type ResumeStep struct {
	Base
	Target string
}

func (ResumeStep) Kind() Kind { return KindResumeStep }
func (ResumeStep) Children() [][]Sentence { return nil }
