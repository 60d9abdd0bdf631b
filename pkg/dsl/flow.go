package dsl

import "github.com/CodeQwQ/ucflow/pkg/usecase"

// Flow collects the sentences of one list.
type Flow struct {
	sentences []usecase.Sentence
}

func collect(fn func(f *Flow)) []usecase.Sentence {
	if fn == nil {
		return nil
	}
	f := &Flow{}
	fn(f)
	return f.sentences
}

func (f *Flow) add(s usecase.Sentence) int {
	f.sentences = append(f.sentences, s)
	return len(f.sentences) - 1
}

// Step appends a Simple sentence. It defaults to an Initiation transaction.
func (f *Flow) Step(id, content string) *StepBuilder {
	i := f.add(usecase.Simple{Base: usecase.Base{ID: id, Content: content}})
	return &StepBuilder{flow: f, index: i}
}

// Check appends a ConditionCheck; alt describes the alternative flow.
func (f *Flow) Check(id, content, condition string, alt func(f *Flow)) *Flow {
	f.add(usecase.ConditionCheck{
		Base:            usecase.Base{ID: id, Content: content},
		Condition:       condition,
		AlternativeFlow: collect(alt),
	})
	return f
}

// If appends a Conditional with its then branch.
func (f *Flow) If(id, condition string, then func(f *Flow)) *IfBuilder {
	i := f.add(usecase.Conditional{
		Base:      usecase.Base{ID: id},
		Condition: condition,
		Then:      collect(then),
	})
	return &IfBuilder{flow: f, index: i}
}

// Parallel appends a Parallel with one branch per function.
func (f *Flow) Parallel(id string, branches ...func(f *Flow)) *Flow {
	p := usecase.Parallel{Base: usecase.Base{ID: id}, Branches: make([][]usecase.Sentence, 0, len(branches))}
	for _, b := range branches {
		p.Branches = append(p.Branches, collect(b))
	}
	f.add(p)
	return f
}

// Loop appends an Iterative whose body repeats while condition holds.
func (f *Flow) Loop(id, condition string, body func(f *Flow)) *Flow {
	f.add(usecase.Iterative{
		Base:      usecase.Base{ID: id},
		Condition: condition,
		Body:      collect(body),
	})
	return f
}

// Include appends an Include of the named use case.
func (f *Flow) Include(id, useCase string) *Flow {
	f.add(usecase.Include{Base: usecase.Base{ID: id}, UseCase: useCase})
	return f
}

// Extend appends an Extend by the named use case.
func (f *Flow) Extend(id, useCase string) *Flow {
	f.add(usecase.Extend{Base: usecase.Base{ID: id}, UseCase: useCase})
	return f
}

// Abort appends an Abort.
func (f *Flow) Abort(id, content string) *Flow {
	f.add(usecase.Abort{Base: usecase.Base{ID: id, Content: content}})
	return f
}

// Resume appends a ResumeStep jumping to target.
func (f *Flow) Resume(id, target string) *Flow {
	f.add(usecase.ResumeStep{Base: usecase.Base{ID: id}, Target: target})
	return f
}

// Sentences returns the collected list.
func (f *Flow) Sentences() []usecase.Sentence {
	return f.sentences
}

// StepBuilder configures the Simple sentence last added by Flow.Step.
type StepBuilder struct {
	flow  *Flow
	index int
}

func (s *StepBuilder) update(fn func(*usecase.Simple)) *StepBuilder {
	v := s.flow.sentences[s.index].(usecase.Simple)
	fn(&v)
	s.flow.sentences[s.index] = v
	return s
}

// By sets the actor, action and object.
func (s *StepBuilder) By(actor, action, object string) *StepBuilder {
	return s.update(func(v *usecase.Simple) {
		v.Actor = actor
		v.Action = action
		v.Object = object
	})
}

// Transaction sets the transaction kind.
func (s *StepBuilder) Transaction(kind usecase.TransactionKind) *StepBuilder {
	return s.update(func(v *usecase.Simple) { v.Transaction = kind })
}

// Responds marks the step as a response to the primary actor.
func (s *StepBuilder) Responds() *StepBuilder {
	return s.Transaction(usecase.ResponseToPrimaryActor)
}

// Internal marks the step as an internal transaction.
func (s *StepBuilder) Internal() *StepBuilder {
	return s.Transaction(usecase.InternalTransaction)
}

// IfBuilder adds else-if and else branches to the Conditional last added by Flow.If.
type IfBuilder struct {
	flow  *Flow
	index int
}

func (b *IfBuilder) update(fn func(*usecase.Conditional)) *IfBuilder {
	v := b.flow.sentences[b.index].(usecase.Conditional)
	fn(&v)
	b.flow.sentences[b.index] = v
	return b
}

// ElseIf adds a guarded alternative branch.
func (b *IfBuilder) ElseIf(condition string, fn func(f *Flow)) *IfBuilder {
	return b.update(func(v *usecase.Conditional) {
		v.ElseIfBranches = append(v.ElseIfBranches, usecase.ElseIfBranch{
			Condition: condition,
			Sentences: collect(fn),
		})
	})
}

// Else sets the else branch.
func (b *IfBuilder) Else(fn func(f *Flow)) *IfBuilder {
	return b.update(func(v *usecase.Conditional) { v.Else = collect(fn) })
}
