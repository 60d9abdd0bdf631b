package transform

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/CodeQwQ/ucflow/pkg/activity"
	"github.com/CodeQwQ/ucflow/pkg/usecase"
)

// noExit marks a sentence after which control does not continue.
const noExit = ""

// inlet is where a sentence is entered from. The guard labels the entering edge and is
// only set for the first sentence of a decision branch.
type inlet struct {
	from  string
	guard string
}

// segment is the result of lowering a sentence list.
type segment struct {
	exit string
	// guard is the inlet guard left unconsumed when the list was empty.
	guard string
	// aborted reports that the list ends in an Abort.
	aborted bool
}

type pendingResume struct {
	stepID string
	from   string
	target string
	guard  string
}

// run is the state of one Transform call.
type run struct {
	engine  *Engine
	uc      *usecase.UseCase
	g       *activity.Graph
	logger  *slog.Logger
	counter int
	steps   map[string]string
	pending []pendingResume
}

func newRun(e *Engine, uc *usecase.UseCase) *run {
	return &run{
		engine: e,
		uc:     uc,
		g:      activity.New(uc.Name),
		logger: e.logger.With("usecase", uc.Name),
		steps:  make(map[string]string),
	}
}

func (r *run) next() int {
	n := r.counter
	r.counter++
	return n
}

func (r *run) connect(from, to, guard string) error {
	if from == noExit {
		return nil
	}
	_, err := r.g.CreateEdge(fmt.Sprintf("flow_%d", r.next()), from, to, guard)
	return err
}

func (r *run) node(id string, kind activity.NodeKind, label string, opts ...activity.NodeOption) error {
	_, err := r.g.CreateNode(id, kind, label, opts...)
	return err
}

func (r *run) lowerUseCase() error {
	uc := r.uc
	for _, p := range uc.Preconditions {
		r.g.AddPrecondition(fmt.Sprintf("Precondition_%d", r.next()), p)
	}

	start := "start_" + uc.Name
	if err := r.node(start, activity.KindInitial, "Start"); err != nil {
		return err
	}

	main, err := r.lowerList(uc.MainFlow, inlet{from: start})
	if err != nil {
		return err
	}

	end := "end_" + uc.Name
	if err := r.node(end, activity.KindFinal, "End"); err != nil {
		return err
	}
	if main.exit != noExit && main.exit != end {
		if _, err := r.g.CreateEdge("flow_to_end", main.exit, end, main.guard); err != nil {
			return err
		}
	}

	for _, p := range uc.Postconditions {
		r.g.AddPostcondition(fmt.Sprintf("Postcondition_%d", r.next()), p)
	}

	for _, gf := range uc.GlobalAlternativeFlows {
		event := fmt.Sprintf("global_event_%d", r.next())
		if err := r.node(event, activity.KindAcceptEvent, "Trigger: "+gf.TriggerEvent); err != nil {
			return err
		}
		if _, err := r.lowerList(gf.Sentences, inlet{from: event}); err != nil {
			return err
		}
	}

	return r.resolvePending()
}

func (r *run) lowerList(list []usecase.Sentence, in inlet) (segment, error) {
	if len(list) == 0 {
		return segment{exit: in.from, guard: in.guard}, nil
	}
	cur := in
	for _, s := range list {
		exit, err := r.lower(s, cur)
		if err != nil {
			return segment{}, err
		}
		cur = inlet{from: exit}
	}
	_, aborted := list[len(list)-1].(usecase.Abort)
	return segment{exit: cur.from, aborted: aborted}, nil
}

// lower dispatches on the sentence variant and returns the exit node id.
func (r *run) lower(s usecase.Sentence, in inlet) (string, error) {
	if s == nil {
		return noExit, ErrUnknownSentenceVariant
	}

	var (
		exit string
		err  error
	)
	switch v := s.(type) {
	case usecase.Simple:
		exit, err = r.lowerSimple(v, in)
	case usecase.ConditionCheck:
		exit, err = r.lowerConditionCheck(v, in)
	case usecase.Conditional:
		exit, err = r.lowerConditional(v, in)
	case usecase.Parallel:
		exit, err = r.lowerParallel(v, in)
	case usecase.Iterative:
		exit, err = r.lowerIterative(v, in)
	case usecase.Include:
		exit, err = r.lowerSubflow(v.Base, "include_", "Include: ", v.UseCase, in)
	case usecase.Extend:
		exit, err = r.lowerSubflow(v.Base, "extend_", "Extended by: ", v.UseCase, in)
	case usecase.Abort:
		exit, err = r.lowerAbort(v, in)
	case usecase.ResumeStep:
		exit, err = r.lowerResume(v, in)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownSentenceVariant, s)
	}
	if err != nil {
		var stepErr *StepError
		if errors.As(err, &stepErr) {
			return noExit, err
		}
		return noExit, &StepError{StepID: s.Meta().ID, Kind: s.Kind(), Err: err}
	}

	r.logger.Debug("sentence lowered", "step", s.Meta().ID, "kind", string(s.Kind()), "exit", exit)
	if r.engine.hooks.OnSentence != nil {
		r.engine.hooks.OnSentence(SentenceEvent{
			UseCase: r.uc.Name,
			StepID:  s.Meta().ID,
			Kind:    s.Kind(),
			Exit:    exit,
		})
	}
	return exit, nil
}

// enter creates the entry node of a sentence, records it as the resume target of the
// step and connects it to the inlet.
func (r *run) enter(stepID, id string, kind activity.NodeKind, label string, in inlet, opts ...activity.NodeOption) error {
	if err := r.node(id, kind, label, opts...); err != nil {
		return err
	}
	r.steps[stepID] = id
	return r.connect(in.from, id, in.guard)
}

func (r *run) lowerSimple(s usecase.Simple, in inlet) (string, error) {
	id := "action_" + s.ID
	if err := r.enter(s.ID, id, activity.KindAction, s.Content, in); err != nil {
		return noExit, err
	}

	switch s.Transaction {
	case usecase.Initiation, usecase.ResponseToPrimaryActor, usecase.ResponseToSecondaryActor:
		if err := r.g.AddOutputPin(id, "output", s.Object); err != nil {
			return noExit, err
		}
	case usecase.InternalTransaction:
		if err := r.g.AddInputPin(id, "input", s.Object); err != nil {
			return noExit, err
		}
		if err := r.g.AddOutputPin(id, "output", s.Object); err != nil {
			return noExit, err
		}
	}
	return id, nil
}

func (r *run) lowerConditionCheck(s usecase.ConditionCheck, in inlet) (string, error) {
	check := "check_" + s.ID
	if err := r.enter(s.ID, check, activity.KindAction, s.Content, in); err != nil {
		return noExit, err
	}

	decision := "decision_" + s.ID
	if err := r.node(decision, activity.KindDecision, s.Condition); err != nil {
		return noExit, err
	}
	if err := r.connect(check, decision, ""); err != nil {
		return noExit, err
	}

	merge := "merge_" + s.ID
	if err := r.node(merge, activity.KindMerge, "Merge"); err != nil {
		return noExit, err
	}

	if r.engine.mode == Overview {
		sub := "alt_behavior_" + s.ID
		if err := r.collapse(sub, "Alternative Flow", s.ID+"/alternative", decision, merge, "alternative"); err != nil {
			return noExit, err
		}
	} else if err := r.branch(s.AlternativeFlow, inlet{from: decision, guard: "alternative"}, merge, "alternative"); err != nil {
		return noExit, err
	}

	if err := r.connect(decision, merge, "main"); err != nil {
		return noExit, err
	}
	if err := r.g.AddInputPin(check, "condition_input", "Boolean"); err != nil {
		return noExit, err
	}
	return merge, nil
}

func (r *run) lowerConditional(s usecase.Conditional, in inlet) (string, error) {
	decision := "conditional_" + s.ID
	if err := r.enter(s.ID, decision, activity.KindDecision, s.Condition, in); err != nil {
		return noExit, err
	}
	merge := "merge_conditional_" + s.ID
	if err := r.node(merge, activity.KindMerge, "Merge"); err != nil {
		return noExit, err
	}

	thenGuard := guardOr(s.Condition, "then")
	if r.engine.mode == Overview {
		if err := r.collapse("then_behavior_"+s.ID, "Then Branch", s.ID+"/then", decision, merge, thenGuard); err != nil {
			return noExit, err
		}
		if len(s.Else) > 0 {
			if err := r.collapse("else_behavior_"+s.ID, "Else Branch", s.ID+"/else", decision, merge, "else"); err != nil {
				return noExit, err
			}
		}
		for i, b := range s.ElseIfBranches {
			sub := fmt.Sprintf("elseif_behavior_%s_%d", s.ID, r.next())
			ref := fmt.Sprintf("%s/elseif/%d", s.ID, i)
			if err := r.collapse(sub, "ElseIf Branch", ref, decision, merge, guardOr(b.Condition, "elseif")); err != nil {
				return noExit, err
			}
		}
		return merge, nil
	}

	if err := r.branch(s.Then, inlet{from: decision, guard: thenGuard}, merge, ""); err != nil {
		return noExit, err
	}
	if len(s.Else) > 0 {
		if err := r.branch(s.Else, inlet{from: decision, guard: "else"}, merge, ""); err != nil {
			return noExit, err
		}
	}
	for _, b := range s.ElseIfBranches {
		if err := r.branch(b.Sentences, inlet{from: decision, guard: guardOr(b.Condition, "elseif")}, merge, ""); err != nil {
			return noExit, err
		}
	}
	return merge, nil
}

func (r *run) lowerParallel(s usecase.Parallel, in inlet) (string, error) {
	fork := "fork_" + s.ID
	if err := r.enter(s.ID, fork, activity.KindFork, "Fork", in); err != nil {
		return noExit, err
	}
	join := "join_" + s.ID
	if err := r.node(join, activity.KindJoin, "Join"); err != nil {
		return noExit, err
	}
	for _, b := range s.Branches {
		if err := r.branch(b, inlet{from: fork}, join, ""); err != nil {
			return noExit, err
		}
	}
	return join, nil
}

func (r *run) lowerIterative(s usecase.Iterative, in inlet) (string, error) {
	decision := "loop_decision_" + s.ID
	if err := r.enter(s.ID, decision, activity.KindDecision, s.Condition, in); err != nil {
		return noExit, err
	}
	body, err := r.lowerList(s.Body, inlet{from: decision, guard: s.Condition})
	if err != nil {
		return noExit, err
	}
	// The back-edge leaves whatever the body exits on, an Abort or a resume target included.
	if err := r.connect(body.exit, decision, "continue"); err != nil {
		return noExit, err
	}
	return decision, nil
}

func (r *run) lowerSubflow(b usecase.Base, prefix, labelPrefix, ref string, in inlet) (string, error) {
	id := prefix + b.ID
	if err := r.enter(b.ID, id, activity.KindAction, labelPrefix+ref, in, activity.WithBehavior(ref)); err != nil {
		return noExit, err
	}
	return id, nil
}

func (r *run) lowerAbort(s usecase.Abort, in inlet) (string, error) {
	id := "abort_" + s.ID
	if err := r.node(id, activity.KindFlowFinal, s.Content); err != nil {
		return noExit, err
	}
	if err := r.connect(in.from, id, in.guard); err != nil {
		return noExit, err
	}
	return id, nil
}

func (r *run) lowerResume(s usecase.ResumeStep, in inlet) (string, error) {
	guard := guardOr(in.guard, "resume")
	target, ok := r.steps[s.Target]
	if ok {
		if in.from != noExit {
			id := fmt.Sprintf("flow_resume_%d", r.next())
			if _, err := r.g.CreateEdge(id, in.from, target, guard); err != nil {
				return noExit, err
			}
		}
		return target, nil
	}

	switch r.engine.resume {
	case ResumeDrop:
		r.logger.Warn("dropping forward resume", "step", s.ID, "target", s.Target)
		return noExit, nil
	case ResumeDeferred:
		if in.from != noExit {
			r.pending = append(r.pending, pendingResume{stepID: s.ID, from: in.from, target: s.Target, guard: guard})
		}
		return noExit, nil
	default:
		return noExit, fmt.Errorf("%w: target %q has not been lowered yet", ErrForwardResume, s.Target)
	}
}

func (r *run) resolvePending() error {
	for _, p := range r.pending {
		target, ok := r.steps[p.target]
		if !ok {
			return &StepError{
				StepID: p.stepID,
				Kind:   usecase.KindResumeStep,
				Err:    fmt.Errorf("%w: %q", ErrUnresolvedResume, p.target),
			}
		}
		id := fmt.Sprintf("flow_resume_%d", r.next())
		if _, err := r.g.CreateEdge(id, p.from, target, p.guard); err != nil {
			return err
		}
		r.logger.Debug("deferred resume patched", "step", p.stepID, "target", target)
	}
	r.pending = nil
	return nil
}

// branch lowers one decision or fork branch and reconverges it at to unless the
// branch ends in an Abort.
func (r *run) branch(list []usecase.Sentence, in inlet, to, closeGuard string) error {
	seg, err := r.lowerList(list, in)
	if err != nil {
		return err
	}
	if seg.aborted || seg.exit == noExit {
		return nil
	}
	return r.connect(seg.exit, to, guardOr(closeGuard, seg.guard))
}

// collapse lowers a branch in Overview mode as one call-behavior action.
func (r *run) collapse(id, label, ref, from, to, guard string) error {
	if err := r.node(id, activity.KindAction, label, activity.WithBehavior(ref)); err != nil {
		return err
	}
	if err := r.connect(from, id, guard); err != nil {
		return err
	}
	return r.connect(id, to, "")
}

func guardOr(guard, fallback string) string {
	if guard != "" {
		return guard
	}
	return fallback
}
