package usecase

import (
	"errors"
	"fmt"
)

// Validate checks the structural rules a use case must satisfy before it can be
// transformed. All failures are collected into an *AggregateError.
func Validate(uc *UseCase) error {
	if uc == nil {
		return ErrNilUseCase
	}

	var errs []error
	if uc.Name == "" {
		errs = append(errs, errors.New("use case name is required"))
	}

	seen := make(map[string]bool)
	owners := make(map[string]string)
	var resumes []ResumeStep
	uc.Walk(func(s Sentence) bool {
		id := s.Meta().ID
		switch {
		case id == "":
			errs = append(errs, fmt.Errorf("%w: %s sentence %q", ErrMissingStepID, s.Kind(), s.Meta().Content))
		case seen[id]:
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateStepID, id))
		default:
			seen[id] = true
			for _, nodeID := range nodeIDs(s) {
				if owner, ok := owners[nodeID]; ok {
					errs = append(errs, fmt.Errorf("%w: %q and %q both yield %q", ErrNodeIDCollision, owner, id, nodeID))
					continue
				}
				owners[nodeID] = id
			}
		}

		switch v := s.(type) {
		case Simple:
			if !v.Transaction.Valid() {
				errs = append(errs, fmt.Errorf("step %q: %w: %d", id, ErrUnknownTransaction, int(v.Transaction)))
			}
		case ResumeStep:
			resumes = append(resumes, v)
		}
		return true
	})

	for _, r := range resumes {
		if !seen[r.Target] {
			errs = append(errs, fmt.Errorf("step %q: %w: %q", r.ID, ErrUnknownResumeTarget, r.Target))
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// nodeIDs lists the fixed node ids a sentence is lowered into, in either mode.
func nodeIDs(s Sentence) []string {
	id := s.Meta().ID
	switch s.(type) {
	case Simple:
		return []string{"action_" + id}
	case ConditionCheck:
		return []string{"check_" + id, "decision_" + id, "merge_" + id, "alt_behavior_" + id}
	case Conditional:
		return []string{"conditional_" + id, "merge_conditional_" + id, "then_behavior_" + id, "else_behavior_" + id}
	case Parallel:
		return []string{"fork_" + id, "join_" + id}
	case Iterative:
		return []string{"loop_decision_" + id}
	case Include:
		return []string{"include_" + id}
	case Extend:
		return []string{"extend_" + id}
	case Abort:
		return []string{"abort_" + id}
	}
	return nil
}
