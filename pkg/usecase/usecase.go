package usecase

// UseCase is the root of a UCMeta description.
type UseCase struct {
	Name          string
	Description   string
	Preconditions []string
	// Postconditions hold after a successful run of the main flow.
	Postconditions []string
	MainFlow       []Sentence
	// GlobalAlternativeFlows may interrupt the main flow at any point.
	GlobalAlternativeFlows []GlobalAlternativeFlow
}

// GlobalAlternativeFlow is a flow triggered by an event rather than reached from a step.
type GlobalAlternativeFlow struct {
	TriggerEvent string
	Sentences    []Sentence
}

// Walk visits every sentence of the use case depth first, main flow before the global
// flows, in declaration order. Nil entries are skipped. Returning false from fn stops
// the walk.
func (uc *UseCase) Walk(fn func(Sentence) bool) {
	if !walkList(uc.MainFlow, fn) {
		return
	}
	for _, gf := range uc.GlobalAlternativeFlows {
		if !walkList(gf.Sentences, fn) {
			return
		}
	}
}

// StepIDs returns every sentence id in walk order.
func (uc *UseCase) StepIDs() []string {
	var ids []string
	uc.Walk(func(s Sentence) bool {
		ids = append(ids, s.Meta().ID)
		return true
	})
	return ids
}

func walkList(list []Sentence, fn func(Sentence) bool) bool {
	for _, s := range list {
		if s == nil {
			continue
		}
		if !fn(s) {
			return false
		}
		for _, child := range s.Children() {
			if !walkList(child, fn) {
				return false
			}
		}
	}
	return true
}
