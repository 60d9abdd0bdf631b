package transform_test

import (
	"sync"
	"testing"

	"github.com/CodeQwQ/ucflow/pkg/activity"
	"github.com/CodeQwQ/ucflow/pkg/transform"
	"github.com/CodeQwQ/ucflow/pkg/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simple(id string) usecase.Simple {
	return usecase.Simple{
		Base:   usecase.Base{ID: id, Content: "do " + id},
		Actor:  "User",
		Action: "does",
		Object: id,
	}
}

func edgeBetween(t *testing.T, g *activity.Graph, source, target string) *activity.Edge {
	t.Helper()
	for _, e := range g.Outgoing(source) {
		if e.Target == target {
			return e
		}
	}
	t.Fatalf("no edge %s -> %s", source, target)
	return nil
}

func TestTransform_SequentialSteps(t *testing.T) {
	uc := &usecase.UseCase{
		Name:     "Login",
		MainFlow: []usecase.Sentence{simple("s1"), simple("s2")},
	}

	g, err := transform.New().Transform(uc)
	require.NoError(t, err)

	assert.Equal(t, []string{"start_Login", "action_s1", "action_s2", "end_Login"}, g.NodeIDs())
	assert.Equal(t, 3, g.EdgeCount())
	edgeBetween(t, g, "start_Login", "action_s1")
	edgeBetween(t, g, "action_s1", "action_s2")
	toEnd := edgeBetween(t, g, "action_s2", "end_Login")
	assert.Equal(t, "flow_to_end", toEnd.ID)

	start, _ := g.Node("start_Login")
	assert.Equal(t, activity.KindInitial, start.Kind)
	end, _ := g.Node("end_Login")
	assert.Equal(t, activity.KindFinal, end.Kind)
}

func TestTransform_ConditionCheck(t *testing.T) {
	uc := &usecase.UseCase{
		Name: "Login",
		MainFlow: []usecase.Sentence{
			usecase.ConditionCheck{
				Base:            usecase.Base{ID: "c1", Content: "System checks credentials"},
				Condition:       "credentials valid",
				AlternativeFlow: []usecase.Sentence{simple("a1")},
			},
		},
	}

	t.Run("Overview collapses the alternative flow", func(t *testing.T) {
		g, err := transform.New(transform.WithMode(transform.Overview)).Transform(uc)
		require.NoError(t, err)

		assert.ElementsMatch(t,
			[]string{"start_Login", "check_c1", "decision_c1", "merge_c1", "alt_behavior_c1", "end_Login"},
			g.NodeIDs())
		_, lowered := g.Node("action_a1")
		assert.False(t, lowered)

		edgeBetween(t, g, "check_c1", "decision_c1")
		assert.Equal(t, "main", edgeBetween(t, g, "decision_c1", "merge_c1").Guard)
		assert.Equal(t, "alternative", edgeBetween(t, g, "decision_c1", "alt_behavior_c1").Guard)
		edgeBetween(t, g, "alt_behavior_c1", "merge_c1")
		edgeBetween(t, g, "merge_c1", "end_Login")

		sub, _ := g.Node("alt_behavior_c1")
		assert.Equal(t, activity.CallBehavior, sub.Call)
		assert.Equal(t, "Alternative Flow", sub.Label)

		check, _ := g.Node("check_c1")
		assert.Equal(t, []activity.Pin{{Name: "condition_input", Type: "Boolean"}}, check.InputPins)
	})

	t.Run("Detailed lowers the alternative flow in place", func(t *testing.T) {
		g, err := transform.New().Transform(uc)
		require.NoError(t, err)

		_, collapsed := g.Node("alt_behavior_c1")
		assert.False(t, collapsed)
		assert.Equal(t, "alternative", edgeBetween(t, g, "decision_c1", "action_a1").Guard)
		assert.Equal(t, "alternative", edgeBetween(t, g, "action_a1", "merge_c1").Guard)
		assert.Equal(t, "main", edgeBetween(t, g, "decision_c1", "merge_c1").Guard)
		assert.Len(t, g.Outgoing("decision_c1"), 2)
		assert.Len(t, g.Incoming("merge_c1"), 2)
	})
}

func TestTransform_Parallel(t *testing.T) {
	uc := &usecase.UseCase{
		Name: "Shop",
		MainFlow: []usecase.Sentence{
			usecase.Parallel{
				Base:     usecase.Base{ID: "par"},
				Branches: [][]usecase.Sentence{{simple("p1")}, {simple("p2")}},
			},
		},
	}

	g, err := transform.New().Transform(uc)
	require.NoError(t, err)

	assert.Len(t, g.Outgoing("fork_par"), 2)
	assert.Len(t, g.Incoming("join_par"), 2)
	edgeBetween(t, g, "fork_par", "action_p1")
	edgeBetween(t, g, "fork_par", "action_p2")
	edgeBetween(t, g, "action_p1", "join_par")
	edgeBetween(t, g, "action_p2", "join_par")
	edgeBetween(t, g, "join_par", "end_Shop")
}

func TestTransform_ParallelEmptyBranch(t *testing.T) {
	uc := &usecase.UseCase{
		Name: "Shop",
		MainFlow: []usecase.Sentence{
			usecase.Parallel{
				Base:     usecase.Base{ID: "par"},
				Branches: [][]usecase.Sentence{{simple("p1")}, {}},
			},
		},
	}

	g, err := transform.New().Transform(uc)
	require.NoError(t, err)

	assert.Len(t, g.Outgoing("fork_par"), 2)
	assert.Len(t, g.Incoming("join_par"), 2)
	edgeBetween(t, g, "fork_par", "join_par")
}

func TestTransform_Iterative(t *testing.T) {
	uc := &usecase.UseCase{
		Name: "Upload",
		MainFlow: []usecase.Sentence{
			usecase.Iterative{
				Base:      usecase.Base{ID: "loop"},
				Condition: "more chunks",
				Body:      []usecase.Sentence{simple("b1")},
			},
		},
	}

	g, err := transform.New().Transform(uc)
	require.NoError(t, err)

	decision, ok := g.Node("loop_decision_loop")
	require.True(t, ok)
	assert.Equal(t, activity.KindDecision, decision.Kind)

	assert.Equal(t, "more chunks", edgeBetween(t, g, "loop_decision_loop", "action_b1").Guard)
	assert.Equal(t, "continue", edgeBetween(t, g, "action_b1", "loop_decision_loop").Guard)
	edgeBetween(t, g, "loop_decision_loop", "end_Upload")
}

func TestTransform_IterativeBodyLeavesFlow(t *testing.T) {
	loop := func(last usecase.Sentence) *usecase.UseCase {
		return &usecase.UseCase{
			Name: "Upload",
			MainFlow: []usecase.Sentence{
				simple("s0"),
				usecase.Iterative{
					Base:      usecase.Base{ID: "lp"},
					Condition: "more chunks",
					Body:      []usecase.Sentence{simple("b1"), last},
				},
			},
		}
	}

	t.Run("resume", func(t *testing.T) {
		g, err := transform.New().Transform(loop(usecase.ResumeStep{Base: usecase.Base{ID: "r1"}, Target: "s0"}))
		require.NoError(t, err)

		assert.Equal(t, "resume", edgeBetween(t, g, "action_b1", "action_s0").Guard)
		var back []string
		for _, e := range g.Incoming("loop_decision_lp") {
			if e.Guard == "continue" {
				back = append(back, e.Source)
			}
		}
		assert.Equal(t, []string{"action_s0"}, back)
	})

	t.Run("abort", func(t *testing.T) {
		g, err := transform.New().Transform(loop(usecase.Abort{Base: usecase.Base{ID: "ab", Content: "Give up"}}))
		require.NoError(t, err)

		assert.Equal(t, "continue", edgeBetween(t, g, "abort_ab", "loop_decision_lp").Guard)
	})

	t.Run("dropped forward resume has no back-edge", func(t *testing.T) {
		uc := loop(usecase.ResumeStep{Base: usecase.Base{ID: "r1"}, Target: "s9"})
		uc.MainFlow = append(uc.MainFlow, simple("s9"))
		g, err := transform.New(transform.WithResumePolicy(transform.ResumeDrop)).Transform(uc)
		require.NoError(t, err)

		for _, e := range g.Incoming("loop_decision_lp") {
			assert.NotEqual(t, "continue", e.Guard)
		}
	})
}

func TestTransform_ResumeToEarlierStep(t *testing.T) {
	uc := &usecase.UseCase{
		Name: "Login",
		MainFlow: []usecase.Sentence{
			simple("x1"),
			usecase.ResumeStep{Base: usecase.Base{ID: "r1"}, Target: "x1"},
		},
	}

	g, err := transform.New().Transform(uc)
	require.NoError(t, err)

	assert.Equal(t, []string{"start_Login", "action_x1", "end_Login"}, g.NodeIDs())
	back := edgeBetween(t, g, "action_x1", "action_x1")
	assert.Equal(t, "resume", back.Guard)
	assert.Contains(t, back.ID, "flow_resume_")

	toEnd := edgeBetween(t, g, "action_x1", "end_Login")
	assert.Equal(t, "flow_to_end", toEnd.ID)
	assert.Len(t, g.Incoming("end_Login"), 1)
	assert.Len(t, g.Edges(), 3)
}

func TestTransform_Conditional(t *testing.T) {
	cond := usecase.Conditional{
		Base:      usecase.Base{ID: "k"},
		Condition: "payment by card",
		Then:      []usecase.Sentence{simple("t1")},
		Else:      []usecase.Sentence{simple("e1")},
		ElseIfBranches: []usecase.ElseIfBranch{
			{Condition: "payment by voucher", Sentences: []usecase.Sentence{simple("v1")}},
		},
	}
	uc := &usecase.UseCase{Name: "Pay", MainFlow: []usecase.Sentence{cond}}

	t.Run("Detailed", func(t *testing.T) {
		g, err := transform.New().Transform(uc)
		require.NoError(t, err)

		assert.Len(t, g.Outgoing("conditional_k"), 3)
		assert.Len(t, g.Incoming("merge_conditional_k"), 3)
		assert.Equal(t, "payment by card", edgeBetween(t, g, "conditional_k", "action_t1").Guard)
		assert.Equal(t, "else", edgeBetween(t, g, "conditional_k", "action_e1").Guard)
		assert.Equal(t, "payment by voucher", edgeBetween(t, g, "conditional_k", "action_v1").Guard)
	})

	t.Run("Overview", func(t *testing.T) {
		g, err := transform.New(transform.WithMode(transform.Overview)).Transform(uc)
		require.NoError(t, err)

		assert.Len(t, g.Outgoing("conditional_k"), 3)
		assert.Len(t, g.Incoming("merge_conditional_k"), 3)
		edgeBetween(t, g, "conditional_k", "then_behavior_k")
		edgeBetween(t, g, "conditional_k", "else_behavior_k")
		for _, e := range g.Outgoing("conditional_k") {
			n, _ := g.Node(e.Target)
			assert.Equal(t, activity.CallBehavior, n.Call, e.Target)
		}
	})

	t.Run("empty else is not emitted", func(t *testing.T) {
		noElse := cond
		noElse.Else = nil
		g, err := transform.New().Transform(&usecase.UseCase{Name: "Pay", MainFlow: []usecase.Sentence{noElse}})
		require.NoError(t, err)
		assert.Len(t, g.Outgoing("conditional_k"), 2)
	})
}

func TestTransform_SubflowsAndAbort(t *testing.T) {
	uc := &usecase.UseCase{
		Name: "Shop",
		MainFlow: []usecase.Sentence{
			usecase.Include{Base: usecase.Base{ID: "i1"}, UseCase: "Login"},
			usecase.Extend{Base: usecase.Base{ID: "x1"}, UseCase: "ApplyCoupon"},
			usecase.Abort{Base: usecase.Base{ID: "ab", Content: "Cancel"}},
		},
	}

	g, err := transform.New().Transform(uc)
	require.NoError(t, err)

	inc, ok := g.Node("include_i1")
	require.True(t, ok)
	assert.Equal(t, "Include: Login", inc.Label)
	assert.Equal(t, "Login", inc.Ref)
	assert.Equal(t, activity.CallBehavior, inc.Call)

	ext, ok := g.Node("extend_x1")
	require.True(t, ok)
	assert.Equal(t, "Extended by: ApplyCoupon", ext.Label)

	abort, ok := g.Node("abort_ab")
	require.True(t, ok)
	assert.Equal(t, activity.KindFlowFinal, abort.Kind)
	edgeBetween(t, g, "extend_x1", "abort_ab")
	assert.Equal(t, "flow_to_end", edgeBetween(t, g, "abort_ab", "end_Shop").ID)
}

func TestTransform_Pins(t *testing.T) {
	internal := simple("s1")
	internal.Transaction = usecase.InternalTransaction
	response := simple("s2")
	response.Transaction = usecase.ResponseToPrimaryActor

	g, err := transform.Transform(&usecase.UseCase{
		Name:     "Pins",
		MainFlow: []usecase.Sentence{internal, response},
	}, transform.Detailed)
	require.NoError(t, err)

	n, _ := g.Node("action_s1")
	assert.Equal(t, []activity.Pin{{Name: "input", Type: "s1"}}, n.InputPins)
	assert.Equal(t, []activity.Pin{{Name: "output", Type: "s1"}}, n.OutputPins)

	n, _ = g.Node("action_s2")
	assert.Empty(t, n.InputPins)
	assert.Equal(t, []activity.Pin{{Name: "output", Type: "s2"}}, n.OutputPins)
}

func TestTransform_ConditionsAndGlobalFlows(t *testing.T) {
	uc := &usecase.UseCase{
		Name:           "Login",
		Preconditions:  []string{"user registered"},
		Postconditions: []string{"user logged in"},
		MainFlow:       []usecase.Sentence{simple("s1")},
		GlobalAlternativeFlows: []usecase.GlobalAlternativeFlow{
			{TriggerEvent: "timeout", Sentences: []usecase.Sentence{simple("g1")}},
		},
	}

	g, err := transform.New().Transform(uc)
	require.NoError(t, err)

	assert.Equal(t, []activity.Condition{{Name: "Precondition_0", Specification: "user registered"}}, g.Preconditions())
	require.Len(t, g.Postconditions(), 1)
	assert.Equal(t, "user logged in", g.Postconditions()[0].Specification)

	var event *activity.Node
	for _, n := range g.Nodes() {
		if n.Kind == activity.KindAcceptEvent {
			event = n
		}
	}
	require.NotNil(t, event)
	assert.Equal(t, "Trigger: timeout", event.Label)
	edgeBetween(t, g, event.ID, "action_g1")
	assert.Empty(t, g.Outgoing("action_g1"), "global flows stay disconnected from the final node")
}

func TestTransform_Determinism(t *testing.T) {
	uc := sampleUseCase()
	engine := transform.New(transform.WithMode(transform.Detailed))

	first, err := engine.Transform(uc)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*activity.Graph, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g, err := engine.Transform(uc)
			assert.NoError(t, err)
			results[i] = g
		}(i)
	}
	wg.Wait()

	for _, g := range results {
		require.NotNil(t, g)
		assert.Equal(t, first.NodeIDs(), g.NodeIDs())
		assert.Equal(t, first.Edges(), g.Edges())
	}
}

func TestTransform_Failures(t *testing.T) {
	t.Run("nil use case", func(t *testing.T) {
		g, err := transform.New().Transform(nil)
		assert.Nil(t, g)
		assert.ErrorIs(t, err, usecase.ErrNilUseCase)
	})

	t.Run("validation runs first", func(t *testing.T) {
		uc := &usecase.UseCase{Name: "Dup", MainFlow: []usecase.Sentence{simple("s1"), simple("s1")}}
		g, err := transform.New().Transform(uc)
		assert.Nil(t, g)
		assert.ErrorIs(t, err, usecase.ErrDuplicateStepID)
	})

	t.Run("overlapping node ids are rejected before lowering", func(t *testing.T) {
		uc := &usecase.UseCase{Name: "Overlap", MainFlow: []usecase.Sentence{
			usecase.Conditional{Base: usecase.Base{ID: "a"}, Condition: "c", Then: []usecase.Sentence{simple("t1")}},
			usecase.ConditionCheck{Base: usecase.Base{ID: "conditional_a"}, Condition: "ok"},
		}}
		g, err := transform.New().Transform(uc)
		assert.Nil(t, g)
		assert.ErrorIs(t, err, usecase.ErrNodeIDCollision)
		assert.NotErrorIs(t, err, activity.ErrDuplicateNodeID)
	})

	t.Run("duplicate ids reach the graph without validation", func(t *testing.T) {
		uc := &usecase.UseCase{Name: "Dup", MainFlow: []usecase.Sentence{simple("s1"), simple("s1")}}
		g, err := transform.New(transform.WithoutValidation()).Transform(uc)
		assert.Nil(t, g)
		assert.ErrorIs(t, err, activity.ErrDuplicateNodeID)

		var stepErr *transform.StepError
		require.ErrorAs(t, err, &stepErr)
		assert.Equal(t, "s1", stepErr.StepID)
	})

	t.Run("nil sentence", func(t *testing.T) {
		uc := &usecase.UseCase{Name: "Nil", MainFlow: []usecase.Sentence{nil}}
		g, err := transform.New(transform.WithoutValidation()).Transform(uc)
		assert.Nil(t, g)
		assert.ErrorIs(t, err, transform.ErrUnknownSentenceVariant)
	})
}

func TestTransform_Hooks(t *testing.T) {
	var sentences []transform.SentenceEvent
	var completed []transform.CompleteEvent
	engine := transform.New(transform.WithHooks(transform.Hooks{
		OnSentence: func(ev transform.SentenceEvent) { sentences = append(sentences, ev) },
		OnComplete: func(ev transform.CompleteEvent) { completed = append(completed, ev) },
	}))

	_, err := engine.Transform(&usecase.UseCase{Name: "H", MainFlow: []usecase.Sentence{simple("s1"), simple("s2")}})
	require.NoError(t, err)

	require.Len(t, sentences, 2)
	assert.Equal(t, "s1", sentences[0].StepID)
	assert.Equal(t, usecase.KindSimple, sentences[0].Kind)
	assert.Equal(t, "action_s2", sentences[1].Exit)

	require.Len(t, completed, 1)
	assert.Equal(t, 4, completed[0].Nodes)
	assert.Equal(t, 3, completed[0].Edges)
	assert.NoError(t, completed[0].Err)

	_, err = engine.Transform(nil)
	require.Error(t, err)
	require.Len(t, completed, 2)
	assert.Error(t, completed[1].Err)
}

func TestParseMode(t *testing.T) {
	for _, m := range []transform.Mode{transform.Detailed, transform.Overview} {
		got, err := transform.ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := transform.ParseMode("sketch")
	assert.Error(t, err)

	for _, p := range []transform.ResumePolicy{transform.ResumeStrict, transform.ResumeDrop, transform.ResumeDeferred} {
		got, err := transform.ParseResumePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err = transform.ParseResumePolicy("later")
	assert.Error(t, err)
}
