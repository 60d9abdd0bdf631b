package usecase_test

import (
	"testing"

	"github.com/CodeQwQ/ucflow/pkg/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	step := func(id string) usecase.Sentence {
		return usecase.Simple{Base: usecase.Base{ID: id}}
	}

	tests := []struct {
		name     string
		uc       *usecase.UseCase
		wantErrs []error
	}{
		{
			name: "valid",
			uc: &usecase.UseCase{
				Name:     "Ok",
				MainFlow: []usecase.Sentence{step("s1"), usecase.ResumeStep{Base: usecase.Base{ID: "r1"}, Target: "s1"}},
			},
		},
		{
			name: "forward resume target is still a known step",
			uc: &usecase.UseCase{
				Name:     "Ok",
				MainFlow: []usecase.Sentence{usecase.ResumeStep{Base: usecase.Base{ID: "r1"}, Target: "s1"}, step("s1")},
			},
		},
		{
			name:     "nil",
			uc:       nil,
			wantErrs: []error{usecase.ErrNilUseCase},
		},
		{
			name: "duplicate across nested and global flows",
			uc: &usecase.UseCase{
				Name: "Dup",
				MainFlow: []usecase.Sentence{
					usecase.Iterative{Base: usecase.Base{ID: "l1"}, Body: []usecase.Sentence{step("s1")}},
				},
				GlobalAlternativeFlows: []usecase.GlobalAlternativeFlow{
					{TriggerEvent: "cancel", Sentences: []usecase.Sentence{step("s1")}},
				},
			},
			wantErrs: []error{usecase.ErrDuplicateStepID},
		},
		{
			name: "step ids whose node ids overlap",
			uc: &usecase.UseCase{
				Name: "Overlap",
				MainFlow: []usecase.Sentence{
					usecase.Conditional{Base: usecase.Base{ID: "a"}, Condition: "c", Then: []usecase.Sentence{step("t1")}},
					usecase.ConditionCheck{Base: usecase.Base{ID: "conditional_a"}, Condition: "ok"},
				},
			},
			wantErrs: []error{usecase.ErrNodeIDCollision},
		},
		{
			name: "prefixed step ids that do not overlap",
			uc: &usecase.UseCase{
				Name:     "Ok",
				MainFlow: []usecase.Sentence{step("check_balance"), step("merge_accounts")},
			},
		},
		{
			name: "collects every failure",
			uc: &usecase.UseCase{
				MainFlow: []usecase.Sentence{
					step(""),
					usecase.Simple{Base: usecase.Base{ID: "s2"}, Transaction: usecase.TransactionKind(9)},
					usecase.ResumeStep{Base: usecase.Base{ID: "r1"}, Target: "ghost"},
				},
			},
			wantErrs: []error{usecase.ErrMissingStepID, usecase.ErrUnknownTransaction, usecase.ErrUnknownResumeTarget},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := usecase.Validate(tt.uc)
			if len(tt.wantErrs) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErrs {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestValidate_AggregatesErrors(t *testing.T) {
	err := usecase.Validate(&usecase.UseCase{
		MainFlow: []usecase.Sentence{usecase.Abort{}, usecase.Abort{}},
	})
	require.Error(t, err)

	errs := usecase.ValidationErrors(err)
	assert.Len(t, errs, 3, "name plus two missing ids")
	assert.Contains(t, err.Error(), "3 validation errors")
	assert.Nil(t, usecase.ValidationErrors(nil))
}
