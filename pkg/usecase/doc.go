/*
Package usecase contains the UCMeta model: a use case described as an ordered tree of
typed sentences.

The model is pure data. A UseCase holds its pre/postconditions, the main flow and the
global alternative flows; every flow is an ordered list of Sentence values. Sentence is
a closed sum type with nine variants:

  - Simple: one actor/action/object step, the only leaf that carries data pins.
  - ConditionCheck: a guarded step with an attached alternative flow.
  - Conditional: if / else-if / else branching.
  - Parallel: N concurrent sub-flows.
  - Iterative: a loop body repeated while a condition holds.
  - Include, Extend: opaque references to other use cases.
  - Abort: abnormal end of the flow.
  - ResumeStep: a jump back to a previously described step.

Sentence ids must be unique across the whole use case, nested branches included.
Validate checks that and the other structural rules before a transformation.
*/
package usecase
