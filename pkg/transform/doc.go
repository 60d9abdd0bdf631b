/*
Package transform lowers a UCMeta use case into an activity diagram.

The lowering is a recursive descent over the sentence tree. Every sentence is lowered
from an entry node and returns the node that represents control after it; the caller
chains the next sentence from there. Structured sentences always re-converge: a
Decision pairs with a Merge, a Fork with a Join, and a loop closes with a single
"continue" back-edge into its own Decision.

Two modes are supported. Detailed expands every nested flow in place. Overview collapses
each alternative flow and conditional branch into one call-behavior action standing for
the whole region.

Each call to Engine.Transform owns its graph, its id counter (seeded at 0) and its
step-to-node table, so one Engine can be shared by concurrent callers.

# Resume steps

A ResumeStep jumps back to the node recorded for an earlier step. How a jump to a step
that has not been lowered yet is handled is selected with WithResumePolicy:

  - ResumeStrict fails with ErrForwardResume.
  - ResumeDrop silently produces no edge and no exit.
  - ResumeDeferred records the jump and patches it once the whole use case is lowered.
*/
package transform
