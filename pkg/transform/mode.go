package transform

import "fmt"

// Mode selects how nested flows are lowered.
type Mode int

const (
	// Detailed expands every nested flow into the graph.
	Detailed Mode = iota
	// Overview collapses nested flows into single call-behavior actions.
	Overview
)

func (m Mode) String() string {
	switch m {
	case Detailed:
		return "detailed"
	case Overview:
		return "overview"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "detailed", "":
		return Detailed, nil
	case "overview":
		return Overview, nil
	default:
		return Detailed, fmt.Errorf("unknown mode %q (want detailed or overview)", s)
	}
}

// ResumePolicy selects how a ResumeStep targeting a not-yet-lowered step is handled.
type ResumePolicy int

const (
	ResumeStrict ResumePolicy = iota
	ResumeDrop
	ResumeDeferred
)

func (p ResumePolicy) String() string {
	switch p {
	case ResumeStrict:
		return "strict"
	case ResumeDrop:
		return "drop"
	case ResumeDeferred:
		return "deferred"
	default:
		return fmt.Sprintf("ResumePolicy(%d)", int(p))
	}
}

// ParseResumePolicy is the inverse of ResumePolicy.String.
func ParseResumePolicy(s string) (ResumePolicy, error) {
	switch s {
	case "strict", "":
		return ResumeStrict, nil
	case "drop":
		return ResumeDrop, nil
	case "deferred":
		return ResumeDeferred, nil
	default:
		return ResumeStrict, fmt.Errorf("unknown resume policy %q (want strict, drop or deferred)", s)
	}
}
