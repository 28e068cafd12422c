package quiz

import "fmt"

// Phase is the tag of a session State.
type Phase int

const (
	PhaseLoading    Phase = iota // Question set not yet available
	PhasePresenting              // Question shown, selection open
	PhaseRevealing               // Answer and explanation shown
	PhaseFinished                // Scored and recorded
	PhaseFailed                  // Provider returned nothing usable
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhasePresenting:
		return "presenting"
	case PhaseRevealing:
		return "revealing"
	case PhaseFinished:
		return "finished"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is the position of a session. Index is meaningful only while
// presenting or revealing.
type State struct {
	Phase Phase
	Index int
}

func Loading() State { return State{Phase: PhaseLoading} }
func Presenting(i int) State { return State{Phase: PhasePresenting, Index: i} }
func Revealing(i int) State { return State{Phase: PhaseRevealing, Index: i} }
func Finished() State { return State{Phase: PhaseFinished} }
func Failed() State { return State{Phase: PhaseFailed} }

func (s State) String() string {
	switch s.Phase {
	case PhasePresenting, PhaseRevealing:
		return fmt.Sprintf("%s(%d)", s.Phase, s.Index)
	default:
		return s.Phase.String()
	}
}

// Loaded moves Loading to the first question, or to Failed when n is zero.
// Any other state is returned unchanged.
func (s State) Loaded(n int) State {
	if s.Phase != PhaseLoading {
		return s
	}
	if n <= 0 {
		return Failed()
	}
	return Presenting(0)
}

// CanSelect reports whether an option may be chosen in this state.
func (s State) CanSelect() bool {
	return s.Phase == PhasePresenting
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s.Phase == PhaseFinished || s.Phase == PhaseFailed
}

// Advance applies the advance control to a session of n questions.
// Presenting moves to Revealing only when the current question is answered;
// Revealing moves to the next question, or to Finished after the last one.
func (s State) Advance(n int, answered bool) State {
	switch s.Phase {
	case PhasePresenting:
		if !answered {
			return s
		}
		return Revealing(s.Index)
	case PhaseRevealing:
		if s.Index+1 < n {
			return Presenting(s.Index + 1)
		}
		return Finished()
	default:
		return s
	}
}
