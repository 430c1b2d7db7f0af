package pinflow

import "fmt"

// Step is a stage of batch generation progress.
type Step string

const (
	StepIdle        Step = "idle"
	StepImage1      Step = "image1"
	StepImage2      Step = "image2"
	StepCompositing Step = "compositing"
	StepComplete    Step = "complete"
	StepError       Step = "error"
)

var transitions = map[Step][]Step{
	StepIdle:        {StepImage1, StepComplete},
	StepImage1:      {StepImage2, StepError},
	StepImage2:      {StepCompositing, StepError},
	StepCompositing: {StepImage1, StepComplete, StepError},
	StepError:       {StepImage1, StepComplete},
	StepComplete:    {StepIdle, StepImage1},
}

// CanTransition reports whether from may be followed by to.
func CanTransition(from, to Step) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// State is a snapshot of batch progress.
type State struct {
	Step    Step
	Keyword string

	// Current is the 1-based position of Keyword in the batch.
	Current int
	Total   int

	Err error
}

// Advance returns the state moved to next. Keyword, position and error
// carry over; callers set them on the returned value.
func (s State) Advance(next Step) (State, error) {
	from := s.Step
	if from == "" {
		from = StepIdle
	}
	if !CanTransition(from, next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, next)
	}
	s.Step = next
	if next != StepError {
		s.Err = nil
	}
	if next == StepComplete || next == StepIdle {
		s.Keyword = ""
		s.Current = 0
		s.Total = 0
	}
	return s, nil
}
