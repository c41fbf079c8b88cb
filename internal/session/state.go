package session

import "fmt"

// State is where a single product's review session stands
type State string

const (
	StateStart              State = "start"
	StateQuestionsGenerated State = "questions_generated"
	StateCollectingAnswers  State = "collecting_answers"
	StateRatingCaptured     State = "rating_captured"
	StateReviewGenerated    State = "review_generated"
	StatePersisted          State = "persisted"
	StateContinue           State = "continue"
	StateStop               State = "stop"

	// StateFailed marks a product whose generation call failed. Nothing is
	// persisted for it and the run moves on to the continue/stop decision.
	StateFailed State = "failed"

	// StateAborted marks a product abandoned on interrupt or closed input.
	StateAborted State = "aborted"
)

// ValidTransitions defines allowed state transitions
var ValidTransitions = map[State][]State{
	StateStart:              {StateQuestionsGenerated, StateFailed, StateAborted},
	StateQuestionsGenerated: {StateCollectingAnswers, StateRatingCaptured, StateAborted},
	StateCollectingAnswers:  {StateCollectingAnswers, StateRatingCaptured, StateAborted},
	StateRatingCaptured:     {StateReviewGenerated, StateFailed, StateAborted},
	StateReviewGenerated:    {StatePersisted},
	StatePersisted:          {StateContinue, StateStop, StateAborted},
	StateFailed:             {StateContinue, StateStop, StateAborted},
	StateContinue:           {},
	StateStop:               {},
	StateAborted:            {},
}

// CanTransition checks if a state transition is valid
func CanTransition(from, to State) bool {
	for _, target := range ValidTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the state has no outgoing transitions
func (s State) IsTerminal() bool {
	transitions, exists := ValidTransitions[s]
	return exists && len(transitions) == 0
}

// TransitionError reports an attempt to move outside ValidTransitions
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid session transition: %s -> %s", e.From, e.To)
}
