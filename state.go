package weathercall

// State is a state of the per-query exchange with the model.
//
//	AwaitingModelTurn -> PlainAnswer -> Done
//	AwaitingModelTurn -> CallRequested -> ExecutingCall -> AwaitingFinalTurn -> Done
//
// Any state may move to Aborted. Done and Aborted are terminal.
type State string

const (
	StateAwaitingModelTurn State = "AwaitingModelTurn"
	StatePlainAnswer       State = "PlainAnswer"
	StateCallRequested     State = "CallRequested"
	StateExecutingCall     State = "ExecutingCall"
	StateAwaitingFinalTurn State = "AwaitingFinalTurn"
	StateDone              State = "Done"
	StateAborted           State = "Aborted"
)

var transitions = map[State][]State{
	StateAwaitingModelTurn: {StatePlainAnswer, StateCallRequested, StateAborted},
	StatePlainAnswer:       {StateDone},
	StateCallRequested:     {StateExecutingCall, StateAborted},
	StateExecutingCall:     {StateAwaitingFinalTurn, StateAborted},
	StateAwaitingFinalTurn: {StateDone, StateAborted},
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted
}

// CanTransition reports whether moving from s to next is a legal step.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
