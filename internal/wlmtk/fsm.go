package wlmtk

// Transition is one row of an FSM table. Handler may be nil.
type Transition[S, E comparable] struct {
	State   S
	Event   E
	To      S
	Handler func(fsm *FSM[S, E], userData any) bool
}

// FSM evaluates events against a fixed transition table. The first row
// matching the current state and the event wins.
type FSM[S, E comparable] struct {
	table []Transition[S, E]
	state S
}

// NewFSM returns a state machine in the initial state.
func NewFSM[S, E comparable](table []Transition[S, E], initial S) *FSM[S, E] {
	return &FSM[S, E]{table: table, state: initial}
}

// State returns the current state.
func (f *FSM[S, E]) State() S {
	return f.state
}

// Reset forces the state without running any handler.
func (f *FSM[S, E]) Reset(state S) {
	f.state = state
}

// Event runs the matching transition. The state changes to the row's
// target regardless of the handler's result, which is returned. Without a
// matching row the state is kept and Event returns false.
func (f *FSM[S, E]) Event(event E, userData any) bool {
	for _, t := range f.table {
		if t.State != f.state || t.Event != event {
			continue
		}
		ok := true
		if t.Handler != nil {
			ok = t.Handler(f, userData)
		}
		f.state = t.To
		return ok
	}
	return false
}
