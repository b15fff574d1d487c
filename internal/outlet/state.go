package outlet

// State is the outlet's binary state.
type State int

// The two observable device states. The numeric values are part of the
// CLI contract: the state command prints them.
const (
	Off State = 0
	On  State = 1
)

// String renders the state the way the CLI prints it.
func (s State) String() string {
	if s == On {
		return "1"
	}
	return "0"
}

// Bool converts to the transport's boolean representation.
func (s State) Bool() bool {
	return s == On
}

// Complement returns the other state.
func (s State) Complement() State {
	if s == On {
		return Off
	}
	return On
}

// stateOf maps the transport's boolean representation to a State.
func stateOf(on bool) State {
	if on {
		return On
	}
	return Off
}
