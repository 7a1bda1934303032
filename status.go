package behaviortree

// Status is the tri-state outcome of ticking a node, plus the Invalid
// sentinel reported before the first tick and after a reset.
type Status uint8

const (
	// StatusInvalid is the pre-start sentinel. A node only reports it
	// before its first tick or after Reset; Tick never returns it.
	StatusInvalid Status = iota
	// StatusRunning indicates the node has not finished and expects to be
	// ticked again.
	StatusRunning
	// StatusSuccess indicates the node completed successfully.
	StatusSuccess
	// StatusFailure indicates the node completed unsuccessfully.
	StatusFailure
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusInvalid:
		return "invalid"
	case StatusRunning:
		return "running"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Done reports whether s is a terminal outcome (success or failure).
func (s Status) Done() bool {
	return s == StatusSuccess || s == StatusFailure
}
