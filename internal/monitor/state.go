package monitor

// State is the monitor's position in its lifecycle.
type State int

const (
	StateInit State = iota
	StateBaselineCaptured
	StatePolling
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateBaselineCaptured:
		return "baseline-captured"
	case StatePolling:
		return "polling"
	default:
		return "unknown"
	}
}
