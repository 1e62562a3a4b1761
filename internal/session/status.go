package session

// State of the connection state machine. Authenticated, Unauthenticated and
// Failed are terminal per attempt; calling Connect again from any state
// starts a fresh attempt.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateAuthenticated
	StateUnauthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is the derived, read-only view consumed by UI collaborators to
// gate navigation. It is recomputed atomically per state transition.
type Status struct {
	IsConnecting bool
	IsSuccess    bool
	IsError      bool
	Err          error
}
