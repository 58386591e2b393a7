package session

// State is the connection state of a Manager.
type State int

const (
	// StateDisconnected means no session exists.
	StateDisconnected State = iota
	// StateConnecting means a launch and handshake are in flight.
	StateConnecting
	// StateReady means a session is live and usable.
	StateReady
	// StateFailing means the live session suffered a transport failure and
	// will be replaced by the next connect.
	StateFailing
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateFailing:
		return "failing"
	default:
		return "unknown"
	}
}
