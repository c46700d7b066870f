package session

// State is a connection's position in the Handshaking/Status/Login/Play
// state machine. It's stored as an atomic.Int32 on Protocol so the
// scheduler's hot-path tick can read it lock-free.
type State int32

const (
	StateHandshaking State = iota
	StateStatus
	StateLogin
	StatePlay
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateHandshaking:
		return "Handshaking"
	case StateStatus:
		return "Status"
	case StateLogin:
		return "Login"
	case StatePlay:
		return "Play"
	case StateDisconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}
