package models

// ConnectionState is the lifecycle state of a livestream session.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateStreaming
	StateDisconnecting
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateDisconnecting:
		return "disconnecting"
	default:
		return "disconnected"
	}
}

// SurfaceVisible derives rendering-surface visibility from the connection
// state. Visibility never feeds back into the state.
func (s ConnectionState) SurfaceVisible() bool {
	return s == StateStreaming
}

// DisconnectStatus is the backend's answer to an explicit disconnect.
type DisconnectStatus string

const (
	StatusDisconnected  DisconnectStatus = "disconnected"
	StatusAlreadyClosed DisconnectStatus = "already_closed"
)
