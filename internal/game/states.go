package game

// ConnState enumerates the connection lifecycle states. Menu and
// RespawnMenu are re-enterable; there is no hard terminal state, teardown
// is the embedding application's concern.
type ConnState int

const (
	StateMenu ConnState = iota
	StateInitGame
	StateFindServer
	StateConnected
	StateMainGame
	StateRespawnMenu
)

func (s ConnState) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateInitGame:
		return "initGame"
	case StateFindServer:
		return "findServer"
	case StateConnected:
		return "connected"
	case StateMainGame:
		return "mainGame"
	case StateRespawnMenu:
		return "respawnMenu"
	default:
		return "unknown"
	}
}
