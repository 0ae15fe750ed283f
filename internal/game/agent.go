package game

// Agent is the capability contract shared by players and mobs. Movement
// integration depends only on this interface, never on a concrete entity
// type.
type Agent interface {
	// Position returns the agent's pixel coordinates.
	Position() (x, y float64)
	// SetPosition moves the agent to the given pixel coordinates.
	SetPosition(x, y float64)
	// CanPass reports whether the agent may enter a cell of the given type.
	CanPass(cell CellType) bool
}
