package game

// Mob is a server-driven NPC mirror. Positions snap to server values, no
// prediction; only the animation direction is inferred from the action
// vector.
type Mob struct {
	ID     int     `json:"id"`
	Active bool    `json:"active"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Action Action  `json:"action"`
	Speed  float64 `json:"speed"`
	Image  string  `json:"image"`
	Name   string  `json:"name"`
}

// NewMob builds a mob with server-side defaults.
func NewMob(id int) *Mob {
	return &Mob{ID: id, Active: true, Speed: 60, Image: "mob1"}
}

// Position implements Agent.
func (m *Mob) Position() (float64, float64) { return m.X, m.Y }

// SetPosition implements Agent.
func (m *Mob) SetPosition(x, y float64) { m.X, m.Y = x, y }

// CanPass implements Agent. Mobs never walk through bombs.
func (m *Mob) CanPass(cell CellType) bool {
	switch cell {
	case CellWall, CellMystery, CellBomb:
		return false
	default:
		return true
	}
}
