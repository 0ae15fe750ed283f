package game

// Player defaults mirrored from the server.
const (
	defaultPlayerSpeed = 200.0
	defaultBombTime    = 3.0
	defaultMaxBombs    = 1
	defaultBombRange   = 1
)

// Player is the local mirror of a player entity. The server-assigned ID is
// stable for the lifetime of the connection. The local player additionally
// carries prediction state elsewhere; this struct holds only what the wire
// carries.
type Player struct {
	ID       string   `json:"id"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Action   Action   `json:"action"`
	Speed    float64  `json:"speed"`
	Image    string   `json:"image"`
	Range    int      `json:"range"`
	BombTime float64  `json:"bombTime"`
	MaxBombs int      `json:"maxBombs"`
	CurBombs int      `json:"curBombs"`
	Flags    TraitSet `json:"flags"`
	Score    int      `json:"score"`
	Name     string   `json:"name"`
	Rank     int      `json:"rank"`
	Effects  []Effect `json:"effects"`
}

// NewPlayer builds a player with server-side defaults, used before the first
// snapshot overwrites it.
func NewPlayer(id string) *Player {
	return &Player{
		ID:       id,
		Speed:    defaultPlayerSpeed,
		Image:    "p1",
		Range:    defaultBombRange,
		BombTime: defaultBombTime,
		MaxBombs: defaultMaxBombs,
		Flags:    NewTraitSet(),
	}
}

// Position implements Agent.
func (p *Player) Position() (float64, float64) { return p.X, p.Y }

// SetPosition implements Agent.
func (p *Player) SetPosition(x, y float64) { p.X, p.Y = x, y }

// CanPass implements Agent. Walls and mystery blocks are always solid; bombs
// are passable only with the walk-through-bombs trait.
func (p *Player) CanPass(cell CellType) bool {
	switch cell {
	case CellWall, CellMystery:
		return false
	case CellBomb:
		return p.Flags.Has(TraitWalkThroughBombs)
	default:
		return true
	}
}

// ApplyEffect mutates the player per the effect type and records the effect
// so the mutation can be reversed on expiry. Expired or unknown effects
// never touch the player.
func (p *Player) ApplyEffect(e Effect) {
	if !e.Active || !e.Type.known() {
		return
	}
	switch e.Type {
	case EffectSpeedUp:
		p.Speed += speedEffectDelta
	case EffectSlowDown:
		p.Speed -= speedEffectDelta
	case EffectInvincibility:
		if p.Flags == nil {
			p.Flags = NewTraitSet()
		}
		p.Flags.Add(TraitInvincible)
	}
	p.Effects = append(p.Effects, e)
}

// revertEffect undoes exactly the mutation ApplyEffect made.
func (p *Player) revertEffect(e Effect) {
	switch e.Type {
	case EffectSpeedUp:
		p.Speed -= speedEffectDelta
	case EffectSlowDown:
		p.Speed += speedEffectDelta
	case EffectInvincibility:
		p.Flags.Remove(TraitInvincible)
	}
}

// TickEffects advances every active effect and reverses the ones that
// expired this tick. No effect is dropped without its reversal.
func (p *Player) TickEffects(deltaTime float64) {
	if len(p.Effects) == 0 {
		return
	}
	kept := p.Effects[:0]
	for i := range p.Effects {
		e := p.Effects[i]
		if e.Tick(deltaTime) {
			kept = append(kept, e)
			continue
		}
		p.revertEffect(e)
	}
	p.Effects = kept
}

// EffectiveSpeed is the clamped speed used for movement integration.
func (p *Player) EffectiveSpeed() float64 {
	return clampSpeed(p.Speed)
}
