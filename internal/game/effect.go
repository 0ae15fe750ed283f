package game

// EffectType identifies a timed status effect applied to an agent. The
// numeric values are part of the wire format.
type EffectType int

const (
	EffectSpeedUp       EffectType = 0
	EffectSlowDown      EffectType = 1
	EffectInvincibility EffectType = 2
)

// speedEffectDelta is the speed mutation applied by SpeedUp and reversed on
// expiry (and the inverse for SlowDown).
const speedEffectDelta = 50.0

func (t EffectType) known() bool {
	switch t {
	case EffectSpeedUp, EffectSlowDown, EffectInvincibility:
		return true
	}
	return false
}

// DisplayName returns the short label shown above the affected agent.
func (t EffectType) DisplayName() string {
	switch t {
	case EffectSpeedUp:
		return ">>"
	case EffectSlowDown:
		return "<<"
	default:
		return ""
	}
}

// Effect is a timed modifier on an agent. Applying an effect mutates its
// target immediately; the exact mutation is reversed when Remaining reaches
// zero. Every application is paired with exactly one reversal.
type Effect struct {
	Type      EffectType `json:"type"`
	Remaining float64    `json:"remaining"`
	Name      string     `json:"name"`
	Active    bool       `json:"active"`
}

// NewEffect builds an active effect of the given type and duration. Unknown
// types come back already expired so they never mutate a target.
func NewEffect(effectType EffectType, duration float64) Effect {
	e := Effect{
		Type:      effectType,
		Remaining: duration,
		Name:      effectType.DisplayName(),
		Active:    true,
	}
	if !effectType.known() || duration <= 0 {
		e.Remaining = 0
		e.Active = false
	}
	return e
}

// Tick advances the effect clock. Returns true while the effect is still
// active.
func (e *Effect) Tick(deltaTime float64) bool {
	if !e.Active {
		return false
	}
	e.Remaining -= deltaTime
	if e.Remaining <= 0 {
		e.Remaining = 0
		e.Active = false
	}
	return e.Active
}
