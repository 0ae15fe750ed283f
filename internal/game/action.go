package game

// maxActionDelta caps the simulated tick length carried by an action. The
// value is only ever used for local prediction, never echoed back into any
// authoritative calculation, but a wild delta would still make the predicted
// position jump.
const maxActionDelta = 0.25

// Action is one discrete unit of input intent. X and Y are directional
// intent in {-1, 0, 1}, not velocity. ID is a per-client monotonically
// increasing sequence number and is the join key between locally buffered
// and server-acknowledged input.
type Action struct {
	ID        uint32  `json:"id"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Fire      bool    `json:"fire"`
	DeltaTime float64 `json:"deltaTime"`
}

// Normalize clamps the directional intent to {-1, 0, 1} and the tick length
// to [0, maxActionDelta].
func (a *Action) Normalize() {
	a.X = clampIntent(a.X)
	a.Y = clampIntent(a.Y)
	if a.DeltaTime < 0 {
		a.DeltaTime = 0
	}
	if a.DeltaTime > maxActionDelta {
		a.DeltaTime = maxActionDelta
	}
}

// Empty reports whether the action carries no movement and no fire intent.
func (a Action) Empty() bool {
	return a.X == 0 && a.Y == 0 && !a.Fire
}

// Clear resets the action to its zero value.
func (a *Action) Clear() {
	*a = Action{}
}

func clampIntent(v int) int {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
