package game

import "math"

// Speed bounds applied at integration time. The server clamps identically,
// so a runaway effect stack can never make prediction diverge from truth.
const (
	minSpeed = 50.0
	maxSpeed = 300.0
)

// DefaultAlignTolerance is the fraction of a tile width an agent may
// overhang into a blocked cell before the axis snaps back to alignment.
const DefaultAlignTolerance = 0.25

func clampSpeed(speed float64) float64 {
	if speed < minSpeed {
		return minSpeed
	}
	if speed > maxSpeed {
		return maxSpeed
	}
	return speed
}

// MoveAgent integrates a single action against the world and mutates the
// agent's position. The same function serves one authoritative step and one
// prediction replay step, so the two can never drift apart.
//
// The two axes are resolved separately; sliding along walls is implicit
// because a blocked axis clamps to its tile-aligned coordinate while the
// other keeps moving. The returned action is the input with blocked axes
// zeroed, suitable for animation state.
func MoveAgent(ag Agent, w *World, act Action, speed, tolerance float64) Action {
	act.Normalize()
	if w == nil || act.DeltaTime == 0 || (act.X == 0 && act.Y == 0) {
		return act
	}

	eff := clampSpeed(speed)
	x, y := ag.Position()

	nx, blockedX := integrateAxis(ag, w, x, y, float64(act.X)*eff*act.DeltaTime, true, tolerance)
	ny, blockedY := integrateAxis(ag, w, nx, y, float64(act.Y)*eff*act.DeltaTime, false, tolerance)

	ag.SetPosition(nx, ny)
	if blockedX {
		act.X = 0
	}
	if blockedY {
		act.Y = 0
	}
	return act
}

// integrateAxis advances one axis. posX/posY are the agent's current pixel
// coordinates; delta applies to the horizontal axis when horizontal is true.
// Returns the new coordinate for that axis and whether the move was blocked.
func integrateAxis(ag Agent, w *World, posX, posY, delta float64, horizontal bool, tolerance float64) (float64, bool) {
	pos := posY
	size := float64(w.TileHeight)
	if horizontal {
		pos = posX
		size = float64(w.TileWidth)
	}
	if delta == 0 {
		return pos, false
	}

	next := pos + delta
	var tx, ty int
	if horizontal {
		tx, ty = w.ToTile(next, posY)
	} else {
		tx, ty = w.ToTile(posX, next)
	}
	if ag.CanPass(w.CellAt(tx, ty)) {
		return next, false
	}

	// Blocked. Snap back to the center of the tile the agent came from once
	// it is past the alignment tolerance.
	aligned := (math.Floor(pos/size) + 0.5) * size
	if math.Abs(next-aligned) > tolerance*size {
		return aligned, true
	}
	return next, true
}
