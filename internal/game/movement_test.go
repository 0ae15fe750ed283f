package game

import "testing"

// tileStep returns a delta time that moves the agent exactly one tile at
// the given speed.
func tileStep(w *World, speed float64) float64 {
	return float64(w.TileWidth) / speed
}

func TestMoveAgentOpenGrid(t *testing.T) {
	w := NewWorld(10, 10, 32, 32)
	p := NewPlayer("p1")
	p.SetPosition(48, 48) // center of tile (1,1)

	act := Action{X: 1, DeltaTime: tileStep(w, p.EffectiveSpeed())}
	applied := MoveAgent(p, w, act, p.EffectiveSpeed(), DefaultAlignTolerance)

	if x, _ := p.Position(); x != 80 {
		t.Fatalf("x = %g after one tile step, want 80", x)
	}
	if applied.X != 1 {
		t.Fatalf("open move should not zero intent")
	}
}

func TestMoveAgentBlockedAxisClampsToAlignment(t *testing.T) {
	w := NewWorld(5, 5, 32, 32)
	w.SetCell(2, 1, CellWall)
	p := NewPlayer("p1")
	p.SetPosition(48, 48) // center of tile (1,1), wall to the right

	act := Action{X: 1, DeltaTime: tileStep(w, p.EffectiveSpeed())}
	applied := MoveAgent(p, w, act, p.EffectiveSpeed(), DefaultAlignTolerance)

	x, y := p.Position()
	if x != 48 {
		t.Fatalf("x = %g against a wall, want clamp at 48", x)
	}
	if y != 48 {
		t.Fatalf("y = %g moved without intent", y)
	}
	if applied.X != 0 {
		t.Fatalf("blocked axis intent not zeroed")
	}
}

func TestMoveAgentSlidesAlongWall(t *testing.T) {
	w := NewWorld(5, 5, 32, 32)
	w.SetCell(2, 1, CellWall)
	p := NewPlayer("p1")
	p.SetPosition(48, 48)

	dt := tileStep(w, p.EffectiveSpeed())
	applied := MoveAgent(p, w, Action{X: 1, Y: 1, DeltaTime: dt}, p.EffectiveSpeed(), DefaultAlignTolerance)

	x, y := p.Position()
	if x != 48 {
		t.Fatalf("x = %g, blocked axis should clamp", x)
	}
	if y != 80 {
		t.Fatalf("y = %g, free axis should keep moving", y)
	}
	if applied.X != 0 || applied.Y != 1 {
		t.Fatalf("applied intent = (%d,%d), want (0,1)", applied.X, applied.Y)
	}
}

func TestMoveAgentSnapsMisalignedAgentBack(t *testing.T) {
	w := NewWorld(5, 5, 32, 32)
	w.SetCell(2, 1, CellWall)
	p := NewPlayer("p1")
	p.SetPosition(60, 48) // off center within tile (1,1)

	// Pushing into the wall from a misaligned position snaps the axis back
	// to the tile center rather than leaving the agent part way in.
	MoveAgent(p, w, Action{X: 1, DeltaTime: tileStep(w, p.EffectiveSpeed())}, p.EffectiveSpeed(), DefaultAlignTolerance)
	x, _ := p.Position()
	if x != 48 {
		t.Fatalf("x = %g after blocked push, want snap to 48", x)
	}
}

func TestMoveAgentClampsHostileDelta(t *testing.T) {
	w := NewWorld(100, 5, 32, 32)
	p := NewPlayer("p1")
	p.SetPosition(48, 48)

	// A wild delta is clamped, so one action can never teleport.
	MoveAgent(p, w, Action{X: 1, DeltaTime: 1000}, p.EffectiveSpeed(), DefaultAlignTolerance)
	x, _ := p.Position()
	want := 48 + p.EffectiveSpeed()*maxActionDelta
	if x != want {
		t.Fatalf("x = %g with hostile delta, want %g", x, want)
	}
}

func TestClampSpeedBounds(t *testing.T) {
	if got := clampSpeed(10); got != minSpeed {
		t.Fatalf("clampSpeed(10) = %g", got)
	}
	if got := clampSpeed(1000); got != maxSpeed {
		t.Fatalf("clampSpeed(1000) = %g", got)
	}
	if got := clampSpeed(200); got != 200 {
		t.Fatalf("clampSpeed(200) = %g", got)
	}
}
