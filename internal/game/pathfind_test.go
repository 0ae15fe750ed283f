package game

import "testing"

func emptyPass(c CellType) bool { return c == CellEmpty }

func TestPathFindOpenGridApproachesTarget(t *testing.T) {
	w := NewWorld(10, 10, 32, 32)
	fromX, fromY := 1, 1
	toX, toY := 7, 5

	for steps := 0; steps < 32; steps++ {
		if fromX == toX && fromY == toY {
			return
		}
		before := manhattan(fromX, fromY, toX, toY)
		dx, dy, ok := w.PathFind(fromX, fromY, toX, toY, 50, emptyPass)
		if !ok {
			t.Fatalf("no path from (%d,%d) on an open grid", fromX, fromY)
		}
		fromX += dx
		fromY += dy
		after := manhattan(fromX, fromY, toX, toY)
		if after >= before {
			t.Fatalf("step (%d,%d) did not reduce distance: %d -> %d", dx, dy, before, after)
		}
	}
	t.Fatalf("target not reached, stuck at (%d,%d)", fromX, fromY)
}

func TestPathFindEnclosedStart(t *testing.T) {
	w := NewWorld(5, 5, 32, 32)
	w.SetCell(1, 0, CellWall)
	w.SetCell(1, 2, CellWall)
	w.SetCell(0, 1, CellWall)
	w.SetCell(2, 1, CellWall)

	if _, _, ok := w.PathFind(1, 1, 3, 3, 20, emptyPass); ok {
		t.Fatalf("found a path out of an enclosed cell")
	}
}

func TestPathFindStartEqualsTarget(t *testing.T) {
	w := NewWorld(5, 5, 32, 32)
	if _, _, ok := w.PathFind(2, 2, 2, 2, 20, emptyPass); ok {
		t.Fatalf("expected no path when start equals target")
	}
}

func TestPathFindDistanceCap(t *testing.T) {
	w := NewWorld(20, 3, 32, 32)
	if _, _, ok := w.PathFind(0, 1, 15, 1, 5, emptyPass); ok {
		t.Fatalf("path found beyond the travel cap")
	}
	if _, _, ok := w.PathFind(0, 1, 4, 1, 5, emptyPass); !ok {
		t.Fatalf("no path found within the travel cap")
	}
}

func TestPathFindRoutesAroundWalls(t *testing.T) {
	// Vertical wall with a gap at the bottom.
	w := NewWorld(7, 7, 32, 32)
	for y := 0; y < 6; y++ {
		w.SetCell(3, y, CellWall)
	}

	// Follow first-step hints tick by tick, the way a steering caller does.
	x, y := 1, 1
	for steps := 0; steps < 40; steps++ {
		if x == 5 && y == 1 {
			return
		}
		dx, dy, ok := w.PathFind(x, y, 5, 1, 30, emptyPass)
		if !ok {
			t.Fatalf("no path around the wall from (%d,%d)", x, y)
		}
		x += dx
		y += dy
		if w.CellAt(x, y) != CellEmpty {
			t.Fatalf("step landed on a blocked cell (%d,%d)", x, y)
		}
	}
	t.Fatalf("target not reached, stuck at (%d,%d)", x, y)
}
