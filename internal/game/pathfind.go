package game

import "container/heap"

// pathNeighborOffsets, in expansion order: up, right, down, left.
var pathNeighborOffsets = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

type pathNode struct {
	tx, ty    int
	travelled int
	f         int
	seq       int
	parent    *pathNode
	index     int
}

type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }

// Less orders by f score with insertion order as a stable tie-break so the
// search is deterministic.
func (pq pathQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x any) {
	n := len(*pq)
	item := x.(*pathNode)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

func manhattan(ax, ay, bx, by int) int {
	dx := ax - bx
	if dx < 0 {
		dx = -dx
	}
	dy := ay - by
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// PathFind runs an A* search over 4-connected tiles and returns only the
// first step taken from the origin; callers re-invoke every tick for
// continuous steering. canPass decides traversability per cell type.
//
// Nodes whose travelled distance exceeds maxDistance are not expanded
// further but still occupy the closed set so they are never revisited. The
// ok result is false when start equals target or the frontier exhausts
// without reaching the target in range.
func (w *World) PathFind(fromX, fromY, toX, toY, maxDistance int, canPass func(CellType) bool) (dx, dy int, ok bool) {
	if fromX == toX && fromY == toY {
		return 0, 0, false
	}

	open := &pathQueue{}
	heap.Init(open)
	seq := 0
	start := &pathNode{tx: fromX, ty: fromY, f: manhattan(fromX, fromY, toX, toY)}
	heap.Push(open, start)
	closed := map[int]struct{}{w.Index(fromX, fromY): {}}

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		if current.tx == toX && current.ty == toY {
			return firstStep(current)
		}
		if current.travelled >= maxDistance {
			continue
		}
		for _, offset := range pathNeighborOffsets {
			nx, ny := current.tx+offset[0], current.ty+offset[1]
			if !w.InBounds(nx, ny) {
				continue
			}
			idx := w.Index(nx, ny)
			if _, seen := closed[idx]; seen {
				continue
			}
			if !canPass(w.CellAt(nx, ny)) {
				continue
			}
			closed[idx] = struct{}{}
			seq++
			travelled := current.travelled + 1
			heap.Push(open, &pathNode{
				tx:        nx,
				ty:        ny,
				travelled: travelled,
				f:         travelled + manhattan(nx, ny, toX, toY),
				seq:       seq,
				parent:    current,
			})
		}
	}
	return 0, 0, false
}

// firstStep walks the parent chain back to the node adjacent to the origin
// and returns the direction the origin took.
func firstStep(goal *pathNode) (int, int, bool) {
	node := goal
	for node.parent != nil && node.parent.parent != nil {
		node = node.parent
	}
	if node.parent == nil {
		return 0, 0, false
	}
	return node.tx - node.parent.tx, node.ty - node.parent.ty, true
}
