package world

import "container/heap"

// PathFinder runs A* searches over one grid. It holds no state between
// queries; each call builds its own open/closed sets.
type PathFinder struct {
	grid *Grid
}

// NewPathFinder binds a pathfinder to a grid.
func NewPathFinder(g *Grid) *PathFinder {
	return &PathFinder{grid: g}
}

// neighborDirections are the four cardinal offsets. No diagonals.
var neighborDirections = [4]Coord{
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
}

// FindPath returns the ordered cells from the first step after start to the
// goal, or nil if the goal is unreachable. Uniform edge cost with a Manhattan
// heuristic keeps the result length-optimal for 4-connectivity.
func (pf *PathFinder) FindPath(start, goal Coord) []Coord {
	if start == goal {
		return nil
	}
	if !pf.grid.Traversable(goal) {
		return nil
	}

	pq := &nodeQueue{}
	heap.Init(pq)
	heap.Push(pq, &pathNode{coord: start})

	gScore := map[Coord]int{start: 0}
	closed := make(map[Coord]bool)

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*pathNode)
		if current.coord == goal {
			return reconstructPath(current)
		}
		if closed[current.coord] {
			continue
		}
		closed[current.coord] = true

		for _, dir := range neighborDirections {
			next := Coord{X: current.coord.X + dir.X, Y: current.coord.Y + dir.Y}
			if closed[next] || !pf.grid.Traversable(next) {
				continue
			}
			newCost := gScore[current.coord] + 1
			if best, seen := gScore[next]; !seen || newCost < best {
				gScore[next] = newCost
				heap.Push(pq, &pathNode{
					coord:    next,
					priority: newCost + Manhattan(next, goal),
					parent:   current,
				})
			}
		}
	}

	return nil // No path.
}

type pathNode struct {
	coord    Coord
	priority int // f = g + heuristic
	parent   *pathNode
}

// nodeQueue is a min-heap of open nodes ordered by f-score.
type nodeQueue []*pathNode

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].priority < q[j].priority }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(*pathNode)) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// reconstructPath walks parent pointers back to the start, dropping the
// start cell itself.
func reconstructPath(node *pathNode) []Coord {
	var rev []Coord
	for node != nil && node.parent != nil {
		rev = append(rev, node.coord)
		node = node.parent
	}
	path := make([]Coord, len(rev))
	for i, c := range rev {
		path[len(rev)-1-i] = c
	}
	return path
}
