package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bfsLength is the brute-force oracle: shortest path length over the same
// traversability rule, or -1 when unreachable.
func bfsLength(g *Grid, start, goal Coord) int {
	if start == goal {
		return 0
	}
	visited := map[Coord]bool{start: true}
	frontier := []Coord{start}
	depth := 0
	for len(frontier) > 0 {
		depth++
		var next []Coord
		for _, c := range frontier {
			for _, dir := range neighborDirections {
				n := Coord{X: c.X + dir.X, Y: c.Y + dir.Y}
				if visited[n] || !g.Traversable(n) {
					continue
				}
				if n == goal {
					return depth
				}
				visited[n] = true
				next = append(next, n)
			}
		}
		frontier = next
	}
	return -1
}

func TestFindPathStraightLine(t *testing.T) {
	g := NewGrid(8, 8)
	pf := NewPathFinder(g)

	path := pf.FindPath(Coord{X: 1, Y: 1}, Coord{X: 5, Y: 1})
	require.Len(t, path, 4, "open ground: length equals Manhattan distance")
	assert.Equal(t, Coord{X: 5, Y: 1}, path[len(path)-1])
}

func TestFindPathExcludesStart(t *testing.T) {
	g := NewGrid(4, 4)
	pf := NewPathFinder(g)

	path := pf.FindPath(Coord{X: 0, Y: 0}, Coord{X: 0, Y: 1})
	require.Len(t, path, 1)
	assert.Equal(t, Coord{X: 0, Y: 1}, path[0])
}

func TestFindPathAroundWater(t *testing.T) {
	g := NewGrid(7, 7)
	// Vertical water wall with a gap at the bottom.
	for y := 0; y < 6; y++ {
		g.At(Coord{X: 3, Y: y}).Terrain = TerrainWater
	}
	pf := NewPathFinder(g)

	start := Coord{X: 1, Y: 1}
	goal := Coord{X: 5, Y: 1}
	path := pf.FindPath(start, goal)
	require.NotEmpty(t, path)
	assert.Equal(t, bfsLength(g, start, goal), len(path),
		"path length must match the BFS oracle; the route itself is free to differ")

	for _, c := range path {
		assert.True(t, g.Traversable(c), "path steps through %v", c)
	}
}

func TestFindPathMatchesBFSOnManyPairs(t *testing.T) {
	g := Generate(SmallTestConfig())
	pf := NewPathFinder(g)

	for sy := 0; sy < g.Height; sy += 3 {
		for sx := 0; sx < g.Width; sx += 3 {
			start := Coord{X: sx, Y: sy}
			goal := Coord{X: g.Width - 1 - sx, Y: g.Height - 1 - sy}
			if !g.Traversable(start) || !g.Traversable(goal) || start == goal {
				continue
			}
			want := bfsLength(g, start, goal)
			path := pf.FindPath(start, goal)
			if want < 0 {
				assert.Empty(t, path, "unreachable %v->%v", start, goal)
			} else {
				assert.Len(t, path, want, "%v->%v", start, goal)
			}
		}
	}
}

func TestFindPathUnreachableReturnsEmpty(t *testing.T) {
	g := NewGrid(7, 7)
	// Enclose the goal in water.
	goal := Coord{X: 5, Y: 5}
	for _, c := range []Coord{{4, 4}, {5, 4}, {6, 4}, {4, 5}, {6, 5}, {4, 6}, {5, 6}, {6, 6}} {
		g.At(c).Terrain = TerrainWater
	}
	pf := NewPathFinder(g)

	assert.Empty(t, pf.FindPath(Coord{X: 0, Y: 0}, goal))
}

func TestFindPathMountainImpassable(t *testing.T) {
	g := NewGrid(3, 1)
	g.At(Coord{X: 1, Y: 0}).Terrain = TerrainMountain
	pf := NewPathFinder(g)

	assert.Empty(t, pf.FindPath(Coord{X: 0, Y: 0}, Coord{X: 2, Y: 0}))
}

func TestOccupiedTileOnlyInteractionPointTraversable(t *testing.T) {
	g := NewGrid(6, 6)
	// A 2x2 structure at (2,2) whose interaction point is its bottom-right.
	occ := Occupant{Kind: OccupantBuilding, ID: 1, Interaction: Coord{X: 3, Y: 3}}
	g.Occupy(occ, Coord{X: 2, Y: 2}, 2, 2)

	assert.False(t, g.Traversable(Coord{X: 2, Y: 2}))
	assert.False(t, g.Traversable(Coord{X: 3, Y: 2}))
	assert.False(t, g.Traversable(Coord{X: 2, Y: 3}))
	assert.True(t, g.Traversable(Coord{X: 3, Y: 3}))

	pf := NewPathFinder(g)
	path := pf.FindPath(Coord{X: 0, Y: 0}, Coord{X: 3, Y: 3})
	require.NotEmpty(t, path)
	// Only the final step may touch the footprint.
	for _, c := range path[:len(path)-1] {
		_, occupied := g.OccupantAt(c)
		assert.False(t, occupied, "intermediate step %v crosses the footprint", c)
	}
}

func TestVacateRestoresTraversability(t *testing.T) {
	g := NewGrid(4, 4)
	occ := Occupant{Kind: OccupantConstruction, ID: 7, Interaction: Coord{X: 1, Y: 1}}
	g.Occupy(occ, Coord{X: 1, Y: 1}, 1, 1)
	g.Vacate(Coord{X: 1, Y: 1}, 1, 1)

	_, occupied := g.OccupantAt(Coord{X: 1, Y: 1})
	assert.False(t, occupied)
	assert.True(t, g.Traversable(Coord{X: 1, Y: 1}))
}

func TestFindPathSameStartAndGoal(t *testing.T) {
	g := NewGrid(3, 3)
	pf := NewPathFinder(g)
	assert.Empty(t, pf.FindPath(Coord{X: 1, Y: 1}, Coord{X: 1, Y: 1}))
}
