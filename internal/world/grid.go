package world

import "fmt"

// Grid holds the complete tile map and the occupancy table.
type Grid struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	tiles []Tile // row-major, len = Width*Height

	// Occupancy back-references keyed by coordinate. One entry per covered
	// tile; cleared explicitly when a structure is removed or replaced.
	occupants map[Coord]Occupant
}

// NewGrid creates an empty all-grass grid of the given dimensions.
func NewGrid(width, height int) *Grid {
	g := &Grid{
		Width:     width,
		Height:    height,
		tiles:     make([]Tile, width*height),
		occupants: make(map[Coord]Occupant),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.tiles[y*width+x] = Tile{
				Coord:     Coord{X: x, Y: y},
				Terrain:   TerrainGrass,
				Buildable: true,
			}
		}
	}
	return g
}

// InBounds reports whether the coordinate lies on the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// At returns the tile at the given coordinate, or nil if out of bounds.
func (g *Grid) At(c Coord) *Tile {
	if !g.InBounds(c) {
		return nil
	}
	return &g.tiles[c.Y*g.Width+c.X]
}

// OccupantAt returns the structure reference covering a tile, if any.
func (g *Grid) OccupantAt(c Coord) (Occupant, bool) {
	occ, ok := g.occupants[c]
	return occ, ok
}

// Occupy records a structure over a footprint of width×height tiles whose
// top-left corner is at pos.
func (g *Grid) Occupy(occ Occupant, pos Coord, width, height int) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			g.occupants[Coord{X: pos.X + dx, Y: pos.Y + dy}] = occ
		}
	}
}

// Vacate clears the occupancy entries of a footprint. Removing a structure
// without vacating its tiles leaves dangling references.
func (g *Grid) Vacate(pos Coord, width, height int) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			delete(g.occupants, Coord{X: pos.X + dx, Y: pos.Y + dy})
		}
	}
}

// Traversable reports whether an agent may step onto the tile: in bounds,
// passable terrain, and either unoccupied or the occupying structure's
// designated interaction point.
func (g *Grid) Traversable(c Coord) bool {
	t := g.At(c)
	if t == nil || !t.Terrain.Passable() {
		return false
	}
	if occ, ok := g.occupants[c]; ok {
		return occ.Interaction == c
	}
	return true
}

// BuildableArea reports whether every tile of the footprint is buildable
// grass with no occupant.
func (g *Grid) BuildableArea(pos Coord, width, height int) bool {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			c := Coord{X: pos.X + dx, Y: pos.Y + dy}
			t := g.At(c)
			if t == nil || !t.Buildable || t.Terrain != TerrainGrass {
				return false
			}
			if _, occupied := g.occupants[c]; occupied {
				return false
			}
		}
	}
	return true
}

// TileCount returns the total number of tiles.
func (g *Grid) TileCount() int {
	return len(g.tiles)
}

// TerrainCounts tallies tiles by terrain kind.
func (g *Grid) TerrainCounts() map[Terrain]int {
	counts := make(map[Terrain]int)
	for i := range g.tiles {
		counts[g.tiles[i].Terrain]++
	}
	return counts
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, occupied=%d)", g.Width, g.Height, len(g.occupants))
}
