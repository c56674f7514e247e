// Package world provides the square tile grid, terrain, and spatial data
// structures the simulation runs on.
package world

// Coord is a position on the tile grid.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Manhattan returns the 4-connected grid distance between two coordinates.
func Manhattan(a, b Coord) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Terrain types for grid tiles.
type Terrain uint8

const (
	TerrainGrass    Terrain = iota // Open ground — the only buildable terrain
	TerrainWater                   // Impassable
	TerrainSand                    // Shoreline
	TerrainForest                  // Passable, not buildable
	TerrainMountain                // Impassable
	TerrainSnow                    // High peaks fringe
	TerrainStone                   // Rocky foothills
)

// terrainNames indexed by Terrain value.
var terrainNames = [...]string{"grass", "water", "sand", "forest", "mountain", "snow", "stone"}

// TerrainName returns a human-readable terrain label.
func TerrainName(t Terrain) string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return "unknown"
}

// Passable reports whether agents may traverse this terrain at all.
// Occupancy is checked separately by the grid.
func (t Terrain) Passable() bool {
	return t != TerrainWater && t != TerrainMountain
}

// Tile is a single cell of the world grid.
type Tile struct {
	Coord     Coord   `json:"coord"`
	Terrain   Terrain `json:"terrain"`
	Buildable bool    `json:"buildable"`
}

// OccupantKind distinguishes the two structure classes that can hold tiles.
type OccupantKind uint8

const (
	OccupantBuilding OccupantKind = iota
	OccupantConstruction
)

// Occupant is a weak back-reference from a tile to the structure standing on
// it. The grid never owns the structure; removal must clear the reference.
// Interaction is the one footprint tile agents may path onto.
type Occupant struct {
	Kind        OccupantKind `json:"kind"`
	ID          uint64       `json:"id"`
	Interaction Coord        `json:"interaction"`
}
