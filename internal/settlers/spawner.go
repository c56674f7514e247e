package settlers

import (
	"fmt"
	"math/rand"

	"github.com/talgya/homestead/internal/world"
)

// Spawner creates settlers for the simulation. Settlers are only created at
// world init; there is no recruitment afterward.
type Spawner struct {
	rng    *rand.Rand
	nextID uint64
}

// NewSpawner creates a settler spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		rng:    rand.New(rand.NewSource(seed + 300)),
		nextID: 1,
	}
}

var settlerNames = []string{
	"Aldric", "Berta", "Caspar", "Dagmar", "Eberhard", "Frieda",
	"Gernot", "Hilda", "Ingmar", "Jutta", "Konrad", "Liesel",
	"Magnus", "Nelda", "Ortwin", "Petra", "Quirin", "Runa",
	"Sigurd", "Thea", "Ulrich", "Verena", "Wenzel", "Ylva",
}

// Spawn creates one settler of the given kind near the anchor tile.
func (sp *Spawner) Spawn(k Kind, anchor world.Coord, g *world.Grid) *Settler {
	id := sp.nextID
	sp.nextID++

	name := settlerNames[sp.rng.Intn(len(settlerNames))]
	name = fmt.Sprintf("%s the %s", name, KindName(k))

	pos := sp.findOpenTile(anchor, g)
	return New(id, k, name, pos)
}

// findOpenTile returns a traversable tile near the anchor, spiraling out a
// few rings before giving up and using the anchor itself.
func (sp *Spawner) findOpenTile(anchor world.Coord, g *world.Grid) world.Coord {
	for radius := 1; radius <= 4; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				c := world.Coord{X: anchor.X + dx, Y: anchor.Y + dy}
				if g.Traversable(c) {
					if _, occupied := g.OccupantAt(c); !occupied {
						return c
					}
				}
			}
		}
	}
	return anchor
}
