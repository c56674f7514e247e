// Package buildings provides the structure catalog: building kinds, their
// footprints and interaction points, build costs, and the production chains
// completed buildings run.
package buildings

import (
	"github.com/talgya/homestead/internal/ledger"
	"github.com/talgya/homestead/internal/world"
)

// Kind enumerates the building types.
type Kind uint8

const (
	KindWarehouse Kind = iota
	KindWoodcutter
	KindSawmill
	KindQuarry
	KindFarm
	KindMill
	KindBakery
	KindFishery
	KindWell
	KindHouse
)

// NumKinds is the size of the closed kind set.
const NumKinds = 10

var kindNames = [NumKinds]string{
	"warehouse", "woodcutter", "sawmill", "quarry", "farm",
	"mill", "bakery", "fishery", "well", "house",
}

// KindName returns the display name for a building kind.
func KindName(k Kind) string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindByName resolves a display name back to a kind.
func KindByName(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// Footprint returns the tile dimensions of a kind. Everything is 1×1 except
// the warehouse.
func Footprint(k Kind) (width, height int) {
	if k == KindWarehouse {
		return 2, 2
	}
	return 1, 1
}

// InteractionPoint returns the single tile agents must reach to interact
// with a structure of the given kind placed at pos: the bottom-right corner
// for the warehouse, the bottom-center footprint tile otherwise.
func InteractionPoint(k Kind, pos world.Coord) world.Coord {
	w, h := Footprint(k)
	if k == KindWarehouse {
		return world.Coord{X: pos.X + w - 1, Y: pos.Y + h - 1}
	}
	return world.Coord{X: pos.X + w/2, Y: pos.Y + h - 1}
}

// Chain describes what a building kind consumes and produces per production
// cycle. Kinds absent from the table neither consume nor produce.
type Chain struct {
	Consumes      ledger.Resource
	ConsumeAmount int
	Produces      ledger.Resource
	Rate          int // Units produced per cycle at level 1
}

// chains is the static production chain table.
var chains = map[Kind]Chain{
	KindWoodcutter: {Produces: ledger.ResourceWood, Rate: 1},
	KindSawmill:    {Consumes: ledger.ResourceWood, ConsumeAmount: 1, Produces: ledger.ResourcePlank, Rate: 1},
	KindQuarry:     {Produces: ledger.ResourceStone, Rate: 1},
	KindFarm:       {Produces: ledger.ResourceGrain, Rate: 1},
	KindMill:       {Consumes: ledger.ResourceGrain, ConsumeAmount: 1, Produces: ledger.ResourceFlour, Rate: 1},
	KindBakery:     {Consumes: ledger.ResourceFlour, ConsumeAmount: 1, Produces: ledger.ResourceBread, Rate: 1},
	KindFishery:    {Produces: ledger.ResourceFish, Rate: 1},
	KindWell:       {Produces: ledger.ResourceWater, Rate: 1},
}

// ChainFor returns the production chain for a kind, or nil for kinds that
// run no production (warehouse, house).
func ChainFor(k Kind) *Chain {
	if c, ok := chains[k]; ok {
		return &c
	}
	return nil
}

// costs is the static build cost table, copied into every construction's
// required-resources manifest at creation.
var costs = map[Kind]map[ledger.Resource]int{
	KindWarehouse:  {ledger.ResourcePlank: 4, ledger.ResourceStone: 4},
	KindWoodcutter: {ledger.ResourcePlank: 2},
	KindSawmill:    {ledger.ResourcePlank: 2, ledger.ResourceStone: 1},
	KindQuarry:     {ledger.ResourcePlank: 2},
	KindFarm:       {ledger.ResourcePlank: 2, ledger.ResourceStone: 1},
	KindMill:       {ledger.ResourcePlank: 3, ledger.ResourceStone: 2},
	KindBakery:     {ledger.ResourcePlank: 2, ledger.ResourceStone: 2},
	KindFishery:    {ledger.ResourcePlank: 3},
	KindWell:       {ledger.ResourceStone: 3},
	KindHouse:      {ledger.ResourcePlank: 2, ledger.ResourceStone: 1},
}

// CostOf returns a copy of the build cost for a kind.
func CostOf(k Kind) map[ledger.Resource]int {
	out := make(map[ledger.Resource]int)
	for r, amount := range costs[k] {
		out[r] = amount
	}
	return out
}

// UpgradeCost returns the cost to raise a building from the given level to
// the next: the base build cost scaled by the current level.
func UpgradeCost(k Kind, level int) map[ledger.Resource]int {
	out := make(map[ledger.Resource]int)
	for r, amount := range costs[k] {
		out[r] = amount * level
	}
	return out
}

// allocationOrder fixes the order porters scan a manifest in, so that the
// "first under-supplied resource" is deterministic.
var allocationOrder = []ledger.Resource{
	ledger.ResourceWood, ledger.ResourcePlank, ledger.ResourceStone,
	ledger.ResourceGrain, ledger.ResourceFlour, ledger.ResourceBread,
	ledger.ResourceFish, ledger.ResourceWater,
}
