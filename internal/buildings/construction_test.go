package buildings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/homestead/internal/ledger"
	"github.com/talgya/homestead/internal/world"
)

func TestManifestCopiedFromCostTable(t *testing.T) {
	c := NewConstruction(1, KindMill, world.Coord{X: 2, Y: 2})
	assert.Equal(t, CostOf(KindMill), c.Required)

	// Mutating the manifest must not touch the shared table.
	c.Required[ledger.ResourcePlank] = 99
	assert.NotEqual(t, 99, CostOf(KindMill)[ledger.ResourcePlank])
}

func TestAllocationBoundedByRequirement(t *testing.T) {
	c := NewConstruction(1, KindWoodcutter, world.Coord{}) // needs 2 plank

	assert.Equal(t, 1, c.Allocate(ledger.ResourcePlank, 1))
	assert.Equal(t, 1, c.Allocate(ledger.ResourcePlank, 5), "clamped to the remaining requirement")
	assert.Equal(t, 0, c.Allocate(ledger.ResourcePlank, 1), "already full")

	for r, req := range c.Required {
		assert.LessOrEqual(t, c.Allocated[r], req)
	}
}

func TestAllocateRejectsUnneededResource(t *testing.T) {
	c := NewConstruction(1, KindWoodcutter, world.Coord{})
	assert.Equal(t, 0, c.Allocate(ledger.ResourceFish, 1))
	assert.Equal(t, 0, c.Allocate(ledger.ResourcePlank, 0))
}

func TestHasAllResources(t *testing.T) {
	c := NewConstruction(1, KindSawmill, world.Coord{}) // 2 plank, 1 stone
	assert.False(t, c.HasAllResources())

	c.Allocate(ledger.ResourcePlank, 2)
	assert.False(t, c.HasAllResources())

	c.Allocate(ledger.ResourceStone, 1)
	assert.True(t, c.HasAllResources())
}

func TestNextNeededScansInFixedOrder(t *testing.T) {
	c := NewConstruction(1, KindSawmill, world.Coord{}) // 2 plank, 1 stone

	r, ok := c.NextNeeded()
	require.True(t, ok)
	assert.Equal(t, ledger.ResourcePlank, r, "plank precedes stone in the scan order")

	c.Allocate(ledger.ResourcePlank, 2)
	r, ok = c.NextNeeded()
	require.True(t, ok)
	assert.Equal(t, ledger.ResourceStone, r)

	c.Allocate(ledger.ResourceStone, 1)
	_, ok = c.NextNeeded()
	assert.False(t, ok)
}

func TestProgressCompletion(t *testing.T) {
	c := NewConstruction(1, KindWell, world.Coord{X: 3, Y: 3})
	assert.False(t, c.Complete())

	c.MarkBuilt()
	assert.Equal(t, 100, c.Progress)
	assert.True(t, c.Complete())
}

func TestConstructionInteractionPointMatchesKindRule(t *testing.T) {
	c := NewConstruction(1, KindWarehouse, world.Coord{X: 10, Y: 10})
	assert.Equal(t, world.Coord{X: 11, Y: 11}, c.InteractionPoint())

	w, h := c.Footprint()
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)
}

func TestChainTable(t *testing.T) {
	assert.Nil(t, ChainFor(KindWarehouse))
	assert.Nil(t, ChainFor(KindHouse))

	sawmill := ChainFor(KindSawmill)
	require.NotNil(t, sawmill)
	assert.Equal(t, ledger.ResourceWood, sawmill.Consumes)
	assert.Equal(t, ledger.ResourcePlank, sawmill.Produces)

	woodcutter := ChainFor(KindWoodcutter)
	require.NotNil(t, woodcutter)
	assert.Zero(t, woodcutter.ConsumeAmount)
}
