package buildings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/homestead/internal/ledger"
	"github.com/talgya/homestead/internal/world"
)

func TestFootprints(t *testing.T) {
	w, h := Footprint(KindWarehouse)
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)

	for k := Kind(0); k < NumKinds; k++ {
		if k == KindWarehouse {
			continue
		}
		w, h := Footprint(k)
		assert.Equal(t, 1, w, KindName(k))
		assert.Equal(t, 1, h, KindName(k))
	}
}

func TestInteractionPoints(t *testing.T) {
	pos := world.Coord{X: 4, Y: 4}
	assert.Equal(t, world.Coord{X: 5, Y: 5}, InteractionPoint(KindWarehouse, pos),
		"warehouse interacts at its bottom-right corner")
	assert.Equal(t, pos, InteractionPoint(KindSawmill, pos),
		"1x1 buildings interact on their own tile")
}

func TestProducerRunsCycles(t *testing.T) {
	led := ledger.New()
	b := NewBuilding(1, KindWoodcutter, world.Coord{X: 0, Y: 0})

	require.True(t, b.AssignWorker(10, led))
	assert.True(t, b.Producing)

	// One full cycle of simulated time.
	for i := 0; i < ProductionIntervalMillis/100; i++ {
		b.Update(100, led)
	}
	assert.Equal(t, 1, led.Get(ledger.ResourceWood))
}

func TestConsumerNeedsInputToStart(t *testing.T) {
	led := ledger.New()
	b := NewBuilding(1, KindSawmill, world.Coord{X: 0, Y: 0})

	b.AssignWorker(10, led)
	assert.False(t, b.Producing, "no wood in stock: cannot start")

	led.Add(ledger.ResourceWood, 2)
	require.True(t, b.StartProduction(led))
	assert.Equal(t, 1, led.Get(ledger.ResourceWood), "starting consumes one batch")
}

func TestConsumerStopsOnStarvation(t *testing.T) {
	led := ledger.New()
	led.Add(ledger.ResourceWood, 1)
	b := NewBuilding(1, KindSawmill, world.Coord{X: 0, Y: 0})

	require.True(t, b.StartProduction(led))
	assert.Equal(t, 0, led.Get(ledger.ResourceWood))

	// Cycle completes: plank produced, next batch unavailable.
	b.Update(ProductionIntervalMillis, led)
	assert.Equal(t, 1, led.Get(ledger.ResourcePlank))
	assert.False(t, b.Producing)
}

func TestProductionScalesWithLevel(t *testing.T) {
	led := ledger.New()
	b := NewBuilding(1, KindQuarry, world.Coord{X: 0, Y: 0})
	b.Level = 3

	require.True(t, b.StartProduction(led))
	b.Update(ProductionIntervalMillis, led)
	assert.Equal(t, 3, led.Get(ledger.ResourceStone))
}

func TestNonProducerNeverProduces(t *testing.T) {
	led := ledger.New()
	b := NewBuilding(1, KindWarehouse, world.Coord{X: 0, Y: 0})

	assert.False(t, b.StartProduction(led))
	b.AssignWorker(10, led)
	assert.False(t, b.Producing)
}

func TestWorkerListCapacityAndToggle(t *testing.T) {
	led := ledger.New()
	b := NewBuilding(1, KindFarm, world.Coord{X: 0, Y: 0})

	require.True(t, b.AssignWorker(1, led))
	require.True(t, b.AssignWorker(2, led))
	assert.False(t, b.AssignWorker(3, led), "capacity is two")
	assert.False(t, b.AssignWorker(2, led), "duplicate rejected")
	assert.True(t, b.Producing)

	require.True(t, b.RemoveWorker(1))
	assert.True(t, b.Producing, "still one worker")
	require.True(t, b.RemoveWorker(2))
	assert.False(t, b.Producing, "zero workers stops production")
	assert.False(t, b.RemoveWorker(9))
}

func TestUpgrade(t *testing.T) {
	led := ledger.New()
	b := NewBuilding(1, KindWoodcutter, world.Coord{X: 0, Y: 0})

	assert.False(t, b.Upgrade(led), "no resources")
	assert.Equal(t, 1, b.Level)

	led.Add(ledger.ResourcePlank, 100)
	require.True(t, b.Upgrade(led))
	require.True(t, b.Upgrade(led))
	assert.Equal(t, MaxLevel, b.Level)
	assert.False(t, b.Upgrade(led), "level capped")
}
