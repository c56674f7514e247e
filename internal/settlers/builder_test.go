package settlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/homestead/internal/buildings"
	"github.com/talgya/homestead/internal/ledger"
	"github.com/talgya/homestead/internal/world"
)

func fullyResource(c *buildings.Construction) {
	for r, req := range c.Required {
		c.Allocate(r, req)
	}
}

func TestBuilderIgnoresUndersuppliedSites(t *testing.T) {
	tw := newTestWorld(t)
	tw.addSite(2, buildings.KindWell, world.Coord{X: 5, Y: 5})

	b := New(20, KindBuilder, "Ingmar the builder", world.Coord{X: 3, Y: 3})
	tw.step(b)
	assert.Equal(t, StateIdle, b.State)
	assert.Greater(t, b.nextEligibleMillis, int64(0), "no valid site: backoff")
}

func TestBuilderPrefersClosestSite(t *testing.T) {
	tw := newTestWorld(t)
	far := tw.addSite(2, buildings.KindWell, world.Coord{X: 10, Y: 10})
	near := tw.addSite(3, buildings.KindWell, world.Coord{X: 4, Y: 4})
	fullyResource(far)
	fullyResource(near)

	b := New(20, KindBuilder, "Jutta the builder", world.Coord{X: 3, Y: 3})
	tw.step(b)
	require.Equal(t, StateMoving, b.State)
	assert.Same(t, near, b.Target)
}

func TestBuilderCompletesSiteAfterFixedSession(t *testing.T) {
	// A fully resourced 1x1 site and one builder: after at least 5000ms of
	// accumulated build time, progress is exactly 100.
	tw := newTestWorld(t)
	site := tw.addSite(2, buildings.KindWell, world.Coord{X: 5, Y: 5})
	fullyResource(site)

	b := New(20, KindBuilder, "Konrad the builder", world.Coord{X: 3, Y: 3})

	tw.run(t, b, 200, func() bool { return b.State == StateBuilding })
	startMillis := tw.ctx.NowMillis

	tw.run(t, b, 100, func() bool { return site.Complete() })
	elapsed := tw.ctx.NowMillis - startMillis
	assert.GreaterOrEqual(t, elapsed, int64(buildings.BuildDurationMillis))
	assert.Equal(t, 100, site.Progress)
	assert.Equal(t, StateIdle, b.State)
	assert.Nil(t, b.Target)
}

func TestBuilderAbandonsVanishedSiteWhileMoving(t *testing.T) {
	tw := newTestWorld(t)
	site := tw.addSite(2, buildings.KindWell, world.Coord{X: 8, Y: 8})
	fullyResource(site)

	b := New(20, KindBuilder, "Liesel the builder", world.Coord{X: 1, Y: 5})
	tw.step(b)
	require.Equal(t, StateMoving, b.State)

	tw.removeSite(site)
	tw.step(b)
	assert.Equal(t, StateIdle, b.State)
	assert.Nil(t, b.Target)
}

func TestBuilderAbandonsVanishedSiteMidBuild(t *testing.T) {
	tw := newTestWorld(t)
	site := tw.addSite(2, buildings.KindWell, world.Coord{X: 5, Y: 5})
	fullyResource(site)

	b := New(20, KindBuilder, "Magnus the builder", world.Coord{X: 4, Y: 5})
	tw.run(t, b, 200, func() bool { return b.State == StateBuilding })

	tw.removeSite(site)
	tw.step(b)
	assert.Equal(t, StateIdle, b.State)
	assert.False(t, site.Complete(), "no progress granted to a dead site")
}

func TestBuilderInvalidStateResets(t *testing.T) {
	tw := newTestWorld(t)
	b := New(20, KindBuilder, "Nelda the builder", world.Coord{X: 3, Y: 3})
	b.State = State(99)

	tw.step(b)
	assert.Equal(t, StateIdle, b.State)
}

func TestBuilderWaitsWhenSiteNotFullyAllocated(t *testing.T) {
	tw := newTestWorld(t)
	site := tw.addSite(2, buildings.KindSawmill, world.Coord{X: 5, Y: 5})
	site.Allocate(ledger.ResourcePlank, 1) // partial

	b := New(20, KindBuilder, "Ortwin the builder", world.Coord{X: 3, Y: 3})
	tw.step(b)
	assert.Equal(t, StateIdle, b.State)
}
