package settlers

import (
	"fmt"
	"log/slog"

	"github.com/talgya/homestead/internal/buildings"
	"github.com/talgya/homestead/internal/world"
)

// updateBuilder drives the Idle → Moving → Building → Idle loop.
func (s *Settler) updateBuilder(ctx *Context, dtMillis int64) {
	switch s.State {
	case StateIdle:
		s.builderIdle(ctx)
	case StateMoving:
		s.builderMove(ctx, dtMillis)
	case StateBuilding:
		s.builderBuild(ctx, dtMillis)
	default:
		slog.Warn("builder in invalid state, resetting",
			"settler", s.Name, "state", s.State)
		s.resetToIdle()
	}
}

// builderIdle scans for a fully-supplied, unfinished site, preferring the
// closest by grid distance.
func (s *Settler) builderIdle(ctx *Context) {
	if s.waiting(ctx) {
		return
	}

	var target *buildings.Construction
	best := 0
	for _, c := range ctx.Constructions {
		if !c.HasAllResources() || c.Complete() {
			continue
		}
		d := world.Manhattan(s.Pos, c.InteractionPoint())
		if target == nil || d < best {
			target = c
			best = d
		}
	}
	if target == nil {
		s.waitUntil(ctx.NowMillis + IdleBackoffMillis)
		return
	}

	s.Target = target
	s.State = StateMoving
	s.setDestination(ctx, target.InteractionPoint())
}

// builderMove walks to the site's interaction point.
func (s *Settler) builderMove(ctx *Context, dtMillis int64) {
	if !ctx.HasConstruction(s.Target) {
		s.Target = nil
		s.resetToIdle()
		return
	}

	if !s.advanceMovement(ctx, dtMillis) {
		return
	}

	s.State = StateBuilding
	s.buildElapsed = 0
}

// builderBuild accumulates the uninterruptible build session. At the fixed
// duration the site completes in one step.
func (s *Settler) builderBuild(ctx *Context, dtMillis int64) {
	if !ctx.HasConstruction(s.Target) {
		s.Target = nil
		s.resetToIdle()
		return
	}

	s.buildElapsed += dtMillis
	if s.buildElapsed < buildings.BuildDurationMillis {
		return
	}

	s.Target.MarkBuilt()
	ctx.emit("construction", fmt.Sprintf("%s finished the %s",
		s.Name, buildings.KindName(s.Target.Type)))
	s.Target = nil
	s.resetToIdle()
}
