package settlers

import (
	"fmt"
	"log/slog"

	"github.com/talgya/homestead/internal/buildings"
)

// updatePorter drives the Idle → Fetching → Delivering → Idle loop.
func (s *Settler) updatePorter(ctx *Context, dtMillis int64) {
	switch s.State {
	case StateIdle:
		s.porterIdle(ctx)
	case StateFetching:
		s.porterFetch(ctx, dtMillis)
	case StateDelivering:
		s.porterDeliver(ctx, dtMillis)
	default:
		slog.Warn("porter in invalid state, resetting",
			"settler", s.Name, "state", s.State)
		s.resetToIdle()
	}
}

// porterIdle scans for an under-supplied construction site, preferring the
// previously-serviced one while it remains valid. Finding none, the porter
// backs off instead of busy-looping.
func (s *Settler) porterIdle(ctx *Context) {
	if s.waiting(ctx) {
		return
	}

	target := s.Target
	if !ctx.HasConstruction(target) || target.HasAllResources() {
		target = nil
		for _, c := range ctx.Constructions {
			if !c.HasAllResources() {
				target = c
				break
			}
		}
	}
	if target == nil || ctx.Warehouse == nil {
		s.Target = nil
		s.waitUntil(ctx.NowMillis + IdleBackoffMillis)
		return
	}

	if _, ok := target.NextNeeded(); !ok {
		s.waitUntil(ctx.NowMillis + IdleBackoffMillis)
		return
	}

	s.Target = target
	s.State = StateFetching
	s.setDestination(ctx, ctx.Warehouse.InteractionPoint())
}

// porterFetch walks to the warehouse and withdraws one unit of the needed
// resource. A target that became fully resourced en route is abandoned;
// nothing is carried yet, so nothing is lost.
func (s *Settler) porterFetch(ctx *Context, dtMillis int64) {
	if !ctx.HasConstruction(s.Target) || s.Target.HasAllResources() {
		s.Target = nil
		s.resetToIdle()
		return
	}
	if ctx.Warehouse == nil {
		s.resetToIdle()
		return
	}

	if !s.advanceMovement(ctx, dtMillis) {
		return
	}

	needed, ok := s.Target.NextNeeded()
	if !ok {
		s.Target = nil
		s.resetToIdle()
		return
	}

	// Withdraw a single unit. An empty stock is an expected outcome:
	// stay in Fetching and retry after the backoff.
	if !ctx.Ledger.Remove(needed, 1) {
		s.waitUntil(ctx.NowMillis + IdleBackoffMillis)
		return
	}

	s.Carrying = needed
	s.CarryAmount = 1
	s.State = StateDelivering
	s.setDestination(ctx, s.Target.InteractionPoint())
}

// porterDeliver walks the carried unit to the site and allocates it. If the
// site vanished mid-trip the unit is lost — no refund.
func (s *Settler) porterDeliver(ctx *Context, dtMillis int64) {
	if !ctx.HasConstruction(s.Target) {
		s.Carrying = ""
		s.CarryAmount = 0
		s.Target = nil
		s.resetToIdle()
		return
	}

	if !s.advanceMovement(ctx, dtMillis) {
		return
	}

	s.Target.Allocate(s.Carrying, s.CarryAmount)
	ctx.emit("logistics", fmt.Sprintf("%s delivered %d %s to the %s site",
		s.Name, s.CarryAmount, s.Carrying, buildings.KindName(s.Target.Type)))
	s.Carrying = ""
	s.CarryAmount = 0

	if !s.Target.HasAllResources() && ctx.Warehouse != nil {
		// Same site still needs more: straight back to the warehouse.
		s.State = StateFetching
		s.setDestination(ctx, ctx.Warehouse.InteractionPoint())
		return
	}

	s.Target = nil
	s.resetToIdle()
}

// resetToIdle forces the settler back to Idle and clears movement.
func (s *Settler) resetToIdle() {
	s.State = StateIdle
	s.clearMovement()
	s.buildElapsed = 0
}
