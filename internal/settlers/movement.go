package settlers

import (
	"math"

	"github.com/talgya/homestead/internal/world"
)

// Movement tuning. All durations are simulated milliseconds.
const (
	// SpeedTilesPerSecond is the fixed linear movement speed.
	SpeedTilesPerSecond = 1.5

	// ArriveThreshold is how close (in tile units) counts as arrived.
	// Exact-equality comparison would livelock on floating point.
	ArriveThreshold = 0.05

	// LegDelayMillis is the short pause between path legs.
	LegDelayMillis = 100

	// IdleBackoffMillis is how long a settler waits before rescanning for
	// work after finding none, and between failed warehouse fetches.
	IdleBackoffMillis = 2000

	// Stall safeguard: if the world position moves less than stallEpsilon
	// for stallTickLimit consecutive ticks, jitter; after maxJitters,
	// teleport to the target and carry on.
	stallEpsilon   = 1e-4
	stallTickLimit = 120
	maxJitters     = 3
	jitterRange    = 0.2
)

// setDestination paths the settler toward a goal tile. An empty A* result
// falls back to direct-line movement toward the goal; the task proceeds
// rather than failing.
func (s *Settler) setDestination(ctx *Context, goal world.Coord) {
	s.targetTile = goal
	s.hasTarget = true
	s.path = ctx.Finder.FindPath(s.Pos, goal)
	s.stallTicks = 0
	s.jitters = 0
}

// clearMovement drops the target and path.
func (s *Settler) clearMovement() {
	s.hasTarget = false
	s.path = nil
	s.stallTicks = 0
	s.jitters = 0
}

// waitUntil gates the settler until the given simulated time.
func (s *Settler) waitUntil(millis int64) {
	s.nextEligibleMillis = millis
}

// waiting reports whether the settler is still inside a backoff or leg
// pause.
func (s *Settler) waiting(ctx *Context) bool {
	return ctx.NowMillis < s.nextEligibleMillis
}

// advanceMovement moves the settler toward its target for one tick and
// reports whether it has arrived at the final destination.
func (s *Settler) advanceMovement(ctx *Context, dtMillis int64) bool {
	// The wait gate applies even with no target: an arrived settler inside
	// a retry backoff must not act until the backoff elapses.
	if s.waiting(ctx) {
		return false
	}
	if !s.hasTarget {
		return true
	}

	// Current leg: next path cell, or the target tile on the last stretch.
	leg := s.targetTile
	if len(s.path) > 0 {
		leg = s.path[0]
	}

	gx := float64(leg.X)
	gy := float64(leg.Y)
	dx := gx - s.X
	dy := gy - s.Y
	dist := math.Hypot(dx, dy)

	step := SpeedTilesPerSecond * float64(dtMillis) / 1000.0
	if dist > ArriveThreshold {
		if step >= dist {
			s.X = gx
			s.Y = gy
		} else {
			s.X += dx / dist * step
			s.Y += dy / dist * step
		}
	}

	s.checkStall(ctx)

	if math.Hypot(gx-s.X, gy-s.Y) > ArriveThreshold {
		return false
	}

	// Leg complete: resync the grid position from the world position so
	// path desyncs self-correct.
	s.Pos = world.Coord{X: int(math.Round(s.X)), Y: int(math.Round(s.Y))}

	if len(s.path) > 0 {
		s.path = s.path[1:]
		if len(s.path) > 0 || s.Pos != s.targetTile {
			s.waitUntil(ctx.NowMillis + LegDelayMillis)
			return false
		}
	}

	if world.Manhattan(s.Pos, s.targetTile) > 0 {
		// Direct-line fallback still short of the target tile.
		return false
	}

	s.hasTarget = false
	s.path = nil
	return true
}

// checkStall applies the bounded-effort anti-stall valve: repeated jitter,
// then a snap straight to the target.
func (s *Settler) checkStall(ctx *Context) {
	if math.Abs(s.X-s.lastX) > stallEpsilon || math.Abs(s.Y-s.lastY) > stallEpsilon {
		s.lastX = s.X
		s.lastY = s.Y
		s.stallTicks = 0
		return
	}

	s.stallTicks++
	if s.stallTicks < stallTickLimit {
		return
	}
	s.stallTicks = 0

	if s.jitters < maxJitters {
		s.jitters++
		if ctx.Rand != nil {
			s.X += (ctx.Rand.Float64() - 0.5) * jitterRange
			s.Y += (ctx.Rand.Float64() - 0.5) * jitterRange
		}
		return
	}

	// Still stuck after repeated jitters: snap to the target and let the
	// state machine resume.
	s.X = float64(s.targetTile.X)
	s.Y = float64(s.targetTile.Y)
	s.Pos = s.targetTile
	s.path = nil
	s.jitters = 0
}
