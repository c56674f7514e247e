package buildings

import (
	"github.com/talgya/homestead/internal/ledger"
	"github.com/talgya/homestead/internal/world"
)

// BuildDurationMillis is the fixed length of a builder's build session in
// simulated time.
const BuildDurationMillis = 5000

// Construction is a building site: a placeholder entity tracking the
// resources physically delivered to it and the labor progress toward the
// finished building. Porters drive the allocation side, builders the
// progress side; the two are independent.
type Construction struct {
	ID       uint64      `json:"id"`
	Type     Kind        `json:"type"`
	Position world.Coord `json:"position"`

	// Required is copied from the static cost table at creation and never
	// changes. Allocated rises monotonically, bounded by Required.
	Required  map[ledger.Resource]int `json:"required"`
	Allocated map[ledger.Resource]int `json:"allocated"`

	// Progress runs 0..100 and reaches 100 only through a completed build
	// session.
	Progress int `json:"progress"`
}

// NewConstruction creates a site for the given kind with an empty
// allocation.
func NewConstruction(id uint64, k Kind, pos world.Coord) *Construction {
	return &Construction{
		ID:        id,
		Type:      k,
		Position:  pos,
		Required:  CostOf(k),
		Allocated: make(map[ledger.Resource]int),
	}
}

// Footprint returns the site's tile dimensions (matching the target kind).
func (c *Construction) Footprint() (int, int) {
	return Footprint(c.Type)
}

// InteractionPoint returns the tile agents must reach to interact.
func (c *Construction) InteractionPoint() world.Coord {
	return InteractionPoint(c.Type, c.Position)
}

// NextNeeded returns the first under-supplied resource in the manifest, in
// the fixed allocation scan order. Multiple porters may see the same answer
// concurrently; there is no reservation, and the resulting over-fetch race
// is resolved by ledger scarcity alone.
func (c *Construction) NextNeeded() (ledger.Resource, bool) {
	for _, r := range allocationOrder {
		req, ok := c.Required[r]
		if ok && c.Allocated[r] < req {
			return r, true
		}
	}
	return "", false
}

// Allocate records delivered units of a resource and returns how many were
// accepted. Units beyond the requirement are refused so the allocation
// invariant holds no matter what porters deliver.
func (c *Construction) Allocate(r ledger.Resource, amount int) int {
	req, ok := c.Required[r]
	if !ok || amount <= 0 {
		return 0
	}
	room := req - c.Allocated[r]
	if room <= 0 {
		return 0
	}
	if amount > room {
		amount = room
	}
	c.Allocated[r] += amount
	return amount
}

// HasAllResources reports whether every required resource is fully
// allocated. A site is a valid porter target while this is false and a valid
// builder target once it is true.
func (c *Construction) HasAllResources() bool {
	for r, req := range c.Required {
		if c.Allocated[r] < req {
			return false
		}
	}
	return true
}

// Complete reports whether the site is ready to be replaced by its building.
func (c *Construction) Complete() bool {
	return c.Progress >= 100
}

// MarkBuilt sets progress to 100. Build sessions are binary: one builder
// finishes a site in a single uninterrupted session.
func (c *Construction) MarkBuilt() {
	c.Progress = 100
}
