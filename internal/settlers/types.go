// Package settlers provides the autonomous agents: porters hauling resource
// units between the warehouse and construction sites, and builders raising
// fully-supplied sites into buildings. Each settler is a small per-tick
// finite state machine.
package settlers

import (
	"math/rand"

	"github.com/talgya/homestead/internal/buildings"
	"github.com/talgya/homestead/internal/ledger"
	"github.com/talgya/homestead/internal/world"
)

// Kind enumerates settler professions.
type Kind uint8

const (
	KindPorter  Kind = iota
	KindBuilder
	KindGeologist // Reserved — no behavior yet
)

var kindNames = [...]string{"porter", "builder", "geologist"}

// KindName returns the display name for a settler kind.
func KindName(k Kind) string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// State is a settler's current FSM state. Porters use Idle, Fetching and
// Delivering; builders use Idle, Moving and Building.
type State uint8

const (
	StateIdle State = iota
	StateFetching
	StateDelivering
	StateMoving
	StateBuilding
)

var stateNames = [...]string{"idle", "fetching", "delivering", "moving", "building"}

// StateName returns the display name for a state.
func StateName(s State) string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Settler is one agent. Its grid position is authoritative for pathfinding;
// the world-space position (X, Y, in tile units) is what actually moves each
// tick and the grid position is recomputed from it on arrival.
type Settler struct {
	ID    uint64 `json:"id"`
	Kind  Kind   `json:"kind"`
	Name  string `json:"name"`
	State State  `json:"state"`

	Pos  world.Coord `json:"pos"`
	X, Y float64     // world-space position in tile units

	// Movement: an optional target tile and the remaining path legs.
	hasTarget  bool
	targetTile world.Coord
	path       []world.Coord

	// Gate for backoff retries and inter-leg pauses: the settler does
	// nothing until simulated time reaches this value.
	nextEligibleMillis int64

	// Stall detection.
	lastX, lastY float64
	stallTicks   int
	jitters      int

	// Porter payload.
	Carrying    ledger.Resource `json:"carrying,omitempty"`
	CarryAmount int             `json:"carry_amount,omitempty"`

	// The construction currently serviced (porter) or built (builder).
	// Non-owning: validity is re-checked against the world list every tick.
	Target *buildings.Construction `json:"-"`

	// Builder payload: simulated milliseconds into the build session.
	buildElapsed int64
}

// New creates a settler of the given kind at a grid position.
func New(id uint64, k Kind, name string, pos world.Coord) *Settler {
	return &Settler{
		ID:   id,
		Kind: k,
		Name: name,
		Pos:  pos,
		X:    float64(pos.X),
		Y:    float64(pos.Y),
	}
}

// Context carries the per-tick world view a settler updates against. The
// coordinator rebuilds it each tick; settlers hold no owning references.
type Context struct {
	Grid          *world.Grid
	Finder        *world.PathFinder
	Ledger        *ledger.Ledger
	Constructions []*buildings.Construction
	Warehouse     *buildings.Building
	NowMillis     int64
	Rand          *rand.Rand

	// Event sink for notable occurrences, nil to discard.
	Event func(category, description string)
}

// HasConstruction reports whether the construction is still present in the
// world's authoritative list. Absence is the sole cancellation signal.
func (ctx *Context) HasConstruction(c *buildings.Construction) bool {
	if c == nil {
		return false
	}
	for _, live := range ctx.Constructions {
		if live == c {
			return true
		}
	}
	return false
}

func (ctx *Context) emit(category, description string) {
	if ctx.Event != nil {
		ctx.Event(category, description)
	}
}

// Update advances the settler one tick. dtMillis is simulated time elapsed.
func (s *Settler) Update(ctx *Context, dtMillis int64) {
	switch s.Kind {
	case KindPorter:
		s.updatePorter(ctx, dtMillis)
	case KindBuilder:
		s.updateBuilder(ctx, dtMillis)
	default:
		// Reserved kinds have no behavior yet.
	}
}
