package buildings

import (
	"github.com/talgya/homestead/internal/ledger"
	"github.com/talgya/homestead/internal/world"
)

// ProductionIntervalMillis is the fixed length of one production cycle in
// simulated time.
const ProductionIntervalMillis = 5000

// MaxLevel caps building upgrades.
const MaxLevel = 3

// WorkerCapacity is the worker list limit per building.
const WorkerCapacity = 2

// Building is a completed structure. Its production state is a plain toggle:
// idle until workers arrive, producing until resources run dry.
type Building struct {
	ID       uint64      `json:"id"`
	Type     Kind        `json:"type"`
	Position world.Coord `json:"position"`
	Level    int         `json:"level"`

	Producing bool     `json:"producing"`
	Workers   []uint64 `json:"workers"`

	// Simulated milliseconds accumulated toward the next production cycle.
	cycleMillis int64
}

// NewBuilding creates a level-1 building of the given kind.
func NewBuilding(id uint64, k Kind, pos world.Coord) *Building {
	return &Building{ID: id, Type: k, Position: pos, Level: 1}
}

// Name returns the building's display name.
func (b *Building) Name() string {
	return KindName(b.Type)
}

// Footprint returns the building's tile dimensions.
func (b *Building) Footprint() (int, int) {
	return Footprint(b.Type)
}

// InteractionPoint returns the tile agents must reach to interact.
func (b *Building) InteractionPoint() world.Coord {
	return InteractionPoint(b.Type, b.Position)
}

// Chain returns the building's production chain, nil if it runs none.
func (b *Building) Chain() *Chain {
	return ChainFor(b.Type)
}

// StartProduction attempts to begin a production cycle. Kinds that consume
// an input must check-and-consume one batch atomically first; kinds that
// consume nothing start unconditionally. Returns whether production is now
// running.
func (b *Building) StartProduction(led *ledger.Ledger) bool {
	chain := b.Chain()
	if chain == nil {
		return false
	}
	if chain.ConsumeAmount > 0 {
		if !led.ConsumeAll(map[ledger.Resource]int{chain.Consumes: chain.ConsumeAmount}) {
			return false
		}
	}
	b.Producing = true
	b.cycleMillis = 0
	return true
}

// StopProduction halts the production toggle.
func (b *Building) StopProduction() {
	b.Producing = false
	b.cycleMillis = 0
}

// Update advances the production timer by dt simulated milliseconds. When a
// cycle completes, the output lands in the ledger and the next input batch
// is consumed; starvation stops production until workers restart it.
func (b *Building) Update(dtMillis int64, led *ledger.Ledger) {
	if !b.Producing {
		return
	}
	chain := b.Chain()
	if chain == nil {
		b.StopProduction()
		return
	}

	b.cycleMillis += dtMillis
	for b.cycleMillis >= ProductionIntervalMillis {
		b.cycleMillis -= ProductionIntervalMillis
		led.Add(chain.Produces, chain.Rate*b.Level)

		if chain.ConsumeAmount > 0 {
			if !led.ConsumeAll(map[ledger.Resource]int{chain.Consumes: chain.ConsumeAmount}) {
				b.StopProduction()
				return
			}
		}
	}
}

// AssignWorker adds a worker to the building. Crossing zero workers starts
// production. Returns false when the worker list is full or the worker is
// already assigned.
func (b *Building) AssignWorker(workerID uint64, led *ledger.Ledger) bool {
	if len(b.Workers) >= WorkerCapacity {
		return false
	}
	for _, id := range b.Workers {
		if id == workerID {
			return false
		}
	}
	b.Workers = append(b.Workers, workerID)
	if len(b.Workers) == 1 && !b.Producing {
		b.StartProduction(led)
	}
	return true
}

// RemoveWorker removes a worker from the building. Crossing back to zero
// workers stops production.
func (b *Building) RemoveWorker(workerID uint64) bool {
	for i, id := range b.Workers {
		if id == workerID {
			b.Workers = append(b.Workers[:i], b.Workers[i+1:]...)
			if len(b.Workers) == 0 {
				b.StopProduction()
			}
			return true
		}
	}
	return false
}

// Upgrade raises the building one level if below the cap and the ledger can
// cover the upgrade cost. Rejection leaves the ledger untouched.
func (b *Building) Upgrade(led *ledger.Ledger) bool {
	if b.Level >= MaxLevel {
		return false
	}
	if !led.ConsumeAll(UpgradeCost(b.Type, b.Level)) {
		return false
	}
	b.Level++
	return true
}
