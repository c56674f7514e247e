package engine

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/talgya/homestead/internal/buildings"
	"github.com/talgya/homestead/internal/ledger"
	"github.com/talgya/homestead/internal/settlers"
	"github.com/talgya/homestead/internal/world"
)

// Event is a notable occurrence in the world.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "construction", "logistics", "production", "placement"
}

// SimStats tracks aggregate world statistics.
type SimStats struct {
	Buildings     int `json:"buildings"`
	Constructions int `json:"constructions"`
	Settlers      int `json:"settlers"`
	IdleSettlers  int `json:"idle_settlers"`
	Producing     int `json:"producing"`
	TotalStock    int `json:"total_stock"`
}

// Simulation is the world coordinator: it owns the authoritative lists of
// buildings, constructions, and settlers, and advances each of them once
// per tick, settlers first, then buildings, then constructions.
type Simulation struct {
	Grid   *world.Grid
	Finder *world.PathFinder
	Ledger *ledger.Ledger

	Buildings     []*buildings.Building
	Constructions []*buildings.Construction
	Settlers      []*settlers.Settler

	Events   []Event
	LastTick uint64
	Stats    SimStats

	rng          *rand.Rand
	nextEntityID uint64
	nowMillis    int64

	// Pending placement selection from the (external) UI layer.
	pendingPlacement *buildings.Kind

	// Index of the first event not yet handed to the journal.
	drained int
}

// NewSimulation creates an empty simulation over a generated grid.
func NewSimulation(g *world.Grid, led *ledger.Ledger, seed int64) *Simulation {
	return &Simulation{
		Grid:         g,
		Finder:       world.NewPathFinder(g),
		Ledger:       led,
		rng:          rand.New(rand.NewSource(seed + 500)),
		nextEntityID: 1,
	}
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	return s.LastTick
}

// NowMillis returns the simulated time in milliseconds.
func (s *Simulation) NowMillis() int64 {
	return s.nowMillis
}

func (s *Simulation) nextID() uint64 {
	id := s.nextEntityID
	s.nextEntityID++
	return id
}

func (s *Simulation) record(tick uint64, category, description string) {
	s.Events = append(s.Events, Event{Tick: tick, Category: category, Description: description})
}

// Tick advances every settler, every building, and every construction once.
func (s *Simulation) Tick(tick uint64) {
	s.LastTick = tick
	s.nowMillis += TickMillis

	ctx := &settlers.Context{
		Grid:          s.Grid,
		Finder:        s.Finder,
		Ledger:        s.Ledger,
		Constructions: s.Constructions,
		Warehouse:     s.Warehouse(),
		NowMillis:     s.nowMillis,
		Rand:          s.rng,
		Event: func(category, description string) {
			s.record(tick, category, description)
		},
	}

	for _, st := range s.Settlers {
		st.Update(ctx, TickMillis)
	}

	for _, b := range s.Buildings {
		wasProducing := b.Producing
		b.Update(TickMillis, s.Ledger)
		if wasProducing && !b.Producing {
			s.record(tick, "production", fmt.Sprintf("%s halted: out of input", b.Name()))
		}
	}

	// Completed sites are swapped for buildings after all agents have run,
	// so a site never disappears mid-update.
	for _, c := range s.Constructions {
		if c.Complete() {
			s.CompleteConstruction(c)
		}
	}

	s.updateStats()

	// Trim old events to prevent unbounded growth (keep last 1000).
	if len(s.Events) > 1000 {
		over := len(s.Events) - 1000
		s.Events = s.Events[over:]
		s.drained -= over
		if s.drained < 0 {
			s.drained = 0
		}
	}
}

// Warehouse returns the settlement's warehouse, nil before one exists.
func (s *Simulation) Warehouse() *buildings.Building {
	for _, b := range s.Buildings {
		if b.Type == buildings.KindWarehouse {
			return b
		}
	}
	return nil
}

// FindBuilding returns a building by ID.
func (s *Simulation) FindBuilding(id uint64) *buildings.Building {
	for _, b := range s.Buildings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// AddBuilding creates a completed building directly (world init only) and
// claims its footprint.
func (s *Simulation) AddBuilding(k buildings.Kind, pos world.Coord) *buildings.Building {
	b := buildings.NewBuilding(s.nextID(), k, pos)
	s.Buildings = append(s.Buildings, b)
	w, h := b.Footprint()
	s.Grid.Occupy(world.Occupant{
		Kind:        world.OccupantBuilding,
		ID:          b.ID,
		Interaction: b.InteractionPoint(),
	}, pos, w, h)
	return b
}

// AddSettler registers a settler with the world.
func (s *Simulation) AddSettler(st *settlers.Settler) {
	s.Settlers = append(s.Settlers, st)
}

// StartBuildingPlacement begins a placement selection for the UI layer.
func (s *Simulation) StartBuildingPlacement(k buildings.Kind) {
	s.pendingPlacement = &k
}

// CancelBuildingPlacement clears any pending placement selection.
func (s *Simulation) CancelBuildingPlacement() {
	s.pendingPlacement = nil
}

// PendingPlacement returns the kind currently being placed, if any.
func (s *Simulation) PendingPlacement() (buildings.Kind, bool) {
	if s.pendingPlacement == nil {
		return 0, false
	}
	return *s.pendingPlacement, true
}

// PlaceBuilding validates and accepts a placement command: the footprint
// must be entirely buildable grass and unoccupied, and the ledger must cover
// the build cost. On success the cost is consumed and a construction site is
// created; rejection mutates nothing.
func (s *Simulation) PlaceBuilding(k buildings.Kind, pos world.Coord) (*buildings.Construction, error) {
	w, h := buildings.Footprint(k)
	if !s.Grid.BuildableArea(pos, w, h) {
		return nil, fmt.Errorf("place %s at %d,%d: footprint not buildable", buildings.KindName(k), pos.X, pos.Y)
	}
	cost := buildings.CostOf(k)
	if !s.Ledger.HasAll(cost) {
		return nil, fmt.Errorf("place %s: not enough resources", buildings.KindName(k))
	}
	s.Ledger.ConsumeAll(cost)

	c := buildings.NewConstruction(s.nextID(), k, pos)
	s.Constructions = append(s.Constructions, c)
	s.Grid.Occupy(world.Occupant{
		Kind:        world.OccupantConstruction,
		ID:          c.ID,
		Interaction: c.InteractionPoint(),
	}, pos, w, h)

	s.pendingPlacement = nil
	s.record(s.LastTick, "placement", fmt.Sprintf("%s site staked at %d,%d", buildings.KindName(k), pos.X, pos.Y))
	return c, nil
}

// CompleteConstruction removes a finished site from the constructions list
// and raises the concrete building on the same footprint. Only position and
// type carry over.
func (s *Simulation) CompleteConstruction(c *buildings.Construction) *buildings.Building {
	found := false
	for i, live := range s.Constructions {
		if live == c {
			s.Constructions = append(s.Constructions[:i], s.Constructions[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	w, h := c.Footprint()
	s.Grid.Vacate(c.Position, w, h)

	b := s.AddBuilding(c.Type, c.Position)
	s.record(s.LastTick, "construction", fmt.Sprintf("%s completed at %d,%d", b.Name(), b.Position.X, b.Position.Y))
	return b
}

// AssignWorker adds a worker slot to a building, starting production when
// the count crosses zero.
func (s *Simulation) AssignWorker(buildingID, workerID uint64) bool {
	b := s.FindBuilding(buildingID)
	if b == nil {
		return false
	}
	return b.AssignWorker(workerID, s.Ledger)
}

// RemoveWorker removes a worker slot from a building.
func (s *Simulation) RemoveWorker(buildingID, workerID uint64) bool {
	b := s.FindBuilding(buildingID)
	if b == nil {
		return false
	}
	return b.RemoveWorker(workerID)
}

// UpgradeBuilding raises a building's level if the ledger can cover it.
func (s *Simulation) UpgradeBuilding(buildingID uint64) bool {
	b := s.FindBuilding(buildingID)
	if b == nil {
		return false
	}
	return b.Upgrade(s.Ledger)
}

// DrainEvents returns the events recorded since the previous drain.
func (s *Simulation) DrainEvents() []Event {
	if s.drained >= len(s.Events) {
		return nil
	}
	out := make([]Event, len(s.Events)-s.drained)
	copy(out, s.Events[s.drained:])
	s.drained = len(s.Events)
	return out
}

func (s *Simulation) updateStats() {
	idle := 0
	for _, st := range s.Settlers {
		if st.State == settlers.StateIdle {
			idle++
		}
	}
	producing := 0
	for _, b := range s.Buildings {
		if b.Producing {
			producing++
		}
	}
	stock := 0
	for _, amount := range s.Ledger.Snapshot() {
		stock += amount
	}

	s.Stats = SimStats{
		Buildings:     len(s.Buildings),
		Constructions: len(s.Constructions),
		Settlers:      len(s.Settlers),
		IdleSettlers:  idle,
		Producing:     producing,
		TotalStock:    stock,
	}
}

// Report logs a periodic summary in the engine's report callback.
func (s *Simulation) Report(tick uint64) {
	slog.Info("settlement report",
		"tick", tick,
		"time", SimTime(tick),
		"buildings", s.Stats.Buildings,
		"constructions", s.Stats.Constructions,
		"settlers", s.Stats.Settlers,
		"idle", s.Stats.IdleSettlers,
		"producing", s.Stats.Producing,
		"stock", s.Stats.TotalStock,
	)
}
