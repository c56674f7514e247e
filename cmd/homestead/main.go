// Command homestead runs the settlement simulation: an agrarian economy of
// buildings, construction sites, and the settlers that keep both supplied.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/talgya/homestead/internal/api"
	"github.com/talgya/homestead/internal/buildings"
	"github.com/talgya/homestead/internal/config"
	"github.com/talgya/homestead/internal/engine"
	"github.com/talgya/homestead/internal/ledger"
	"github.com/talgya/homestead/internal/persistence"
	"github.com/talgya/homestead/internal/settlers"
	"github.com/talgya/homestead/internal/world"
)

// Starting stock: enough planks and stone to stake the first few sites.
var startingStock = map[ledger.Resource]int{
	ledger.ResourcePlank: 20,
	ledger.ResourceStone: 12,
	ledger.ResourceWood:  6,
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	slog.Info("homestead settlement simulation",
		"seed", cfg.Seed,
		"grid", cfg.GridWidth*cfg.GridHeight,
		"porters", cfg.Porters,
		"builders", cfg.Builders,
	)

	// ── Journal database ──────────────────────────────────────────────
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open journal database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("journal opened", "path", cfg.DBPath)

	// ── World map (always regenerated — deterministic from seed) ──────
	genCfg := world.DefaultGenConfig()
	genCfg.Seed = cfg.Seed
	genCfg.Width = cfg.GridWidth
	genCfg.Height = cfg.GridHeight
	grid := world.Generate(genCfg)

	for terrain, count := range grid.TerrainCounts() {
		slog.Info("terrain", "type", world.TerrainName(terrain), "count", count)
	}

	// ── Simulation ────────────────────────────────────────────────────
	led := ledger.New()
	for r, amount := range startingStock {
		led.Add(r, amount)
	}

	sim := engine.NewSimulation(grid, led, cfg.Seed)

	// Starting warehouse in a cleared patch at the center.
	center := world.Coord{X: cfg.GridWidth / 2, Y: cfg.GridHeight / 2}
	world.ClearArea(grid, center, 6)
	warehouse := sim.AddBuilding(buildings.KindWarehouse, center)
	slog.Info("warehouse raised", "pos", warehouse.Position)

	spawner := settlers.NewSpawner(cfg.Seed)
	anchor := warehouse.InteractionPoint()
	for i := 0; i < cfg.Porters; i++ {
		sim.AddSettler(spawner.Spawn(settlers.KindPorter, anchor, grid))
	}
	for i := 0; i < cfg.Builders; i++ {
		sim.AddSettler(spawner.Spawn(settlers.KindBuilder, anchor, grid))
	}
	slog.Info("settlers spawned", "count", len(sim.Settlers))

	// ── Engine ────────────────────────────────────────────────────────
	eng := engine.NewEngine()
	eng.Speed = cfg.Speed

	hub := api.NewStreamHub()
	led.AddListener(func(snapshot map[ledger.Resource]int) {
		hub.Broadcast(api.StreamMessage{
			Kind:    "resources",
			Tick:    sim.CurrentTick(),
			Payload: snapshot,
		})
	})

	eng.OnTick = sim.Tick
	eng.OnReport = sim.Report
	eng.OnPersist = func(tick uint64) {
		if events := sim.DrainEvents(); len(events) > 0 {
			if err := db.AppendEvents(events); err != nil {
				slog.Warn("journal append failed", "error", err)
			}
		}
		if err := db.RecordStats(tick, sim.Stats, led.Snapshot()); err != nil {
			slog.Warn("stats record failed", "error", err)
		}
		hub.Broadcast(api.StreamMessage{Kind: "stats", Tick: tick, Payload: sim.Stats})
	}

	// ── API ───────────────────────────────────────────────────────────
	server := &api.Server{
		Sim:      sim,
		Eng:      eng,
		DB:       db,
		Hub:      hub,
		Port:     cfg.Port,
		AdminKey: cfg.AdminKey,
	}
	server.Start()

	// ── Run until interrupted ─────────────────────────────────────────
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		slog.Info("shutting down")
		eng.Stop()
	}()

	eng.Run()
}
