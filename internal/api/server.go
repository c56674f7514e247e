// Package api provides the HTTP window onto the simulation.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane) and are
// executed inside the tick loop via the engine's command queue.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/talgya/homestead/internal/buildings"
	"github.com/talgya/homestead/internal/engine"
	"github.com/talgya/homestead/internal/persistence"
	"github.com/talgya/homestead/internal/settlers"
	"github.com/talgya/homestead/internal/world"
)

// Server serves the world state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	DB       *persistence.DB
	Hub      *StreamHub
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	journalLimiter := NewRateLimiter(120, time.Minute)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only — anyone can check in on the world).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/resources", s.handleResources)
	mux.HandleFunc("/api/v1/buildings", s.handleBuildings)
	mux.HandleFunc("/api/v1/constructions", s.handleConstructions)
	mux.HandleFunc("/api/v1/settlers", s.handleSettlers)
	mux.HandleFunc("/api/v1/map", s.handleMap)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/events", RateLimitMiddleware(journalLimiter, s.handleEvents))
	mux.HandleFunc("/api/v1/stats/history", RateLimitMiddleware(journalLimiter, s.handleStatsHistory))

	// Live stream (websocket).
	if s.Hub != nil {
		mux.HandleFunc("/api/v1/stream", s.Hub.HandleStream)
	}

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/place", s.adminOnly(s.handlePlace))
	mux.HandleFunc("/api/v1/workers", s.adminOnly(s.handleWorkers))
	mux.HandleFunc("/api/v1/upgrade", s.adminOnly(s.handleUpgrade))

	addr := fmt.Sprintf(":%d", s.Port)
	go func() {
		slog.Info("api listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("api server stopped", "error", err)
		}
	}()
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "error", err)
	}
}

// adminOnly gates POST endpoints behind the bearer token.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled", http.StatusForbidden)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.AdminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// runOnTick executes fn inside the tick loop and waits for its result, so
// admin mutations never race the simulation.
func (s *Server) runOnTick(fn func() error) error {
	done := make(chan error, 1)
	s.Eng.Enqueue(func() { done <- fn() })
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return errors.New("simulation did not pick up command (paused?)")
	}
}

// ── Read-only handlers ───────────────────────────────────────────────
// These read the live simulation state from HTTP goroutines without
// synchronization; the tick loop is the only writer, so responses may mix
// state from adjacent ticks. TODO: hand out snapshots through the command
// queue the way admin POSTs run, closing the concurrent map reads in the
// constructions view.

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"tick":     s.Sim.CurrentTick(),
		"sim_time": engine.SimTime(s.Sim.CurrentTick()),
		"speed":    s.Eng.Speed,
		"stats":    s.Sim.Stats,
		"watchers": s.watchers(),
	})
}

func (s *Server) watchers() int {
	if s.Hub == nil {
		return 0
	}
	return s.Hub.ClientCount()
}

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Ledger.Snapshot())
}

type buildingView struct {
	ID        uint64      `json:"id"`
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	Position  world.Coord `json:"position"`
	Level     int         `json:"level"`
	Producing bool        `json:"producing"`
	Produces  string      `json:"produces,omitempty"`
	Workers   int         `json:"workers"`
}

func (s *Server) handleBuildings(w http.ResponseWriter, r *http.Request) {
	out := make([]buildingView, 0, len(s.Sim.Buildings))
	for _, b := range s.Sim.Buildings {
		v := buildingView{
			ID:        b.ID,
			Name:      b.Name(),
			Type:      buildings.KindName(b.Type),
			Position:  b.Position,
			Level:     b.Level,
			Producing: b.Producing,
			Workers:   len(b.Workers),
		}
		if chain := b.Chain(); chain != nil {
			v.Produces = string(chain.Produces)
		}
		out = append(out, v)
	}
	writeJSON(w, out)
}

func (s *Server) handleConstructions(w http.ResponseWriter, r *http.Request) {
	type view struct {
		ID        uint64         `json:"id"`
		Type      string         `json:"type"`
		Position  world.Coord    `json:"position"`
		Progress  int            `json:"progress"`
		Required  map[string]int `json:"required"`
		Allocated map[string]int `json:"allocated"`
	}
	out := make([]view, 0, len(s.Sim.Constructions))
	for _, c := range s.Sim.Constructions {
		v := view{
			ID:        c.ID,
			Type:      buildings.KindName(c.Type),
			Position:  c.Position,
			Progress:  c.Progress,
			Required:  make(map[string]int),
			Allocated: make(map[string]int),
		}
		for res, amount := range c.Required {
			v.Required[string(res)] = amount
			v.Allocated[string(res)] = c.Allocated[res]
		}
		out = append(out, v)
	}
	writeJSON(w, out)
}

func (s *Server) handleSettlers(w http.ResponseWriter, r *http.Request) {
	type view struct {
		ID       uint64      `json:"id"`
		Name     string      `json:"name"`
		Kind     string      `json:"kind"`
		State    string      `json:"state"`
		Pos      world.Coord `json:"pos"`
		Carrying string      `json:"carrying,omitempty"`
	}
	out := make([]view, 0, len(s.Sim.Settlers))
	for _, st := range s.Sim.Settlers {
		out = append(out, view{
			ID:       st.ID,
			Name:     st.Name,
			Kind:     settlers.KindName(st.Kind),
			State:    settlers.StateName(st.State),
			Pos:      st.Pos,
			Carrying: string(st.Carrying),
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	counts := s.Sim.Grid.TerrainCounts()
	named := make(map[string]int, len(counts))
	for t, c := range counts {
		named[world.TerrainName(t)] = c
	}
	writeJSON(w, map[string]interface{}{
		"width":   s.Sim.Grid.Width,
		"height":  s.Sim.Grid.Height,
		"terrain": named,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Stats)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeJSON(w, s.Sim.Events)
		return
	}
	events, err := s.DB.RecentEvents(100)
	if err != nil {
		http.Error(w, "journal unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, events)
}

func (s *Server) handleStatsHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "journal unavailable", http.StatusNotFound)
		return
	}
	rows, err := s.DB.StatsHistory(200)
	if err != nil {
		http.Error(w, "journal unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, rows)
}

// ── Admin handlers ───────────────────────────────────────────────────

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Speed < 0 {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	// Speed changes must not wait on the tick loop: they are what unpause it.
	s.Eng.Speed = req.Speed
	writeJSON(w, map[string]interface{}{"speed": req.Speed})
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
		X    int    `json:"x"`
		Y    int    `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	kind, ok := buildings.KindByName(req.Type)
	if !ok {
		http.Error(w, "unknown building type", http.StatusBadRequest)
		return
	}

	err := s.runOnTick(func() error {
		_, placeErr := s.Sim.PlaceBuilding(kind, world.Coord{X: req.X, Y: req.Y})
		return placeErr
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, map[string]string{"placed": req.Type})
}

func (s *Server) handleWorkers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BuildingID uint64 `json:"building_id"`
		WorkerID   uint64 `json:"worker_id"`
		Action     string `json:"action"` // "assign" or "remove"
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	err := s.runOnTick(func() error {
		var ok bool
		switch req.Action {
		case "assign":
			ok = s.Sim.AssignWorker(req.BuildingID, req.WorkerID)
		case "remove":
			ok = s.Sim.RemoveWorker(req.BuildingID, req.WorkerID)
		default:
			return errors.New("unknown action")
		}
		if !ok {
			return errors.New("worker change rejected")
		}
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, map[string]string{"ok": req.Action})
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BuildingID uint64 `json:"building_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	err := s.runOnTick(func() error {
		if !s.Sim.UpgradeBuilding(req.BuildingID) {
			return errors.New("upgrade rejected")
		}
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, map[string]string{"ok": "upgrade"})
}
