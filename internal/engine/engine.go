// Package engine provides the tick-based simulation loop and the world
// coordinator that runs inside it.
package engine

import (
	"fmt"
	"log/slog"
	"time"
)

// TickMillis is the simulated time that passes each tick.
const TickMillis = 100

// Reporting and persistence cadence, in ticks.
const (
	ReportEveryTicks  = 600 // one simulated minute
	PersistEveryTicks = 100
)

// Engine drives the simulation forward. All world mutation happens inside
// the callbacks, sequentially, one tick at a time.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused. Written by the API, read unsynchronized by the loop.
	Interval time.Duration // Real time per tick at speed 1.0
	Running  bool

	// Callbacks for each tick layer — populated during setup.
	OnTick    func(tick uint64) // Every tick
	OnReport  func(tick uint64) // Periodic summary
	OnPersist func(tick uint64) // Journal flush

	// Commands submitted from other goroutines (the API) run at the top of
	// the next tick, serialized with all world mutation.
	commands chan func()
}

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Speed:    1.0,
		Interval: TickMillis * time.Millisecond,
		commands: make(chan func(), 64),
	}
}

// Enqueue schedules a command to run inside the tick loop. Blocks only if
// the queue is full.
func (e *Engine) Enqueue(fn func()) {
	e.commands <- fn
}

// Run starts the simulation loop. Blocks until Stop is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed)

	for e.Running {
		if e.Speed <= 0 {
			// Paused — sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Step()

		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick)
}

// Stop halts the simulation loop.
func (e *Engine) Stop() {
	e.Running = false
}

// Step advances the simulation by one tick.
func (e *Engine) Step() {
	e.Tick++

	// Drain externally submitted commands first.
drain:
	for {
		select {
		case fn := <-e.commands:
			fn()
		default:
			break drain
		}
	}

	if e.OnTick != nil {
		e.OnTick(e.Tick)
	}
	if e.Tick%PersistEveryTicks == 0 && e.OnPersist != nil {
		e.OnPersist(e.Tick)
	}
	if e.Tick%ReportEveryTicks == 0 && e.OnReport != nil {
		e.OnReport(e.Tick)
	}
}

// SimTime returns a human-readable simulated time string from a tick number.
func SimTime(tick uint64) string {
	totalSeconds := tick * TickMillis / 1000
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
