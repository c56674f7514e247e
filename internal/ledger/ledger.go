// Package ledger provides the authoritative resource accounts the whole
// settlement contends over. Quantities are non-negative integers; any
// operation that would overdraw is rejected outright, never clamped.
package ledger

// Resource names a material tracked by the ledger.
type Resource string

const (
	ResourceWood  Resource = "wood"
	ResourcePlank Resource = "plank"
	ResourceStone Resource = "stone"
	ResourceGrain Resource = "grain"
	ResourceFlour Resource = "flour"
	ResourceBread Resource = "bread"
	ResourceFish  Resource = "fish"
	ResourceWater Resource = "water"
)

// Listener receives the full resource snapshot after every successful
// mutation. Consumed by the (external) display layer and the API stream.
type Listener func(snapshot map[Resource]int)

// Ledger holds named resource quantities.
//
// All mutation happens inside the single-threaded tick loop; the
// check-then-act sequences in Remove and ConsumeAll are race-free only under
// that model. Callers updating from multiple goroutines must serialize
// access themselves.
type Ledger struct {
	amounts   map[Resource]int
	listeners []Listener
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{amounts: make(map[Resource]int)}
}

// Get returns the current amount of a resource, zero if absent.
func (l *Ledger) Get(r Resource) int {
	return l.amounts[r]
}

// Add increases a resource count. Always succeeds.
func (l *Ledger) Add(r Resource, amount int) {
	if amount <= 0 {
		return
	}
	l.amounts[r] += amount
	l.notify()
}

// Remove decreases a resource count. Returns false with no mutation when the
// requested amount exceeds the current stock.
func (l *Ledger) Remove(r Resource, amount int) bool {
	if amount <= 0 {
		return true
	}
	if l.amounts[r] < amount {
		return false
	}
	l.amounts[r] -= amount
	l.notify()
	return true
}

// HasAll reports whether every requirement entry is currently satisfiable.
func (l *Ledger) HasAll(requirements map[Resource]int) bool {
	for r, amount := range requirements {
		if l.amounts[r] < amount {
			return false
		}
	}
	return true
}

// ConsumeAll decrements every requirement entry, or none of them. The
// check-first implementation is atomic under the per-tick execution model.
func (l *Ledger) ConsumeAll(requirements map[Resource]int) bool {
	if !l.HasAll(requirements) {
		return false
	}
	changed := false
	for r, amount := range requirements {
		if amount > 0 {
			l.amounts[r] -= amount
			changed = true
		}
	}
	if changed {
		l.notify()
	}
	return true
}

// Snapshot returns a copy of all current resource counts.
func (l *Ledger) Snapshot() map[Resource]int {
	out := make(map[Resource]int, len(l.amounts))
	for r, amount := range l.amounts {
		out[r] = amount
	}
	return out
}

// AddListener registers a callback invoked with the full snapshot after
// every successful mutation.
func (l *Ledger) AddListener(fn Listener) {
	l.listeners = append(l.listeners, fn)
}

func (l *Ledger) notify() {
	if len(l.listeners) == 0 {
		return
	}
	snap := l.Snapshot()
	for _, fn := range l.listeners {
		fn(snap)
	}
}
