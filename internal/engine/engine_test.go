package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepRunsCallbacksOnSchedule(t *testing.T) {
	e := NewEngine()

	var ticks, reports, persists int
	e.OnTick = func(uint64) { ticks++ }
	e.OnReport = func(uint64) { reports++ }
	e.OnPersist = func(uint64) { persists++ }

	for i := 0; i < ReportEveryTicks; i++ {
		e.Step()
	}

	assert.Equal(t, ReportEveryTicks, ticks)
	assert.Equal(t, 1, reports)
	assert.Equal(t, ReportEveryTicks/PersistEveryTicks, persists)
	assert.Equal(t, uint64(ReportEveryTicks), e.Tick)
}

func TestEnqueuedCommandsRunBeforeTick(t *testing.T) {
	e := NewEngine()

	var order []string
	e.OnTick = func(uint64) { order = append(order, "tick") }
	e.Enqueue(func() { order = append(order, "command") })

	e.Step()
	assert.Equal(t, []string{"command", "tick"}, order)
}

func TestSimTime(t *testing.T) {
	assert.Equal(t, "00:00:00", SimTime(0))
	// 600 ticks x 100ms = one simulated minute.
	assert.Equal(t, "00:01:00", SimTime(600))
	assert.Equal(t, "01:00:30", SimTime(36300))
}
