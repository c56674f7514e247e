package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAbsentIsZero(t *testing.T) {
	l := New()
	assert.Equal(t, 0, l.Get(ResourcePlank))
}

func TestAddAndRemove(t *testing.T) {
	l := New()
	l.Add(ResourceWood, 3)
	assert.Equal(t, 3, l.Get(ResourceWood))

	require.True(t, l.Remove(ResourceWood, 2))
	assert.Equal(t, 1, l.Get(ResourceWood))
}

func TestRemoveRejectsOverdraw(t *testing.T) {
	l := New()
	l.Add(ResourceStone, 2)

	assert.False(t, l.Remove(ResourceStone, 3))
	assert.Equal(t, 2, l.Get(ResourceStone), "failed remove must not mutate")
	assert.False(t, l.Remove(ResourceGrain, 1))
}

func TestNeverNegative(t *testing.T) {
	l := New()
	ops := []struct {
		add    int
		remove int
	}{
		{5, 3}, {0, 10}, {2, 4}, {1, 1}, {0, 1},
	}
	for _, op := range ops {
		l.Add(ResourceFish, op.add)
		l.Remove(ResourceFish, op.remove)
		assert.GreaterOrEqual(t, l.Get(ResourceFish), 0)
	}
}

func TestConsumeAllAtomic(t *testing.T) {
	l := New()
	l.Add(ResourcePlank, 4)
	l.Add(ResourceStone, 1)

	// Second entry unsatisfiable: nothing may change.
	ok := l.ConsumeAll(map[Resource]int{ResourcePlank: 2, ResourceStone: 2})
	assert.False(t, ok)
	assert.Equal(t, 4, l.Get(ResourcePlank))
	assert.Equal(t, 1, l.Get(ResourceStone))

	require.True(t, l.ConsumeAll(map[Resource]int{ResourcePlank: 2, ResourceStone: 1}))
	assert.Equal(t, 2, l.Get(ResourcePlank))
	assert.Equal(t, 0, l.Get(ResourceStone))
}

func TestConsumeAllScenario(t *testing.T) {
	// plank=10; consume 5 succeeds leaving 5; consume 6 fails leaving 5.
	l := New()
	l.Add(ResourcePlank, 10)

	require.True(t, l.ConsumeAll(map[Resource]int{ResourcePlank: 5}))
	assert.Equal(t, 5, l.Get(ResourcePlank))

	assert.False(t, l.ConsumeAll(map[Resource]int{ResourcePlank: 6}))
	assert.Equal(t, 5, l.Get(ResourcePlank))
}

func TestHasAll(t *testing.T) {
	l := New()
	l.Add(ResourceWood, 2)
	l.Add(ResourcePlank, 1)

	assert.True(t, l.HasAll(map[Resource]int{ResourceWood: 2, ResourcePlank: 1}))
	assert.False(t, l.HasAll(map[Resource]int{ResourceWood: 3}))
	assert.True(t, l.HasAll(nil))
}

func TestListenersSeeEveryMutation(t *testing.T) {
	l := New()
	var snapshots []map[Resource]int
	l.AddListener(func(snap map[Resource]int) {
		snapshots = append(snapshots, snap)
	})

	l.Add(ResourceWood, 2)
	require.True(t, l.Remove(ResourceWood, 1))
	assert.False(t, l.Remove(ResourceWood, 5)) // rejected: no notification

	require.Len(t, snapshots, 2)
	assert.Equal(t, 2, snapshots[0][ResourceWood])
	assert.Equal(t, 1, snapshots[1][ResourceWood])
}

func TestSnapshotIsACopy(t *testing.T) {
	l := New()
	l.Add(ResourceBread, 1)
	snap := l.Snapshot()
	snap[ResourceBread] = 99
	assert.Equal(t, 1, l.Get(ResourceBread))
}
