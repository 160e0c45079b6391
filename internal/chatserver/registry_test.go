package chatserver

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAssignsDistinctIdentities(t *testing.T) {
	reg := NewRegistry()

	const n = 50
	var wg sync.WaitGroup
	ids := make([]string, n)
	numbers := make([]int, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], numbers[i], _ = reg.Register("127.0.0.1:1000", nil)
		}(i)
	}
	wg.Wait()

	require.Equal(t, n, reg.Len())

	seenIDs := make(map[string]bool, n)
	seenNumbers := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		assert.Len(t, ids[i], sessionIDLength)
		assert.False(t, seenIDs[ids[i]], "duplicate id %s", ids[i])
		assert.False(t, seenNumbers[numbers[i]], "duplicate number %d", numbers[i])
		seenIDs[ids[i]] = true
		seenNumbers[numbers[i]] = true
	}
}

func TestListOrderedByRegistration(t *testing.T) {
	reg := NewRegistry()

	idA, _, _ := reg.Register("10.0.0.1:1", nil)
	idB, _, _ := reg.Register("10.0.0.2:2", nil)
	idC, _, _ := reg.Register("10.0.0.3:3", nil)

	records := reg.List()
	require.Len(t, records, 3)
	assert.Equal(t, []string{idA, idB, idC}, []string{records[0].ID, records[1].ID, records[2].ID})
	assert.Equal(t, []int{1, 2, 3}, []int{records[0].Number, records[1].Number, records[2].Number})
	for _, rec := range records {
		assert.True(t, rec.Alive)
	}
}

func TestSequenceNumbersNeverReused(t *testing.T) {
	reg := NewRegistry()

	id1, n1, _ := reg.Register("a:1", nil)
	reg.Deregister(id1)
	_, n2, _ := reg.Register("a:2", nil)

	assert.Equal(t, 1, n1)
	assert.Equal(t, 2, n2)
}

func TestKillSignalsHandleAndClosesConn(t *testing.T) {
	reg := NewRegistry()

	closed := 0
	id, _, handle := reg.Register("a:1", func() { closed++ })

	require.True(t, reg.Kill(id))

	select {
	case <-handle.Done():
	default:
		t.Fatal("expected handle to be signalled after kill")
	}
	assert.Equal(t, 1, closed)

	// The record stays until the handler deregisters, but is no longer alive.
	rec, ok := reg.Get(id)
	require.True(t, ok)
	assert.False(t, rec.Alive)

	// A second kill finds the record but must not fire the closer again.
	require.True(t, reg.Kill(id))
	assert.Equal(t, 1, closed)
}

func TestKillUnknownID(t *testing.T) {
	reg := NewRegistry()
	assert.False(t, reg.Kill("deadbeef"))
}

func TestDeregisterIdempotent(t *testing.T) {
	reg := NewRegistry()

	id, _, _ := reg.Register("a:1", nil)
	require.Equal(t, 1, reg.Len())

	reg.Deregister(id)
	assert.Equal(t, 0, reg.Len())

	reg.Deregister(id)
	assert.Equal(t, 0, reg.Len())
}

func TestTouchAfterDeregisterIsNoop(t *testing.T) {
	reg := NewRegistry()

	id, _, _ := reg.Register("a:1", nil)
	reg.Deregister(id)

	reg.Touch(id)

	_, ok := reg.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len())
}

func TestTouchAdvancesLastSeen(t *testing.T) {
	reg := NewRegistry()

	id, _, _ := reg.Register("a:1", nil)
	before, _ := reg.Get(id)

	reg.Touch(id)

	after, _ := reg.Get(id)
	assert.False(t, after.LastSeen.Before(before.LastSeen))
}
