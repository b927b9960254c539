package planner

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-journal-backend/internal/models"
)

func placeAt(name string, lat, lng float64) models.Place {
	return models.Place{
		ID:          "p-" + name,
		Name:        name,
		Coordinates: coord(lat, lng),
		Source:      models.PlaceSourceSearch,
	}
}

func assertOrdersContiguous(t *testing.T, entries []models.RouteEntry) {
	t.Helper()
	for i, e := range entries {
		assert.Equal(t, i+1, e.Order, "entry %d has wrong order", i)
	}
}

func TestRouteStore_AddAssignsUniqueIDs(t *testing.T) {
	s := NewRouteStore()
	seen := map[string]bool{}
	for i := 0; i < models.MaxRouteStops; i++ {
		entry, err := s.Add(placeAt(fmt.Sprintf("p%d", i), float64(i), 0))
		require.NoError(t, err)
		assert.False(t, seen[entry.RouteID], "route id %q reused", entry.RouteID)
		seen[entry.RouteID] = true
	}
	assertOrdersContiguous(t, s.Entries())
}

func TestRouteStore_EleventhAddRejected(t *testing.T) {
	s := NewRouteStore()
	for i := 0; i < models.MaxRouteStops; i++ {
		_, err := s.Add(placeAt(fmt.Sprintf("p%d", i), float64(i), 0))
		require.NoError(t, err)
	}
	before := s.Entries()

	_, err := s.Add(placeAt("overflow", 99, 99))
	require.ErrorIs(t, err, models.ErrRouteFull)

	// The list is byte-for-byte unchanged: no partial add, no recompute.
	assert.Equal(t, before, s.Entries())
	assert.Equal(t, models.MaxRouteStops, s.Len())
}

func TestRouteStore_RemoveRecomputes(t *testing.T) {
	s := NewRouteStore()
	s.Add(placeAt("a", 0, 0))
	s.Add(placeAt("b", 0, 1))
	s.Add(placeAt("c", 1, 1))

	removedID, ok := s.Remove(1)
	require.True(t, ok)
	assert.NotEmpty(t, removedID)

	entries := s.Entries()
	require.Len(t, entries, 2)
	assertOrdersContiguous(t, entries)

	// The surviving second entry's segment now spans a..c directly.
	require.NotNil(t, entries[1].SegmentDistanceKm)
	assert.InDelta(t, DistanceKm(coord(0, 0), coord(1, 1)), *entries[1].SegmentDistanceKm, 1e-9)
}

func TestRouteStore_RemoveOutOfRangeIsNoop(t *testing.T) {
	s := NewRouteStore()
	s.Add(placeAt("a", 0, 0))

	_, ok := s.Remove(5)
	assert.False(t, ok)
	_, ok = s.Remove(-1)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestRouteStore_ReorderPreservesIdentity(t *testing.T) {
	s := NewRouteStore()
	s.Add(placeAt("a", 0, 0))
	s.Add(placeAt("b", 0, 1))
	s.Add(placeAt("c", 1, 1))

	ids := func() []string {
		var out []string
		for _, e := range s.Entries() {
			out = append(out, e.RouteID)
		}
		return out
	}
	a, b, c := ids()[0], ids()[1], ids()[2]

	require.True(t, s.Reorder(0, 2))

	// The entry owns its id: after moving A to the back the id order is
	// [B, C, A], never a renumbering in place.
	assert.Equal(t, []string{b, c, a}, ids())
	assertOrdersContiguous(t, s.Entries())
}

func TestRouteStore_ReorderRecomputesAllSegments(t *testing.T) {
	s := NewRouteStore()
	s.Add(placeAt("p1", 0, 0))
	s.Add(placeAt("p2", 0, 1))
	s.Add(placeAt("p3", 1, 1))

	require.True(t, s.Reorder(0, 1)) // [P2, P1, P3]

	want := DistanceKm(coord(0, 1), coord(0, 0)) + DistanceKm(coord(0, 0), coord(1, 1))
	assert.InDelta(t, want, s.AnalyticTotalKm(), 1e-9)
}

func TestRouteStore_ReorderGuards(t *testing.T) {
	s := NewRouteStore()
	s.Add(placeAt("a", 0, 0))
	s.Add(placeAt("b", 0, 1))

	assert.False(t, s.Reorder(1, 1), "same index must be a no-op")
	assert.False(t, s.Reorder(-1, 0))
	assert.False(t, s.Reorder(0, 2))
	assert.Equal(t, 2, s.Len())
}

func TestRouteStore_Clear(t *testing.T) {
	s := NewRouteStore()
	s.Add(placeAt("a", 0, 0))
	s.Add(placeAt("b", 0, 1))
	s.DragStart(0)

	s.Clear()

	assert.Zero(t, s.Len())
	assert.Zero(t, s.AnalyticTotalKm())
	assert.False(t, s.DragOver(), "drag cursor must reset on clear")
}

func TestRouteStore_RestoreDeterministicIDs(t *testing.T) {
	s := NewRouteStore()
	placesList := []models.Place{placeAt("a", 0, 0), placeAt("b", 0, 1)}

	first := s.Restore(placesList)
	second := NewRouteStore().Restore(placesList)

	require.Len(t, first, 2)
	for i := range first {
		assert.Equal(t, first[i].RouteID, second[i].RouteID, "restored ids must be deterministic")
	}
	assertOrdersContiguous(t, first)
	require.NotNil(t, first[1].SegmentDistanceKm)
}

func TestRouteStore_RestoreMovedCoordinatesShiftLaterSegments(t *testing.T) {
	s := NewRouteStore()
	s.Restore([]models.Place{placeAt("a", 0, 0), placeAt("b", 0, 1), placeAt("c", 1, 1)})
	originalSecond := *s.Entries()[2].SegmentDistanceKm
	originalTotal := s.AnalyticTotalKm()

	// Move the first stop; every later segment must be recomputed fresh,
	// not patched.
	s.Restore([]models.Place{placeAt("a", 2, 2), placeAt("b", 0, 1), placeAt("c", 1, 1)})

	assert.Greater(t, math.Abs(originalTotal-s.AnalyticTotalKm()), 1e-6,
		"total must change when an early stop moves")
	assert.InDelta(t, originalSecond, *s.Entries()[2].SegmentDistanceKm, 1e-9,
		"segment between unmoved stops is unchanged")
	assert.InDelta(t, DistanceKm(coord(2, 2), coord(0, 1)), *s.Entries()[1].SegmentDistanceKm, 1e-9)
}

func TestRouteStore_DragStateMachine(t *testing.T) {
	s := NewRouteStore()
	s.Add(placeAt("a", 0, 0))
	s.Add(placeAt("b", 0, 1))
	s.Add(placeAt("c", 1, 1))

	assert.False(t, s.DragOver(), "idle before drag-start")

	s.DragStart(0)
	assert.True(t, s.DragOver())
	assert.True(t, s.DragOver(), "drag-over must not consume the cursor")

	require.True(t, s.Drop(2))
	assert.False(t, s.DragOver(), "cursor consumed on drop")

	// Second drop without a new gesture does nothing.
	assert.False(t, s.Drop(0))
}

func TestRouteStore_DropOnSourceIndexIsNoop(t *testing.T) {
	s := NewRouteStore()
	s.Add(placeAt("a", 0, 0))
	s.Add(placeAt("b", 0, 1))
	before := s.Entries()

	s.DragStart(1)
	assert.False(t, s.Drop(1))
	assert.Equal(t, before, s.Entries())
	assert.False(t, s.DragOver(), "cursor still resets")
}

func TestRouteStore_DragStartOutOfRangeIgnored(t *testing.T) {
	s := NewRouteStore()
	s.Add(placeAt("a", 0, 0))

	s.DragStart(7)
	assert.False(t, s.DragOver())
}
