package planner

import (
	"fmt"
	"time"

	"travel-journal-backend/internal/models"
	"travel-journal-backend/pkg/utils"
)

// RouteStore owns the ordered list of selected stops for one planning
// session. Every structural change (add, remove, reorder, clear, restore)
// ends with a full segment recomputation, so Order and SegmentDistanceKm are
// always consistent with the current array.
//
// The store is not safe for concurrent use on its own; the owning Controller
// serializes access so that mutation, recomputation and redraw form one
// logical step.
type RouteStore struct {
	entries []models.RouteEntry

	// dragIndex is the source index of an in-progress drag gesture, nil when
	// idle. It is set on DragStart, read-only during DragOver, and consumed
	// exactly once on Drop.
	dragIndex *int
}

// NewRouteStore returns an empty store.
func NewRouteStore() *RouteStore {
	return &RouteStore{}
}

// newRouteID builds a session-unique synthetic id. The millisecond timestamp
// keeps ids roughly ordered; the random suffix guarantees uniqueness even for
// two adds within the same millisecond.
func newRouteID() string {
	suffix, err := utils.GenerateSecureToken(4)
	if err != nil {
		// crypto/rand failing is effectively unheard of; fall back to the
		// nanosecond clock rather than aborting an add.
		suffix = fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}

// Add appends place as a new stop and recomputes. It returns
// models.ErrRouteFull without mutating anything when the route already holds
// the maximum number of stops.
func (s *RouteStore) Add(place models.Place) (models.RouteEntry, error) {
	if len(s.entries) >= models.MaxRouteStops {
		return models.RouteEntry{}, models.ErrRouteFull
	}
	entry := models.RouteEntry{
		RouteID: newRouteID(),
		Place:   place,
	}
	s.entries = append(s.entries, entry)
	recomputeSegments(s.entries)
	return s.entries[len(s.entries)-1], nil
}

// Remove deletes the entry at index and recomputes. Out-of-range indexes are
// a silent no-op: they come from benign UI races (a double-click on a delete
// button), not programmer error. The removed entry's route id is returned so
// the caller can garbage-collect its draft.
func (s *RouteStore) Remove(index int) (removedID string, ok bool) {
	if index < 0 || index >= len(s.entries) {
		return "", false
	}
	removedID = s.entries[index].RouteID
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	recomputeSegments(s.entries)
	return removedID, true
}

// Reorder moves the entry at from to position to as one atomic splice: the
// entry is lifted out and reinserted in a single step, so no observer ever
// sees the intermediate shorter list. No-op when the indexes are equal or
// either is out of range.
func (s *RouteStore) Reorder(from, to int) bool {
	n := len(s.entries)
	if from == to || from < 0 || to < 0 || from >= n || to >= n {
		return false
	}
	moved := s.entries[from]
	rest := append(s.entries[:from:from], s.entries[from+1:]...)
	s.entries = append(rest[:to:to], append([]models.RouteEntry{moved}, rest[to:]...)...)
	recomputeSegments(s.entries)
	return true
}

// Clear empties the route and resets any in-progress drag gesture.
func (s *RouteStore) Clear() {
	s.entries = nil
	s.dragIndex = nil
	recomputeSegments(s.entries)
}

// Restore bulk-replaces the route with the stops of a previously saved trip,
// in order. This is a one-time load, so the route ids can be deterministic:
// they derive from the original place identity plus position instead of the
// clock. One recomputation runs at the end.
func (s *RouteStore) Restore(places []models.Place) []models.RouteEntry {
	entries := make([]models.RouteEntry, 0, len(places))
	for i, p := range places {
		entries = append(entries, models.RouteEntry{
			RouteID: fmt.Sprintf("restored-%s-%d", p.ID, i+1),
			Place:   p,
		})
	}
	s.entries = entries
	s.dragIndex = nil
	recomputeSegments(s.entries)
	return s.Entries()
}

// Entries returns a copy of the current ordered list.
func (s *RouteStore) Entries() []models.RouteEntry {
	out := make([]models.RouteEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of stops.
func (s *RouteStore) Len() int {
	return len(s.entries)
}

// AnalyticTotalKm is the haversine sum over the current segments.
func (s *RouteStore) AnalyticTotalKm() float64 {
	return analyticTotalKm(s.entries)
}

// DragStart records the source index of a drag gesture. Out-of-range starts
// are ignored and leave the store idle.
func (s *RouteStore) DragStart(index int) {
	if index < 0 || index >= len(s.entries) {
		return
	}
	idx := index
	s.dragIndex = &idx
}

// DragOver exists so callers can ask whether a drop would currently be
// accepted (the UI uses this to suppress the platform's default rejection).
// It never mutates drag state.
func (s *RouteStore) DragOver() bool {
	return s.dragIndex != nil
}

// Drop consumes the drag cursor and performs the reorder exactly once.
// Dropping with no gesture in progress, or onto the source index itself, is a
// guarded no-op. The cursor is reset to idle in every case.
func (s *RouteStore) Drop(to int) bool {
	if s.dragIndex == nil {
		return false
	}
	from := *s.dragIndex
	s.dragIndex = nil
	return s.Reorder(from, to)
}
