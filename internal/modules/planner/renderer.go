package planner

import (
	"context"
	"sync"
	"time"

	"travel-journal-backend/internal/models"
)

// MapSurface is the rendering surface contract: an interactive map that can
// place overlays, draw one connecting path, and recenter. The concrete
// surface lives in the client's browser and is reached over a websocket (see
// surface.go); tests use an in-process fake.
type MapSurface interface {
	// Ready reports whether the surface has finished its asynchronous
	// initialization and can accept drawing commands.
	Ready() bool
	// Clear removes every marker and path previously drawn.
	Clear()
	// AddMarker places a numbered marker at the coordinate.
	AddMarker(label int, at models.Coordinates)
	// DrawPath draws one connecting path through the points in order and
	// returns the surface's native path length in meters. ok is false when
	// the surface cannot measure the path it drew.
	DrawPath(points []models.Coordinates) (meters float64, ok bool)
	// SetCenter recenters the viewport.
	SetCenter(at models.Coordinates)
}

// MapRenderer projects route state onto a MapSurface. Every redraw is total:
// all previous artifacts are cleared before anything new is drawn, so the
// renderer never tracks diffs against the external object graph. It is the
// only component that touches the surface.
type MapRenderer struct {
	mu             sync.Mutex
	surface        MapSurface
	pending        []models.RouteEntry
	nativeKm       *float64
	attachInterval time.Duration
}

// NewMapRenderer returns a renderer with no surface attached yet. Redraws
// issued before attachment are remembered and replayed once the surface
// reports ready.
func NewMapRenderer() *MapRenderer {
	return &MapRenderer{attachInterval: 200 * time.Millisecond}
}

// Attach starts polling surface until it reports ready, then replays the
// latest pending redraw. The surface loads asynchronously on the client, so
// not being ready is a one-time initialization race, not an error; polling
// runs until ctx is cancelled (session teardown).
func (r *MapRenderer) Attach(ctx context.Context, surface MapSurface) {
	go func() {
		ticker := time.NewTicker(r.attachInterval)
		defer ticker.Stop()
		for {
			if surface.Ready() {
				r.mu.Lock()
				r.surface = surface
				pending := r.pending
				r.mu.Unlock()
				if pending != nil {
					r.Redraw(pending)
				}
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Detach drops the surface, e.g. when the websocket closes. Later redraws go
// back to being buffered until the next Attach.
func (r *MapRenderer) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surface = nil
	r.nativeKm = nil
}

// Redraw replaces everything on the surface with the given ordered entries:
// clear, then one numbered marker per entry (label = Order), then a single
// connecting path when there are at least two points. The surface's native
// path length is recorded as the authoritative total when reported.
func (r *MapRenderer) Redraw(entries []models.RouteEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending = entries
	if r.surface == nil || !r.surface.Ready() {
		return
	}

	r.surface.Clear()
	r.nativeKm = nil

	if len(entries) == 0 {
		zero := 0.0
		r.nativeKm = &zero
		return
	}

	points := make([]models.Coordinates, 0, len(entries))
	for _, e := range entries {
		r.surface.AddMarker(e.Order, e.Place.Coordinates)
		points = append(points, e.Place.Coordinates)
	}
	if len(points) >= 2 {
		if meters, ok := r.surface.DrawPath(points); ok {
			km := meters / 1000
			r.nativeKm = &km
		}
	} else {
		zero := 0.0
		r.nativeKm = &zero
	}
}

// NativeTotalKm returns the surface-reported path length for the last redraw,
// if the surface provided one.
func (r *MapRenderer) NativeTotalKm() (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nativeKm == nil {
		return 0, false
	}
	return *r.nativeKm, true
}

// Recenter moves the viewport to a newly focused search result. This is
// independent of the redraw cycle: focusing a result does not touch markers
// or the path. A missing surface is ignored.
func (r *MapRenderer) Recenter(at models.Coordinates) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.surface == nil || !r.surface.Ready() {
		return
	}
	r.surface.SetCenter(at)
}
