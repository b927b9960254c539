package planner

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-journal-backend/internal/models"
)

// fakeSurface records every command so tests can verify the full-redraw
// contract without a live map.
type fakeSurface struct {
	mu sync.Mutex

	ready      bool
	clears     int
	labels     []int
	markerAt   []models.Coordinates
	paths      [][]models.Coordinates
	centers    []models.Coordinates
	pathMeters float64
	measures   bool
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{ready: true, measures: true}
}

func (f *fakeSurface) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

func (f *fakeSurface) setReady(ready bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ready = ready
}

func (f *fakeSurface) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	f.labels = nil
	f.markerAt = nil
	f.paths = nil
}

func (f *fakeSurface) AddMarker(label int, at models.Coordinates) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.labels = append(f.labels, label)
	f.markerAt = append(f.markerAt, at)
}

func (f *fakeSurface) DrawPath(points []models.Coordinates) (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, points)
	return f.pathMeters, f.measures
}

func (f *fakeSurface) SetCenter(at models.Coordinates) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.centers = append(f.centers, at)
}

// surfaceSnapshot is a point-in-time copy of the fake's recorded commands.
type surfaceSnapshot struct {
	clears   int
	labels   []int
	markerAt []models.Coordinates
	paths    [][]models.Coordinates
	centers  []models.Coordinates
}

func (f *fakeSurface) snapshot() surfaceSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return surfaceSnapshot{
		clears:   f.clears,
		labels:   append([]int(nil), f.labels...),
		markerAt: append([]models.Coordinates(nil), f.markerAt...),
		paths:    append([][]models.Coordinates(nil), f.paths...),
		centers:  append([]models.Coordinates(nil), f.centers...),
	}
}

func attachedRenderer(t *testing.T, surface MapSurface) *MapRenderer {
	t.Helper()
	r := NewMapRenderer()
	r.attachInterval = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	r.Attach(ctx, surface)
	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.surface != nil
	}, time.Second, time.Millisecond)
	return r
}

func routeOf(coords ...models.Coordinates) []models.RouteEntry {
	entries := make([]models.RouteEntry, len(coords))
	for i, c := range coords {
		entries[i] = models.RouteEntry{Place: models.Place{Coordinates: c}}
	}
	recomputeSegments(entries)
	return entries
}

func TestMapRenderer_FullRedraw(t *testing.T) {
	surface := newFakeSurface()
	surface.pathMeters = 123456
	r := attachedRenderer(t, surface)

	r.Redraw(routeOf(coord(0, 0), coord(0, 1), coord(1, 1)))

	snap := surface.snapshot()
	assert.Equal(t, 1, snap.clears, "clear precedes every draw")
	assert.Equal(t, []int{1, 2, 3}, snap.labels, "markers labelled by order")
	require.Len(t, snap.paths, 1)
	assert.Len(t, snap.paths[0], 3)

	native, ok := r.NativeTotalKm()
	require.True(t, ok)
	assert.InDelta(t, 123.456, native, 1e-9, "native meters convert to km")
}

func TestMapRenderer_RedrawReplacesPrevious(t *testing.T) {
	surface := newFakeSurface()
	r := attachedRenderer(t, surface)

	r.Redraw(routeOf(coord(0, 0), coord(0, 1)))
	r.Redraw(routeOf(coord(5, 5)))

	snap := surface.snapshot()
	assert.Equal(t, 2, snap.clears)
	// After the second redraw only the single new marker remains.
	assert.Equal(t, []int{1}, snap.labels)
	assert.Empty(t, snap.paths, "one point draws no path")
}

func TestMapRenderer_EmptyListClearsOnly(t *testing.T) {
	surface := newFakeSurface()
	r := attachedRenderer(t, surface)

	r.Redraw(routeOf(coord(0, 0), coord(0, 1)))
	r.Redraw(nil)

	snap := surface.snapshot()
	assert.Empty(t, snap.labels)
	assert.Empty(t, snap.paths)

	native, ok := r.NativeTotalKm()
	require.True(t, ok)
	assert.Zero(t, native)
}

func TestMapRenderer_SurfaceWithoutMeasurement(t *testing.T) {
	surface := newFakeSurface()
	surface.measures = false
	r := attachedRenderer(t, surface)

	r.Redraw(routeOf(coord(0, 0), coord(0, 1)))

	_, ok := r.NativeTotalKm()
	assert.False(t, ok, "analytic total takes over when the surface cannot measure")
}

func TestMapRenderer_AttachReplaysPendingRedraw(t *testing.T) {
	surface := newFakeSurface()
	surface.setReady(false)

	r := NewMapRenderer()
	r.attachInterval = time.Millisecond

	// Redraw before the surface is up: buffered, not lost, not an error.
	r.Redraw(routeOf(coord(0, 0), coord(0, 1)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Attach(ctx, surface)

	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, surface.snapshot().clears, "nothing drawn while not ready")

	surface.setReady(true)
	require.Eventually(t, func() bool {
		return len(surface.snapshot().labels) == 2
	}, time.Second, time.Millisecond, "pending redraw replays once attached")
}

func TestMapRenderer_AttachPollingCancellable(t *testing.T) {
	surface := newFakeSurface()
	surface.setReady(false)

	r := NewMapRenderer()
	r.attachInterval = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	r.Attach(ctx, surface)
	cancel()

	time.Sleep(10 * time.Millisecond)
	surface.setReady(true)
	time.Sleep(10 * time.Millisecond)

	r.mu.Lock()
	attached := r.surface != nil
	r.mu.Unlock()
	assert.False(t, attached, "cancelled polling never attaches")
}

func TestMapRenderer_RecenterIndependentOfRedraw(t *testing.T) {
	surface := newFakeSurface()
	r := attachedRenderer(t, surface)

	r.Redraw(routeOf(coord(0, 0), coord(0, 1)))
	before := surface.snapshot()

	r.Recenter(coord(42, 42))

	snap := surface.snapshot()
	assert.Equal(t, []models.Coordinates{coord(42, 42)}, snap.centers)
	assert.Equal(t, before.clears, snap.clears, "recenter never triggers a redraw")
	assert.Equal(t, before.labels, snap.labels)
}

func TestMapRenderer_DetachBuffersAgain(t *testing.T) {
	surface := newFakeSurface()
	r := attachedRenderer(t, surface)

	r.Detach()
	r.Redraw(routeOf(coord(0, 0)))

	assert.Zero(t, surface.snapshot().clears)
	_, ok := r.NativeTotalKm()
	assert.False(t, ok)
}
