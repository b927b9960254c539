package planner

import (
	"context"
	"fmt"
	"sync"

	"travel-journal-backend/internal/models"
)

// Mode distinguishes building a brand-new trip from editing a persisted one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// TripWriterInterface is the slice of the trips service the planner needs to
// submit a finished route. Implemented by trips.Service.
type TripWriterInterface interface {
	Create(ctx context.Context, memberID string, payload models.TripPayload) (*models.Trip, error)
	Update(ctx context.Context, memberID string, tripID int, payload models.TripPayload) (*models.Trip, error)
}

// Controller orchestrates one planning session: it owns the RouteStore,
// DraftStore and MapRenderer exclusively, and is the only writer to any of
// them. Each structural mutation runs mutate → recompute → redraw under one
// critical section, so two rapid mutations each produce their own complete
// cycle and no redraw ever observes a stale intermediate list.
type Controller struct {
	mu sync.Mutex

	auth     models.AuthSnapshot
	mode     Mode
	tripID   int // meaningful only in ModeEdit
	title    string
	meta     models.TripMeta
	metaSet  bool
	focusGen int

	route    *RouteStore
	drafts   *DraftStore
	renderer *MapRenderer

	trips      TripWriterInterface
	submitting bool
}

// NewController builds a create-mode session.
func NewController(auth models.AuthSnapshot, trips TripWriterInterface) *Controller {
	return &Controller{
		auth:     auth,
		mode:     ModeCreate,
		route:    NewRouteStore(),
		drafts:   NewDraftStore(nil),
		renderer: NewMapRenderer(),
		trips:    trips,
	}
}

// NewEditController builds an edit-mode session preloaded with an existing
// trip: the route is restored in one step and each restored stop's authored
// content becomes its initial draft.
func NewEditController(auth models.AuthSnapshot, trips TripWriterInterface, trip *models.Trip) *Controller {
	places := make([]models.Place, 0, len(trip.Stops))
	for _, stop := range trip.Stops {
		places = append(places, models.Place{
			ID:          stop.ExternalID,
			Name:        stop.Title,
			Coordinates: stop.Coordinates,
			Source:      models.PlaceSourceSaved,
		})
	}

	route := NewRouteStore()
	entries := route.Restore(places)

	initial := make(map[string]models.Draft, len(entries))
	for i, e := range entries {
		stop := trip.Stops[i]
		photos := make([]models.PhotoRef, 0, len(stop.FileIDs))
		for _, id := range stop.FileIDs {
			photos = append(photos, models.PhotoRef{FileID: id})
		}
		initial[e.RouteID] = models.Draft{
			Title:  stop.Title,
			Text:   stop.Content,
			Photos: photos,
			Saved:  true,
		}
	}

	c := &Controller{
		auth:     auth,
		mode:     ModeEdit,
		tripID:   trip.ID,
		title:    trip.Title,
		route:    route,
		drafts:   NewDraftStore(initial),
		renderer: NewMapRenderer(),
		trips:    trips,
	}
	if len(trip.TagIDs) >= 3 {
		c.meta = models.TripMeta{
			CompanionTagID: trip.TagIDs[0],
			DurationTagID:  trip.TagIDs[1],
			StyleTagID:     trip.TagIDs[2],
		}
		c.metaSet = true
	}
	c.renderer.Redraw(entries)
	return c
}

// Mode returns whether the session creates or edits.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// AttachSurface hands the renderer its surface; polling for readiness runs
// until ctx is cancelled.
func (c *Controller) AttachSurface(ctx context.Context, surface MapSurface) {
	c.renderer.Attach(ctx, surface)
}

// DetachSurface is called when the map connection drops.
func (c *Controller) DetachSurface() {
	c.renderer.Detach()
}

// state assembles the post-mutation snapshot. Callers hold c.mu.
func (c *Controller) state() models.RouteState {
	entries := c.route.Entries()
	analytic := c.route.AnalyticTotalKm()
	total := analytic
	if native, ok := c.renderer.NativeTotalKm(); ok {
		total = native
	}
	return models.RouteState{
		Entries:            entries,
		TotalDistanceKm:    total,
		AnalyticDistanceKm: analytic,
	}
}

// State returns the current snapshot without mutating anything.
func (c *Controller) State() models.RouteState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state()
}

// AddPlace appends a stop from the search or detail panel. The ten-stop cap
// is checked in exactly one place, RouteStore.Add; a full route returns
// models.ErrRouteFull with the list, distances and map untouched.
func (c *Controller) AddPlace(place models.Place) (models.RouteState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.route.Add(place); err != nil {
		return c.state(), err
	}
	c.renderer.Redraw(c.route.Entries())
	return c.state(), nil
}

// RemoveStop deletes the stop at index and garbage-collects its draft, so
// drafts never accumulate under dead route ids. Out-of-range is a no-op.
func (c *Controller) RemoveStop(index int) models.RouteState {
	c.mu.Lock()
	defer c.mu.Unlock()

	removedID, ok := c.route.Remove(index)
	if !ok {
		return c.state()
	}
	c.drafts.Delete(removedID)
	c.renderer.Redraw(c.route.Entries())
	return c.state()
}

// Reorder moves a stop atomically and runs the recompute+redraw cycle once.
func (c *Controller) Reorder(from, to int) models.RouteState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.route.Reorder(from, to) {
		c.renderer.Redraw(c.route.Entries())
	}
	return c.state()
}

// DragStart, DragOver and Drop are the three discrete inputs the drag
// gesture is reduced to. Only Drop can mutate the route, and it does so by
// firing exactly one reorder.
func (c *Controller) DragStart(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.route.DragStart(index)
}

func (c *Controller) DragOver() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.route.DragOver()
}

func (c *Controller) Drop(to int) models.RouteState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.route.Drop(to) {
		c.renderer.Redraw(c.route.Entries())
	}
	return c.state()
}

// ClearRoute empties the route; the redraw leaves a blank map and the total
// drops to zero.
func (c *Controller) ClearRoute() models.RouteState {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.route.Clear()
	c.renderer.Redraw(c.route.Entries())
	return c.state()
}

// Focus recenters the map on a result the member is inspecting (which may
// never be added to the route) and returns a generation token. A detail
// lookup started for this focus must present the token back through
// StillFocused; by then a newer focus invalidates it and the result is
// silently discarded.
func (c *Controller) Focus(at models.Coordinates) int {
	c.mu.Lock()
	c.focusGen++
	gen := c.focusGen
	c.mu.Unlock()

	c.renderer.Recenter(at)
	return gen
}

// StillFocused reports whether gen is the latest focus.
func (c *Controller) StillFocused(gen int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.focusGen
}

// SetTitle sets the top-level trip title.
func (c *Controller) SetTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.title = title
}

// SetMeta records the one-time category selection. Re-calling it is the
// explicit re-selection flow.
func (c *Controller) SetMeta(meta models.TripMeta) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meta = meta
	c.metaSet = true
}

// ClearMeta drops the selection entirely, so a later submission carries no
// stale tag ids. Part of the explicit reset flow.
func (c *Controller) ClearMeta() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meta = models.TripMeta{}
	c.metaSet = false
}

// Meta returns the current selection and whether one was made.
func (c *Controller) Meta() (models.TripMeta, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.meta, c.metaSet
}

// SetDraftField, AppendPhotos, DeleteCurrentPhoto and MarkSaved delegate to
// the draft store; draft edits are independent of route order.
func (c *Controller) SetDraftField(routeID, field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts.SetField(routeID, field, value)
}

func (c *Controller) AppendPhotos(routeID string, refs []models.PhotoRef) models.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts.AppendPhotos(routeID, refs)
	d, _ := c.drafts.Get(routeID)
	return d
}

func (c *Controller) DeleteCurrentPhoto(routeID string, currentIndex int) models.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts.DeleteCurrentPhoto(routeID, currentIndex)
	d, _ := c.drafts.Get(routeID)
	return d
}

func (c *Controller) MarkSaved(routeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts.MarkSaved(routeID)
}

// Draft returns the draft for a stop, if one was ever created.
func (c *Controller) Draft(routeID string) (models.Draft, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drafts.Get(routeID)
}

// Cancel rolls the form back: create mode discards everything, edit mode
// restores the originally loaded drafts.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeCreate {
		c.drafts.DiscardAll()
		return
	}
	c.drafts.ResetTo()
}

// BuildPayload assembles the submission: every stop in final order merged
// with its draft (empty defaults when the stop was never edited), plus the
// trip title and the meta-derived tag ids.
func (c *Controller) BuildPayload() (models.TripPayload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buildPayload()
}

func (c *Controller) buildPayload() (models.TripPayload, error) {
	if c.title == "" {
		return models.TripPayload{}, models.ErrMissingTripTitle
	}

	entries := c.route.Entries()
	stops := make([]models.TripStop, 0, len(entries))
	for _, e := range entries {
		stop := models.TripStop{
			Coordinates: e.Place.Coordinates,
			ExternalID:  e.Place.ID,
		}
		if d, ok := c.drafts.Get(e.RouteID); ok {
			stop.Title = d.Title
			stop.Content = d.Text
			for _, p := range d.Photos {
				stop.FileIDs = append(stop.FileIDs, p.FileID)
			}
		}
		if stop.Title == "" {
			stop.Title = e.Place.Name
		}
		stops = append(stops, stop)
	}

	return models.TripPayload{
		Title:  c.title,
		TagIDs: c.meta.TagIDs(),
		Stops:  stops,
	}, nil
}

// Submit dispatches the payload to the trips service, create or update per
// the session mode. An update without a known trip id is fatal for the
// submission and surfaced, never retried. While a submission is in flight
// further submits are rejected rather than queued; any failure leaves all
// in-memory state intact so the member can retry.
func (c *Controller) Submit(ctx context.Context) (*models.Trip, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, models.ErrSubmitInFlight
	}
	payload, err := c.buildPayload()
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.mode == ModeEdit && c.tripID == 0 {
		c.mu.Unlock()
		return nil, models.ErrMissingTripID
	}
	mode, tripID, memberID := c.mode, c.tripID, c.auth.MemberID
	c.submitting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	var trip *models.Trip
	if mode == ModeEdit {
		trip, err = c.trips.Update(ctx, memberID, tripID, payload)
	} else {
		trip, err = c.trips.Create(ctx, memberID, payload)
	}
	if err != nil {
		return nil, fmt.Errorf("planner.Submit: %w", err)
	}
	return trip, nil
}
