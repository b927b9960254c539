package models

// MaxRouteStops is the hard cap on stops in a single trip. The planner
// rejects the eleventh add outright.
const MaxRouteStops = 10

// MaxStopPhotos caps the photos attached to a single stop.
const MaxStopPhotos = 5

// RouteEntry wraps a Place with its position in the planned route.
//
// RouteID is synthetic and owned by the entry, not the slot: it is assigned
// once at insertion and survives any number of reorders, so drafts keyed by
// it never migrate between stops. Order is purely derived (1-based array
// position) and is reassigned on every structural change. SegmentDistanceKm
// is nil for the first entry and otherwise holds the great-circle distance
// from the entry's current predecessor.
type RouteEntry struct {
	RouteID           string   `json:"route_id"`
	Place             Place    `json:"place"`
	Order             int      `json:"order"`
	SegmentDistanceKm *float64 `json:"segment_distance_km"`
}

// RouteState is the snapshot handed to clients after every mutation.
type RouteState struct {
	Entries []RouteEntry `json:"entries"`
	// TotalDistanceKm prefers the map surface's native path length when the
	// surface reported one for the current entries, and falls back to the
	// analytic haversine sum otherwise.
	TotalDistanceKm    float64 `json:"total_distance_km"`
	AnalyticDistanceKm float64 `json:"analytic_distance_km"`
}

// AddPlaceRequest adds a search result or detail-panel place to the route.
type AddPlaceRequest struct {
	Place Place `json:"place" validate:"required"`
}

// ReorderRequest is the drop half of a drag gesture.
type ReorderRequest struct {
	From int `json:"from" validate:"min=0"`
	To   int `json:"to" validate:"min=0"`
}
