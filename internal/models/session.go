package models

// StartSessionRequest opens a planning session. Mode "edit" requires the id
// of the trip being edited.
type StartSessionRequest struct {
	Mode   string `json:"mode" validate:"required,oneof=create edit"`
	TripID int    `json:"trip_id,omitempty" validate:"omitempty,gt=0"`
}

// SessionResponse returns the session handle plus its initial route state.
type SessionResponse struct {
	SessionID string     `json:"session_id"`
	Mode      string     `json:"mode"`
	State     RouteState `json:"state"`
}

// SetTitleRequest sets the top-level trip title.
type SetTitleRequest struct {
	Title string `json:"title" validate:"required,min=1,max=100"`
}

// SetMetaRequest records the one-time category selection.
type SetMetaRequest struct {
	CompanionTagID int `json:"companion_tag_id" validate:"required,gt=0"`
	DurationTagID  int `json:"duration_tag_id" validate:"required,gt=0"`
	StyleTagID     int `json:"style_tag_id" validate:"required,gt=0"`
}

// DragRequest carries the index for drag-start and drop inputs.
type DragRequest struct {
	Index int `json:"index" validate:"min=0"`
}

// FocusRequest recenters the map on an inspected search result.
type FocusRequest struct {
	Coordinates Coordinates `json:"coordinates"`
	PlaceID     string      `json:"place_id,omitempty"`
	ContentType string      `json:"content_type,omitempty"`
}
