package models

// PhotoRef points at an uploaded photo: the server-assigned file id plus the
// original filename for display. The planner never holds raw bytes.
type PhotoRef struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
	// PreviewURL is a client-side object URL or the served file URL,
	// whichever the editor is currently showing. Not persisted.
	PreviewURL string `json:"preview_url,omitempty"`
}

// Draft is the per-stop user-authored content, keyed by route id so it
// follows its stop through reorders.
type Draft struct {
	Title  string     `json:"title"`
	Text   string     `json:"text"`
	Photos []PhotoRef `json:"photos"`
	// PhotoIndex is the photo currently shown in the stop editor's viewer.
	PhotoIndex int `json:"photo_index"`
	// Saved flags a stop whose editor was collapsed with any content in it.
	// Purely a UI affordance, not a persistence event.
	Saved bool `json:"saved"`
}

// IsEmpty reports whether the draft carries no user content at all.
func (d *Draft) IsEmpty() bool {
	return d.Title == "" && d.Text == "" && len(d.Photos) == 0
}

// SetDraftFieldRequest updates a single text field of a stop's draft.
type SetDraftFieldRequest struct {
	Field string `json:"field" validate:"required,oneof=title text"`
	Value string `json:"value"`
}

// AppendPhotosRequest merges freshly uploaded photos onto a stop's draft.
type AppendPhotosRequest struct {
	Photos []PhotoRef `json:"photos" validate:"required,min=1,dive"`
}
