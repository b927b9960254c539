package planner

import "travel-journal-backend/internal/models"

// DraftStore holds the per-stop authored content for one planning session,
// keyed by route id. Because the key is the stop's identity rather than its
// position, drafts survive any amount of reordering untouched; they are only
// dropped when their owning stop is removed.
type DraftStore struct {
	drafts  map[string]*models.Draft
	initial map[string]models.Draft
}

// NewDraftStore returns an empty store. initial is the draft set loaded for
// an existing trip in edit mode (nil in create mode); ResetTo falls back to
// it on a full-form cancel.
func NewDraftStore(initial map[string]models.Draft) *DraftStore {
	s := &DraftStore{initial: initial}
	s.resetFromInitial()
	return s
}

func (s *DraftStore) resetFromInitial() {
	s.drafts = make(map[string]*models.Draft, len(s.initial))
	for id, d := range s.initial {
		cp := d
		cp.Photos = append([]models.PhotoRef(nil), d.Photos...)
		s.drafts[id] = &cp
	}
}

// upsert returns the draft for routeID, lazily creating an empty one on the
// first edit of a stop.
func (s *DraftStore) upsert(routeID string) *models.Draft {
	if d, ok := s.drafts[routeID]; ok {
		return d
	}
	d := &models.Draft{}
	s.drafts[routeID] = d
	return d
}

// SetField sets the named text field ("title" or "text"), creating the draft
// if the stop was never edited before. Unknown fields are ignored.
func (s *DraftStore) SetField(routeID, field, value string) {
	d := s.upsert(routeID)
	switch field {
	case "title":
		d.Title = value
	case "text":
		d.Text = value
	}
}

// AppendPhotos merges refs onto the existing photo list, keeping existing
// order and appending the new ones after, then truncates to the cap of
// five. The viewer index for the stop is reset to the first photo.
func (s *DraftStore) AppendPhotos(routeID string, refs []models.PhotoRef) {
	d := s.upsert(routeID)
	merged := append(append([]models.PhotoRef(nil), d.Photos...), refs...)
	if len(merged) > models.MaxStopPhotos {
		merged = merged[:models.MaxStopPhotos]
	}
	d.Photos = merged
	d.PhotoIndex = 0
}

// DeleteCurrentPhoto removes exactly the photo at currentIndex and clamps the
// viewer index so it never runs past the shortened list. Deleting from an
// empty list, or at an out-of-range index, is a no-op.
func (s *DraftStore) DeleteCurrentPhoto(routeID string, currentIndex int) {
	d, ok := s.drafts[routeID]
	if !ok || len(d.Photos) == 0 || currentIndex < 0 || currentIndex >= len(d.Photos) {
		return
	}
	d.Photos = append(d.Photos[:currentIndex], d.Photos[currentIndex+1:]...)
	if currentIndex > len(d.Photos)-1 {
		d.PhotoIndex = len(d.Photos) - 1
	} else {
		d.PhotoIndex = currentIndex
	}
	if d.PhotoIndex < 0 {
		d.PhotoIndex = 0
	}
}

// MarkSaved flags the stop as saved when its editor is collapsed with any
// content in it. A stop with an empty draft is left unmarked.
func (s *DraftStore) MarkSaved(routeID string) {
	d, ok := s.drafts[routeID]
	if !ok || d.IsEmpty() {
		return
	}
	d.Saved = true
}

// Delete drops the draft for a removed stop so orphans cannot accumulate
// under route ids that no longer exist.
func (s *DraftStore) Delete(routeID string) {
	delete(s.drafts, routeID)
}

// Get returns a copy of the draft for routeID and whether one exists.
func (s *DraftStore) Get(routeID string) (models.Draft, bool) {
	d, ok := s.drafts[routeID]
	if !ok {
		return models.Draft{}, false
	}
	cp := *d
	cp.Photos = append([]models.PhotoRef(nil), d.Photos...)
	return cp, true
}

// DiscardAll empties the store (create-mode cancel).
func (s *DraftStore) DiscardAll() {
	s.drafts = make(map[string]*models.Draft)
}

// ResetTo restores the originally loaded drafts (edit-mode cancel).
func (s *DraftStore) ResetTo() {
	s.resetFromInitial()
}

// Snapshot returns a copy of every live draft, keyed by route id.
func (s *DraftStore) Snapshot() map[string]models.Draft {
	out := make(map[string]models.Draft, len(s.drafts))
	for id := range s.drafts {
		d, _ := s.Get(id)
		out[id] = d
	}
	return out
}
