package models

// Place source tags. Search results carry the provider they came from so the
// detail panel knows which lookup applies; stops restored from a saved trip
// are tagged PlaceSourceSaved and never get a detail lookup.
const (
	PlaceSourceSearch = "search"
	PlaceSourceSaved  = "saved"
)

// Coordinates is a WGS-84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a single geographic point of interest, either a search result or a
// stop restored from a persisted trip.
type Place struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
	Source      string      `json:"source"`
	Category    string      `json:"category,omitempty"`
	ContentType string      `json:"content_type,omitempty"`
}

// PlaceSearchRequest is the query the search panel sends.
type PlaceSearchRequest struct {
	Keyword  string `query:"keyword" validate:"required,min=1"`
	Region   string `query:"region"`
	Category string `query:"category"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
}

// PlaceSearchResult is one page of normalized provider results.
type PlaceSearchResult struct {
	Places     []Place `json:"places"`
	Page       int     `json:"page"`
	TotalCount int     `json:"total_count"`
	IsEnd      bool    `json:"is_end"`
}

// PlaceDetail is the extended descriptive content shown in the detail panel.
type PlaceDetail struct {
	Place       Place  `json:"place"`
	Overview    string `json:"overview,omitempty"`
	Homepage    string `json:"homepage,omitempty"`
	Tel         string `json:"tel,omitempty"`
	HasDetail   bool   `json:"has_detail"`
	ImageURL    string `json:"image_url,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}
