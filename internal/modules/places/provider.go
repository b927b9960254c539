package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"travel-journal-backend/internal/models"
)

// ProviderInterface is the opaque search provider boundary. The core only
// ever sees normalized models.Place values; whatever shapes the upstream API
// returns are flattened in this package and nowhere else.
type ProviderInterface interface {
	Search(ctx context.Context, req models.PlaceSearchRequest) (*models.PlaceSearchResult, error)
	// Detail fetches extended content for a place. Only places carrying the
	// search source tag have detail content upstream.
	Detail(ctx context.Context, placeID, contentType string) (*models.PlaceDetail, error)
}

// HTTPProvider talks to the external place-search API.
type HTTPProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPProvider creates a provider against the configured base URL.
func NewHTTPProvider(baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Search queries the provider and normalizes every result before returning.
func (p *HTTPProvider) Search(ctx context.Context, req models.PlaceSearchRequest) (*models.PlaceSearchResult, error) {
	q := url.Values{}
	q.Set("query", req.Keyword)
	if req.Region != "" {
		q.Set("region", req.Region)
	}
	if req.Category != "" {
		q.Set("category_group_code", req.Category)
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))

	body, err := p.get(ctx, "/search", q)
	if err != nil {
		return nil, fmt.Errorf("provider.Search: %w", err)
	}

	var raw struct {
		Documents []map[string]any `json:"documents"`
		Meta      map[string]any   `json:"meta"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("provider.Search unmarshal: %w", err)
	}

	result := &models.PlaceSearchResult{Page: page}
	for _, doc := range raw.Documents {
		result.Places = append(result.Places, normalizePlace(doc))
	}
	result.TotalCount = int(pickFloat(raw.Meta, "total_count", "totalCount", "total"))
	result.IsEnd = pickBool(raw.Meta, "is_end", "isEnd", "end")
	return result, nil
}

// Detail fetches the extended descriptive content for the detail panel.
func (p *HTTPProvider) Detail(ctx context.Context, placeID, contentType string) (*models.PlaceDetail, error) {
	q := url.Values{}
	q.Set("id", placeID)
	if contentType != "" {
		q.Set("content_type", contentType)
	}

	body, err := p.get(ctx, "/detail", q)
	if err != nil {
		return nil, fmt.Errorf("provider.Detail: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("provider.Detail unmarshal: %w", err)
	}

	detail := &models.PlaceDetail{
		Place:       normalizePlace(doc),
		Overview:    pickString(doc, "overview", "description", "summary"),
		Homepage:    pickString(doc, "homepage", "place_url", "url"),
		Tel:         pickString(doc, "tel", "phone"),
		ImageURL:    pickString(doc, "firstimage", "image_url", "thumbnail"),
		ContentType: contentType,
	}
	detail.HasDetail = detail.Overview != "" || detail.ImageURL != ""
	return detail, nil
}

func (p *HTTPProvider) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "KakaoAK "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// normalizePlace maps the provider's loosely-typed document to the one
// canonical Place shape. Upstream responses are dynamic: the same field can
// appear under several alternate names and coordinates arrive as strings or
// numbers, so every accepted spelling is folded here before the core sees
// the value.
func normalizePlace(doc map[string]any) models.Place {
	return models.Place{
		ID:      pickString(doc, "id", "contentid", "content_id", "place_id"),
		Name:    pickString(doc, "place_name", "title", "name"),
		Address: pickString(doc, "road_address_name", "address_name", "addr1", "address"),
		Coordinates: models.Coordinates{
			Lat: pickFloat(doc, "y", "lat", "mapy", "latitude"),
			Lng: pickFloat(doc, "x", "lng", "mapx", "longitude"),
		},
		Source:      models.PlaceSourceSearch,
		Category:    pickString(doc, "category_group_code", "category", "cat1"),
		ContentType: pickString(doc, "contenttypeid", "content_type"),
	}
}

// pickString returns the first of the named keys holding a non-empty string.
func pickString(doc map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := doc[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// pickFloat accepts raw numbers and numeric strings under any accepted key.
func pickFloat(doc map[string]any, keys ...string) float64 {
	for _, k := range keys {
		v, ok := doc[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t
		case string:
			if f, err := strconv.ParseFloat(t, 64); err == nil {
				return f
			}
		case json.Number:
			if f, err := t.Float64(); err == nil {
				return f
			}
		}
	}
	return 0
}

// pickBool accepts a raw boolean or any of the provider's wrapped spellings
// ("true"/"Y"/1) under any accepted key.
func pickBool(doc map[string]any, keys ...string) bool {
	for _, k := range keys {
		v, ok := doc[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t
		case string:
			return t == "true" || t == "Y" || t == "y" || t == "1"
		case float64:
			return t != 0
		}
	}
	return false
}
