package places

import (
	"context"
	"fmt"

	"travel-journal-backend/internal/models"
)

// ServiceInterface defines the place lookup operations the panels use.
type ServiceInterface interface {
	Search(ctx context.Context, req models.PlaceSearchRequest) (*models.PlaceSearchResult, error)
	Detail(ctx context.Context, placeID, contentType string) (*models.PlaceDetail, error)
}

// Service fronts the search provider. It adds nothing to the provider's data
// beyond enforcing that detail lookups only run for the search source; stops
// restored from a saved trip have no upstream detail.
type Service struct {
	provider ProviderInterface
}

// NewService creates a new places service.
func NewService(provider ProviderInterface) *Service {
	return &Service{provider: provider}
}

// Search runs a keyword/region/category query against the provider.
func (s *Service) Search(ctx context.Context, req models.PlaceSearchRequest) (*models.PlaceSearchResult, error) {
	result, err := s.provider.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("service.Search: %w", err)
	}
	return result, nil
}

// Detail fetches extended content for a focused place. The request context
// is tied to the focusing request: when the member moves focus before the
// provider answers, the context is cancelled and the stale response is
// discarded, never applied.
func (s *Service) Detail(ctx context.Context, placeID, contentType string) (*models.PlaceDetail, error) {
	if placeID == "" {
		return nil, models.ErrNotFound
	}
	detail, err := s.provider.Detail(ctx, placeID, contentType)
	if err != nil {
		if ctx.Err() != nil {
			// Focus moved on; the result is stale and must not surface.
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("service.Detail: %w", err)
	}
	return detail, nil
}
