package trips

import (
	"context"
	"fmt"
	"log"

	"travel-journal-backend/internal/models"
	"travel-journal-backend/pkg/email"
)

// ServiceInterface defines trip business logic. The Create/Update/
// GetForMember subset doubles as the planner's submission target.
type ServiceInterface interface {
	Create(ctx context.Context, memberID string, payload models.TripPayload) (*models.Trip, error)
	Update(ctx context.Context, memberID string, tripID int, payload models.TripPayload) (*models.Trip, error)
	Get(ctx context.Context, tripID int, viewerID string) (*models.Trip, error)
	GetForMember(ctx context.Context, memberID string, tripID int) (*models.Trip, error)
	List(ctx context.Context, tagIDs []int, page, limit int) ([]*models.TripSummary, int, error)
	Delete(ctx context.Context, memberID string, tripID int) error

	SetLike(ctx context.Context, tripID int, memberID string, liked bool) error
	SetBookmark(ctx context.Context, tripID int, memberID string, bookmarked bool) error

	ListComments(ctx context.Context, tripID int, page, limit int) ([]*models.Comment, int, error)
	CreateComment(ctx context.Context, tripID int, memberID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID int, memberID string) error
}

// Service implements the trip business logic.
type Service struct {
	repo         RepositoryInterface
	emailSvc     email.ServiceInterface
	templates    *email.TemplateManager
	clientOrigin string
}

// NewService creates a new trip service. emailSvc may be nil when comment
// notifications are disabled.
func NewService(repo RepositoryInterface, emailSvc email.ServiceInterface, clientOrigin string) *Service {
	templates, err := email.NewTemplateManager()
	if err != nil {
		// The templates are compiled-in constants; failing to parse them is a
		// programming error caught by the first test run.
		log.Fatalf("failed to parse email templates: %v", err)
	}
	return &Service{
		repo:         repo,
		emailSvc:     emailSvc,
		templates:    templates,
		clientOrigin: clientOrigin,
	}
}

// Create persists a new trip for the member.
func (s *Service) Create(ctx context.Context, memberID string, payload models.TripPayload) (*models.Trip, error) {
	if payload.Title == "" {
		return nil, models.ErrMissingTripTitle
	}
	trip, err := s.repo.Create(ctx, memberID, payload)
	if err != nil {
		return nil, fmt.Errorf("service.Create: %w", err)
	}
	return trip, nil
}

// Update rewrites an existing trip. Only the owner may update; an update
// without a valid id is rejected before touching storage.
func (s *Service) Update(ctx context.Context, memberID string, tripID int, payload models.TripPayload) (*models.Trip, error) {
	if tripID == 0 {
		return nil, models.ErrMissingTripID
	}
	if payload.Title == "" {
		return nil, models.ErrMissingTripTitle
	}
	existing, err := s.repo.FindByID(ctx, tripID, memberID)
	if err != nil {
		return nil, fmt.Errorf("service.Update.FindByID: %w", err)
	}
	if existing.MemberID != memberID {
		return nil, models.ErrForbidden
	}
	trip, err := s.repo.Update(ctx, tripID, payload)
	if err != nil {
		return nil, fmt.Errorf("service.Update: %w", err)
	}
	return trip, nil
}

// Get loads a trip for any viewer.
func (s *Service) Get(ctx context.Context, tripID int, viewerID string) (*models.Trip, error) {
	trip, err := s.repo.FindByID(ctx, tripID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("service.Get: %w", err)
	}
	return trip, nil
}

// GetForMember loads a trip and verifies ownership; used to preload an edit
// session.
func (s *Service) GetForMember(ctx context.Context, memberID string, tripID int) (*models.Trip, error) {
	trip, err := s.repo.FindByID(ctx, tripID, memberID)
	if err != nil {
		return nil, fmt.Errorf("service.GetForMember: %w", err)
	}
	if trip.MemberID != memberID {
		return nil, models.ErrForbidden
	}
	return trip, nil
}

// List returns a page of trip summaries filtered by tag ids.
func (s *Service) List(ctx context.Context, tagIDs []int, page, limit int) ([]*models.TripSummary, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.repo.List(ctx, tagIDs, page, limit)
}

// Delete removes the member's own trip.
func (s *Service) Delete(ctx context.Context, memberID string, tripID int) error {
	trip, err := s.repo.FindByID(ctx, tripID, memberID)
	if err != nil {
		return fmt.Errorf("service.Delete.FindByID: %w", err)
	}
	if trip.MemberID != memberID {
		return models.ErrForbidden
	}
	return s.repo.Delete(ctx, tripID)
}

// SetLike records the member's like state for a trip.
func (s *Service) SetLike(ctx context.Context, tripID int, memberID string, liked bool) error {
	return s.repo.SetLike(ctx, tripID, memberID, liked)
}

// SetBookmark records the member's bookmark state for a trip.
func (s *Service) SetBookmark(ctx context.Context, tripID int, memberID string, bookmarked bool) error {
	return s.repo.SetBookmark(ctx, tripID, memberID, bookmarked)
}

// ListComments returns one page of a trip's comments.
func (s *Service) ListComments(ctx context.Context, tripID int, page, limit int) ([]*models.Comment, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return s.repo.ListComments(ctx, tripID, page, limit)
}

// CreateComment posts a comment and notifies the trip author by email. A
// failed notification is logged, never surfaced: the comment itself is
// already committed.
func (s *Service) CreateComment(ctx context.Context, tripID int, memberID, content string) (*models.Comment, error) {
	comment, err := s.repo.CreateComment(ctx, tripID, memberID, content)
	if err != nil {
		return nil, fmt.Errorf("service.CreateComment: %w", err)
	}

	if s.emailSvc != nil {
		if authorEmail, tripTitle, err := s.repo.AuthorContact(ctx, tripID); err == nil && authorEmail != "" {
			subject := fmt.Sprintf("New comment on %q", tripTitle)
			plain := fmt.Sprintf("%s commented: %s", comment.Nickname, comment.Content)
			html, err := s.templates.GenerateCommentEmailHTML(email.CommentData{
				TripTitle: tripTitle,
				Nickname:  comment.Nickname,
				Comment:   comment.Content,
				Link:      fmt.Sprintf("%s/trips/%d", s.clientOrigin, tripID),
			})
			if err != nil {
				log.Printf("ERROR: failed to render comment notification for trip %d: %v", tripID, err)
				html = ""
			}
			if err := s.emailSvc.SendEmail(ctx, authorEmail, subject, plain, html); err != nil {
				log.Printf("ERROR: failed to send comment notification for trip %d: %v", tripID, err)
			}
		}
	}
	return comment, nil
}

// DeleteComment removes the member's own comment.
func (s *Service) DeleteComment(ctx context.Context, commentID int, memberID string) error {
	return s.repo.DeleteComment(ctx, commentID, memberID)
}
