package trips

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-journal-backend/internal/models"
)

// fakeRepository is an in-memory RepositoryInterface for service tests.
type fakeRepository struct {
	trips       map[int]*models.Trip
	nextID      int
	comments    []*models.Comment
	authorEmail string
	listPage    int
	listLimit   int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{trips: make(map[int]*models.Trip), nextID: 1, authorEmail: "author@example.com"}
}

func (f *fakeRepository) Create(ctx context.Context, memberID string, payload models.TripPayload) (*models.Trip, error) {
	trip := &models.Trip{
		ID:       f.nextID,
		MemberID: memberID,
		Title:    payload.Title,
		TagIDs:   payload.TagIDs,
		Stops:    payload.Stops,
	}
	f.trips[trip.ID] = trip
	f.nextID++
	return trip, nil
}

func (f *fakeRepository) Update(ctx context.Context, tripID int, payload models.TripPayload) (*models.Trip, error) {
	trip, ok := f.trips[tripID]
	if !ok {
		return nil, models.ErrNotFound
	}
	trip.Title = payload.Title
	trip.TagIDs = payload.TagIDs
	trip.Stops = payload.Stops
	return trip, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, tripID int, viewerID string) (*models.Trip, error) {
	trip, ok := f.trips[tripID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return trip, nil
}

func (f *fakeRepository) List(ctx context.Context, tagIDs []int, page, limit int) ([]*models.TripSummary, int, error) {
	f.listPage, f.listLimit = page, limit
	return nil, 0, nil
}

func (f *fakeRepository) Delete(ctx context.Context, tripID int) error {
	if _, ok := f.trips[tripID]; !ok {
		return models.ErrNotFound
	}
	delete(f.trips, tripID)
	return nil
}

func (f *fakeRepository) SetLike(ctx context.Context, tripID int, memberID string, liked bool) error {
	return nil
}

func (f *fakeRepository) SetBookmark(ctx context.Context, tripID int, memberID string, bookmarked bool) error {
	return nil
}

func (f *fakeRepository) ListComments(ctx context.Context, tripID int, page, limit int) ([]*models.Comment, int, error) {
	return f.comments, len(f.comments), nil
}

func (f *fakeRepository) CreateComment(ctx context.Context, tripID int, memberID, content string) (*models.Comment, error) {
	cm := &models.Comment{ID: len(f.comments) + 1, TripID: tripID, MemberID: memberID, Nickname: "commenter", Content: content}
	f.comments = append(f.comments, cm)
	return cm, nil
}

func (f *fakeRepository) DeleteComment(ctx context.Context, commentID int, memberID string) error {
	return nil
}

func (f *fakeRepository) AuthorContact(ctx context.Context, tripID int) (string, string, error) {
	trip, ok := f.trips[tripID]
	if !ok {
		return "", "", models.ErrNotFound
	}
	return f.authorEmail, trip.Title, nil
}

// fakeEmailSender records notification sends.
type fakeEmailSender struct {
	to, subject, plain, html string
	sent                     int
}

func (f *fakeEmailSender) SendEmail(ctx context.Context, to, subject, plainTextContent, htmlContent string) error {
	f.to, f.subject, f.plain, f.html = to, subject, plainTextContent, htmlContent
	f.sent++
	return nil
}

func payloadWithStops(title string) models.TripPayload {
	return models.TripPayload{
		Title:  title,
		TagIDs: []int{1, 5, 9},
		Stops: []models.TripStop{
			{Title: "Stop", Coordinates: models.Coordinates{Lat: 1, Lng: 2}, ExternalID: "x1"},
		},
	}
}

func TestService_CreateRequiresTitle(t *testing.T) {
	svc := NewService(newFakeRepository(), nil, "http://client")

	_, err := svc.Create(context.Background(), "m1", payloadWithStops(""))
	require.ErrorIs(t, err, models.ErrMissingTripTitle)

	trip, err := svc.Create(context.Background(), "m1", payloadWithStops("Coast"))
	require.NoError(t, err)
	assert.Equal(t, "m1", trip.MemberID)
}

func TestService_UpdateGuards(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil, "http://client")
	trip, err := svc.Create(context.Background(), "owner", payloadWithStops("Coast"))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "owner", 0, payloadWithStops("Renamed"))
	assert.ErrorIs(t, err, models.ErrMissingTripID)

	_, err = svc.Update(context.Background(), "intruder", trip.ID, payloadWithStops("Stolen"))
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Equal(t, "Coast", repo.trips[trip.ID].Title)

	updated, err := svc.Update(context.Background(), "owner", trip.ID, payloadWithStops("Renamed"))
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestService_DeleteOnlyOwner(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil, "http://client")
	trip, err := svc.Create(context.Background(), "owner", payloadWithStops("Coast"))
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "intruder", trip.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	require.NoError(t, svc.Delete(context.Background(), "owner", trip.ID))
	_, err = svc.Get(context.Background(), trip.ID, "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestService_ListClampsPaging(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil, "http://client")

	_, _, err := svc.List(context.Background(), nil, -3, 999)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listPage)
	assert.Equal(t, 10, repo.listLimit)
}

func TestService_CreateCommentNotifiesAuthor(t *testing.T) {
	repo := newFakeRepository()
	sender := &fakeEmailSender{}
	svc := NewService(repo, sender, "http://client")
	trip, err := svc.Create(context.Background(), "owner", payloadWithStops("Coast"))
	require.NoError(t, err)

	comment, err := svc.CreateComment(context.Background(), trip.ID, "m2", "lovely route")
	require.NoError(t, err)
	assert.Equal(t, "lovely route", comment.Content)

	require.Equal(t, 1, sender.sent)
	assert.Equal(t, "author@example.com", sender.to)
	assert.Contains(t, sender.subject, "Coast")
	assert.Contains(t, sender.plain, "lovely route")
	assert.Contains(t, sender.html, "lovely route")
	assert.Contains(t, sender.html, fmt.Sprintf("http://client/trips/%d", trip.ID))
}

func TestService_CreateCommentWithoutSender(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil, "http://client")
	trip, err := svc.Create(context.Background(), "owner", payloadWithStops("Coast"))
	require.NoError(t, err)

	// Notifications disabled: the comment still lands.
	comment, err := svc.CreateComment(context.Background(), trip.ID, "m2", "still works")
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)
}
