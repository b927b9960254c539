package trips

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"travel-journal-backend/internal/models"
)

// RepositoryInterface defines the contract for trip storage.
type RepositoryInterface interface {
	Create(ctx context.Context, memberID string, payload models.TripPayload) (*models.Trip, error)
	Update(ctx context.Context, tripID int, payload models.TripPayload) (*models.Trip, error)
	FindByID(ctx context.Context, tripID int, viewerID string) (*models.Trip, error)
	List(ctx context.Context, tagIDs []int, page, limit int) ([]*models.TripSummary, int, error)
	Delete(ctx context.Context, tripID int) error

	SetLike(ctx context.Context, tripID int, memberID string, liked bool) error
	SetBookmark(ctx context.Context, tripID int, memberID string, bookmarked bool) error

	ListComments(ctx context.Context, tripID int, page, limit int) ([]*models.Comment, int, error)
	CreateComment(ctx context.Context, tripID int, memberID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID int, memberID string) error

	AuthorContact(ctx context.Context, tripID int) (email, tripTitle string, err error)
}

// Repository implements RepositoryInterface over PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new trip repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// Create inserts the trip and its stops in one transaction.
func (r *Repository) Create(ctx context.Context, memberID string, payload models.TripPayload) (*models.Trip, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.Create begin: %w", err)
	}
	defer tx.Rollback(ctx)

	trip := &models.Trip{
		MemberID: memberID,
		Title:    payload.Title,
		TagIDs:   payload.TagIDs,
		Stops:    payload.Stops,
	}
	query := `
		INSERT INTO trips (member_id, title, tag_ids)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, query, memberID, payload.Title, payload.TagIDs).
		Scan(&trip.ID, &trip.CreatedAt, &trip.UpdatedAt); err != nil {
		return nil, fmt.Errorf("repo.Create trip: %w", err)
	}

	if err := insertStops(ctx, tx, trip.ID, payload.Stops); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repo.Create commit: %w", err)
	}
	return trip, nil
}

// Update rewrites the trip row and replaces its stop list wholesale; stop
// order in the payload is authoritative.
func (r *Repository) Update(ctx context.Context, tripID int, payload models.TripPayload) (*models.Trip, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.Update begin: %w", err)
	}
	defer tx.Rollback(ctx)

	trip := &models.Trip{
		ID:     tripID,
		Title:  payload.Title,
		TagIDs: payload.TagIDs,
		Stops:  payload.Stops,
	}
	query := `
		UPDATE trips
		SET title = $2, tag_ids = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING member_id, created_at, updated_at`
	if err := tx.QueryRow(ctx, query, tripID, payload.Title, payload.TagIDs).
		Scan(&trip.MemberID, &trip.CreatedAt, &trip.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repo.Update trip: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM trip_stops WHERE trip_id = $1`, tripID); err != nil {
		return nil, fmt.Errorf("repo.Update clear stops: %w", err)
	}
	if err := insertStops(ctx, tx, tripID, payload.Stops); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repo.Update commit: %w", err)
	}
	return trip, nil
}

func insertStops(ctx context.Context, tx pgx.Tx, tripID int, stops []models.TripStop) error {
	query := `
		INSERT INTO trip_stops (trip_id, position, title, content, lat, lng, external_id, file_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i, stop := range stops {
		if _, err := tx.Exec(ctx, query, tripID, i+1, stop.Title, stop.Content,
			stop.Coordinates.Lat, stop.Coordinates.Lng, stop.ExternalID, stop.FileIDs); err != nil {
			return fmt.Errorf("repo.insertStops: %w", err)
		}
	}
	return nil
}

// FindByID loads a trip with its stops in stored order plus the viewer's
// like/bookmark state. viewerID may be empty for anonymous readers.
func (r *Repository) FindByID(ctx context.Context, tripID int, viewerID string) (*models.Trip, error) {
	trip := &models.Trip{ID: tripID}
	query := `
		SELECT t.member_id, t.title, t.tag_ids, t.created_at, t.updated_at,
		       (SELECT COUNT(*) FROM trip_likes l WHERE l.trip_id = t.id),
		       (SELECT COUNT(*) FROM trip_bookmarks b WHERE b.trip_id = t.id),
		       (SELECT COUNT(*) FROM trip_comments c WHERE c.trip_id = t.id),
		       EXISTS(SELECT 1 FROM trip_likes l WHERE l.trip_id = t.id AND l.member_id = $2),
		       EXISTS(SELECT 1 FROM trip_bookmarks b WHERE b.trip_id = t.id AND b.member_id = $2)
		FROM trips t
		WHERE t.id = $1`
	err := r.db.QueryRow(ctx, query, tripID, viewerID).Scan(
		&trip.MemberID, &trip.Title, &trip.TagIDs, &trip.CreatedAt, &trip.UpdatedAt,
		&trip.LikeCount, &trip.BookmarkCount, &trip.CommentCount, &trip.Liked, &trip.Bookmarked,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repo.FindByID: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT title, content, lat, lng, external_id, file_ids
		FROM trip_stops
		WHERE trip_id = $1
		ORDER BY position`, tripID)
	if err != nil {
		return nil, fmt.Errorf("repo.FindByID stops: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stop models.TripStop
		if err := rows.Scan(&stop.Title, &stop.Content,
			&stop.Coordinates.Lat, &stop.Coordinates.Lng, &stop.ExternalID, &stop.FileIDs); err != nil {
			return nil, fmt.Errorf("repo.FindByID scan stop: %w", err)
		}
		trip.Stops = append(trip.Stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.FindByID rows: %w", err)
	}
	return trip, nil
}

// List returns a page of trip summaries, newest first, optionally filtered
// by tag ids.
func (r *Repository) List(ctx context.Context, tagIDs []int, page, limit int) ([]*models.TripSummary, int, error) {
	offset := (page - 1) * limit
	query := `
		SELECT t.id, t.member_id, t.title, t.tag_ids, t.created_at,
		       (SELECT COUNT(*) FROM trip_stops s WHERE s.trip_id = t.id),
		       (SELECT COUNT(*) FROM trip_likes l WHERE l.trip_id = t.id),
		       (SELECT COUNT(*) FROM trip_comments c WHERE c.trip_id = t.id),
		       COALESCE((SELECT s.file_ids[1] FROM trip_stops s
		                 WHERE s.trip_id = t.id AND cardinality(s.file_ids) > 0
		                 ORDER BY s.position LIMIT 1), ''),
		       COUNT(*) OVER ()
		FROM trips t
		WHERE ($1::int[] IS NULL OR t.tag_ids && $1)
		ORDER BY t.created_at DESC
		LIMIT $2 OFFSET $3`

	var filter any
	if len(tagIDs) > 0 {
		filter = tagIDs
	}
	rows, err := r.db.Query(ctx, query, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.List: %w", err)
	}
	defer rows.Close()

	var summaries []*models.TripSummary
	var total int
	for rows.Next() {
		s := &models.TripSummary{}
		if err := rows.Scan(&s.ID, &s.MemberID, &s.Title, &s.TagIDs, &s.CreatedAt,
			&s.StopCount, &s.LikeCount, &s.CommentCount, &s.CoverFileID, &total); err != nil {
			return nil, 0, fmt.Errorf("repo.List scan: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.List rows: %w", err)
	}
	return summaries, total, nil
}

// Delete removes a trip; ON DELETE CASCADE takes the stops, likes, bookmarks
// and comments with it.
func (r *Repository) Delete(ctx context.Context, tripID int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id = $1`, tripID)
	if err != nil {
		return fmt.Errorf("repo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetLike makes the member's like state match liked; repeating the same
// state is harmless.
func (r *Repository) SetLike(ctx context.Context, tripID int, memberID string, liked bool) error {
	var err error
	if liked {
		_, err = r.db.Exec(ctx, `
			INSERT INTO trip_likes (trip_id, member_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, tripID, memberID)
	} else {
		_, err = r.db.Exec(ctx, `
			DELETE FROM trip_likes WHERE trip_id = $1 AND member_id = $2`, tripID, memberID)
	}
	if err != nil {
		return fmt.Errorf("repo.SetLike: %w", err)
	}
	return nil
}

// SetBookmark mirrors SetLike for bookmarks.
func (r *Repository) SetBookmark(ctx context.Context, tripID int, memberID string, bookmarked bool) error {
	var err error
	if bookmarked {
		_, err = r.db.Exec(ctx, `
			INSERT INTO trip_bookmarks (trip_id, member_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, tripID, memberID)
	} else {
		_, err = r.db.Exec(ctx, `
			DELETE FROM trip_bookmarks WHERE trip_id = $1 AND member_id = $2`, tripID, memberID)
	}
	if err != nil {
		return fmt.Errorf("repo.SetBookmark: %w", err)
	}
	return nil
}

// ListComments returns one page of comments, oldest first.
func (r *Repository) ListComments(ctx context.Context, tripID int, page, limit int) ([]*models.Comment, int, error) {
	offset := (page - 1) * limit
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.trip_id, c.member_id, m.nickname, c.content, c.created_at,
		       COUNT(*) OVER ()
		FROM trip_comments c
		JOIN members m ON m.id = c.member_id
		WHERE c.trip_id = $1
		ORDER BY c.created_at
		LIMIT $2 OFFSET $3`, tripID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ListComments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	var total int
	for rows.Next() {
		cm := &models.Comment{}
		if err := rows.Scan(&cm.ID, &cm.TripID, &cm.MemberID, &cm.Nickname, &cm.Content, &cm.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("repo.ListComments scan: %w", err)
		}
		comments = append(comments, cm)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.ListComments rows: %w", err)
	}
	return comments, total, nil
}

// CreateComment inserts a comment and returns it with the author nickname.
func (r *Repository) CreateComment(ctx context.Context, tripID int, memberID, content string) (*models.Comment, error) {
	cm := &models.Comment{TripID: tripID, MemberID: memberID, Content: content}
	err := r.db.QueryRow(ctx, `
		INSERT INTO trip_comments (trip_id, member_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at,
		          (SELECT nickname FROM members WHERE id = $2)`,
		tripID, memberID, content).
		Scan(&cm.ID, &cm.CreatedAt, &cm.Nickname)
	if err != nil {
		return nil, fmt.Errorf("repo.CreateComment: %w", err)
	}
	return cm, nil
}

// DeleteComment removes the member's own comment.
func (r *Repository) DeleteComment(ctx context.Context, commentID int, memberID string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM trip_comments WHERE id = $1 AND member_id = $2`, commentID, memberID)
	if err != nil {
		return fmt.Errorf("repo.DeleteComment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AuthorContact resolves the trip author's email and the trip title for
// comment notifications.
func (r *Repository) AuthorContact(ctx context.Context, tripID int) (string, string, error) {
	var email, title string
	err := r.db.QueryRow(ctx, `
		SELECT m.email, t.title FROM trips t JOIN members m ON m.id = t.member_id
		WHERE t.id = $1`, tripID).Scan(&email, &title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", models.ErrNotFound
		}
		return "", "", fmt.Errorf("repo.AuthorContact: %w", err)
	}
	return email, title, nil
}
