package members

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"travel-journal-backend/internal/models"
)

// RepositoryInterface defines methods for member storage.
type RepositoryInterface interface {
	FindByID(ctx context.Context, memberID string) (*models.Member, error)
	FindByEmail(ctx context.Context, email string) (*models.Member, error)
	FindByProviderID(ctx context.Context, provider, providerID string) (*models.Member, error)
	Create(ctx context.Context, member *models.Member) (*models.Member, error)
	Update(ctx context.Context, memberID string, data models.MemberUpdateData) (*models.Member, error)
}

type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new member repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const memberColumns = `id, nickname, email, COALESCE(password_hash, ''), COALESCE(avatar_url, ''), auth_provider, COALESCE(auth_provider_id, ''), created_at, updated_at`

func scanMember(row pgx.Row) (*models.Member, error) {
	m := &models.Member{}
	err := row.Scan(&m.ID, &m.Nickname, &m.Email, &m.PasswordHash, &m.AvatarURL,
		&m.AuthProvider, &m.AuthProviderID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *Repository) FindByID(ctx context.Context, memberID string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	m, err := scanMember(r.db.QueryRow(ctx, query, memberID))
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return m, err
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE email = $1`
	m, err := scanMember(r.db.QueryRow(ctx, query, email))
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("repository.FindByEmail: %w", err)
	}
	return m, err
}

func (r *Repository) FindByProviderID(ctx context.Context, provider, providerID string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE auth_provider = $1 AND auth_provider_id = $2`
	m, err := scanMember(r.db.QueryRow(ctx, query, provider, providerID))
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("repository.FindByProviderID: %w", err)
	}
	return m, err
}

func (r *Repository) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	query := `
		INSERT INTO members (nickname, email, password_hash, avatar_url, auth_provider, auth_provider_id)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''))
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, member.Nickname, member.Email, member.PasswordHash,
		member.AvatarURL, member.AuthProvider, member.AuthProviderID).
		Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository.Create: %w", err)
	}
	return member, nil
}

func (r *Repository) Update(ctx context.Context, memberID string, data models.MemberUpdateData) (*models.Member, error) {
	query := `
		UPDATE members
		SET nickname = COALESCE($2, nickname),
		    avatar_url = COALESCE($3, avatar_url),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + memberColumns
	m, err := scanMember(r.db.QueryRow(ctx, query, memberID, data.Nickname, data.AvatarURL))
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("repository.Update: %w", err)
	}
	return m, err
}
