package models

import "time"

// Member is a registered account. Accounts created through Google OAuth have
// no password hash; AuthProvider distinguishes the two.
type Member struct {
	ID             string    `json:"id" db:"id"` // UUID string from DB
	Nickname       string    `json:"nickname,omitempty" db:"nickname"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	AvatarURL      string    `json:"avatar_url,omitempty" db:"avatar_url"`
	AuthProvider   string    `json:"auth_provider" db:"auth_provider"`
	AuthProviderID string    `json:"-" db:"auth_provider_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

type SignupRequest struct {
	Nickname string `json:"nickname" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string  `json:"access_token"`
	Member      *Member `json:"member"`
}

// MemberUpdateData defines the fields a member can change on their profile.
type MemberUpdateData struct {
	Nickname  *string `json:"nickname,omitempty" validate:"omitempty,min=1,max=100"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// AuthSnapshot is the read-only view of the ambient auth state handed to the
// planner. The planner never mutates auth state; it only reads this.
type AuthSnapshot struct {
	IsAuthenticated bool
	MemberID        string
}
