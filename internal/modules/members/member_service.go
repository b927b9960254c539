package members

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"travel-journal-backend/internal/models"
)

// ServiceInterface defines methods for member business logic.
type ServiceInterface interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GoogleLoginURL(state string) string
	HandleGoogleCallback(ctx context.Context, code string) (*models.AuthResponse, error)

	GetProfile(ctx context.Context, memberID string) (*models.Member, error)
	UpdateProfile(ctx context.Context, memberID string, data models.MemberUpdateData) (*models.Member, error)
}

type Service struct {
	repo              RepositoryInterface
	jwtSecret         string
	clientOrigin      string
	googleOAuthConfig *oauth2.Config
}

// NewService creates a new member service.
func NewService(repo RepositoryInterface, jwtSecret, clientOrigin, googleClientID, googleClientSecret, googleRedirectURL string) ServiceInterface {
	return &Service{
		repo:         repo,
		jwtSecret:    jwtSecret,
		clientOrigin: clientOrigin,
		googleOAuthConfig: &oauth2.Config{
			ClientID:     googleClientID,
			ClientSecret: googleClientSecret,
			RedirectURL:  googleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// googleUserInfo unmarshals the Google user info response.
type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	// Check whether the email is taken before hashing anything.
	_, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("service.Signup.FindByEmail: %w", err)
	}
	if err == nil {
		return nil, models.ErrConflict
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service.Signup.HashPassword: %w", err)
	}

	member, err := s.repo.Create(ctx, &models.Member{
		Nickname:     req.Nickname,
		Email:        req.Email,
		PasswordHash: string(hashed),
		AuthProvider: "local",
	})
	if err != nil {
		return nil, fmt.Errorf("service.Signup.Create: %w", err)
	}
	return s.issueToken(member)
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	member, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service.Login.FindByEmail: %w", err)
	}
	if member.PasswordHash == "" {
		// OAuth-only account; there is no password to check.
		return nil, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	return s.issueToken(member)
}

// GoogleLoginURL builds the consent-screen URL for this login attempt.
func (s *Service) GoogleLoginURL(state string) string {
	return s.googleOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// HandleGoogleCallback exchanges the authorization code, fetches the Google
// profile, finds or creates the member, and issues our JWT.
func (s *Service) HandleGoogleCallback(ctx context.Context, code string) (*models.AuthResponse, error) {
	token, err := s.googleOAuthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("service.HandleGoogleCallback.Exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://www.googleapis.com/oauth2/v2/userinfo?access_token="+token.AccessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("service.HandleGoogleCallback.BuildRequest: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("service.HandleGoogleCallback.UserInfo: %w", err)
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("service.HandleGoogleCallback.Decode: %w", err)
	}

	member, err := s.repo.FindByProviderID(ctx, "google", info.ID)
	if errors.Is(err, models.ErrNotFound) {
		member, err = s.repo.Create(ctx, &models.Member{
			Nickname:       info.Name,
			Email:          info.Email,
			AvatarURL:      info.Picture,
			AuthProvider:   "google",
			AuthProviderID: info.ID,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("service.HandleGoogleCallback.FindOrCreate: %w", err)
	}
	return s.issueToken(member)
}

func (s *Service) issueToken(member *models.Member) (*models.AuthResponse, error) {
	claims := &models.JwtCustomClaims{
		MemberID: member.ID,
		Email:    member.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("service.issueToken: %w", err)
	}
	member.PasswordHash = ""
	return &models.AuthResponse{AccessToken: signed, Member: member}, nil
}

func (s *Service) GetProfile(ctx context.Context, memberID string) (*models.Member, error) {
	return s.repo.FindByID(ctx, memberID)
}

func (s *Service) UpdateProfile(ctx context.Context, memberID string, data models.MemberUpdateData) (*models.Member, error) {
	return s.repo.Update(ctx, memberID, data)
}
