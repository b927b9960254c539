package members

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"travel-journal-backend/internal/models"
	"travel-journal-backend/pkg/utils"
)

// Handler exposes auth and profile endpoints.
type Handler struct {
	service      ServiceInterface
	validate     *validator.Validate
	clientOrigin string

	// oauthState is rotated per login attempt and compared on callback.
	oauthState string
}

// NewHandler creates a new member handler.
func NewHandler(service ServiceInterface, clientOrigin string) *Handler {
	return &Handler{
		service:      service,
		validate:     validator.New(),
		clientOrigin: clientOrigin,
	}
}

func (h *Handler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	authResponse, err := h.service.Signup(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Email address is already in use"})
		}
		c.Logger().Error("Handler.Signup: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create account"})
	}
	return c.JSON(http.StatusCreated, authResponse)
}

func (h *Handler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	authResponse, err := h.service.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid email or password"})
		}
		c.Logger().Error("Handler.Login: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to log in"})
	}
	return c.JSON(http.StatusOK, authResponse)
}

// GoogleLogin redirects the browser to Google's consent screen.
func (h *Handler) GoogleLogin(c echo.Context) error {
	state, err := utils.GenerateSecureToken(16)
	if err != nil {
		c.Logger().Error("Handler.GoogleLogin: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Could not initiate Google login"})
	}
	h.oauthState = state
	return c.Redirect(http.StatusTemporaryRedirect, h.service.GoogleLoginURL(state))
}

// GoogleCallback handles Google's redirect with code and state parameters.
func (h *Handler) GoogleCallback(c echo.Context) error {
	if c.QueryParam("state") != h.oauthState {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid state"})
	}
	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Authorization code not provided"})
	}

	authResponse, err := h.service.HandleGoogleCallback(c.Request().Context(), code)
	if err != nil {
		c.Logger().Error("Handler.GoogleCallback: ", err)
		return c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s/login/error", h.clientOrigin))
	}

	// Hand the token to the frontend via the success-page query string.
	redirectURL := fmt.Sprintf("%s/login/success?token=%s", h.clientOrigin, authResponse.AccessToken)
	return c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}

func (h *Handler) GetMyProfile(c echo.Context) error {
	memberID, _ := c.Get("memberID").(string)
	member, err := h.service.GetProfile(c.Request().Context(), memberID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Member not found"})
		}
		c.Logger().Error("Handler.GetMyProfile: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load profile"})
	}
	return c.JSON(http.StatusOK, member)
}

func (h *Handler) UpdateMyProfile(c echo.Context) error {
	memberID, _ := c.Get("memberID").(string)
	var data models.MemberUpdateData
	if err := c.Bind(&data); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(data); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	member, err := h.service.UpdateProfile(c.Request().Context(), memberID, data)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Member not found"})
		}
		c.Logger().Error("Handler.UpdateMyProfile: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update profile"})
	}
	return c.JSON(http.StatusOK, member)
}
