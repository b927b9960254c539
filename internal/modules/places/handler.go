package places

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"travel-journal-backend/internal/models"
)

// Handler exposes place search and detail lookup.
type Handler struct {
	service  ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new places handler.
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

// Search handles GET /places/search.
func (h *Handler) Search(c echo.Context) error {
	var req models.PlaceSearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid query parameters"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	result, err := h.service.Search(c.Request().Context(), req)
	if err != nil {
		c.Logger().Error("Handler.Search: ", err)
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{Message: "Place search is temporarily unavailable"})
	}
	return c.JSON(http.StatusOK, result)
}

// Detail handles GET /places/:placeId/detail. The browser aborts this
// request when focus moves to another result; the cancelled context makes
// the in-flight provider call return without the stale result ever being
// written to the response.
func (h *Handler) Detail(c echo.Context) error {
	detail, err := h.service.Detail(c.Request().Context(), c.Param("placeId"), c.QueryParam("content_type"))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Stale lookup, silently dropped.
			return c.NoContent(http.StatusNoContent)
		}
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Place not found"})
		}
		c.Logger().Error("Handler.Detail: ", err)
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{Message: "Failed to load place details"})
	}
	return c.JSON(http.StatusOK, detail)
}
