package trips

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"travel-journal-backend/internal/models"
)

// Handler exposes trip posts over HTTP.
type Handler struct {
	service  ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new trips handler.
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

func memberID(c echo.Context) string {
	id, _ := c.Get("memberID").(string)
	return id
}

func tripID(c echo.Context) (int, error) {
	return strconv.Atoi(c.Param("tripId"))
}

// GetTrip handles GET /trips/:tripId.
func (h *Handler) GetTrip(c echo.Context) error {
	id, err := tripID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid trip id"})
	}
	trip, err := h.service.Get(c.Request().Context(), id, memberID(c))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Trip not found"})
		}
		c.Logger().Error("Handler.GetTrip: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load trip"})
	}
	return c.JSON(http.StatusOK, trip)
}

// ListTrips handles GET /trips?tags=1,5,9&page=1&limit=10.
func (h *Handler) ListTrips(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	var tagIDs []int
	if raw := c.QueryParam("tags"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if id, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				tagIDs = append(tagIDs, id)
			}
		}
	}

	summaries, total, err := h.service.List(c.Request().Context(), tagIDs, page, limit)
	if err != nil {
		c.Logger().Error("Handler.ListTrips: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list trips"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"trips": summaries,
		"total": total,
	})
}

// CreateTrip handles POST /trips (direct API submission outside the planner).
func (h *Handler) CreateTrip(c echo.Context) error {
	var payload models.TripPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(payload); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	trip, err := h.service.Create(c.Request().Context(), memberID(c), payload)
	if err != nil {
		if errors.Is(err, models.ErrMissingTripTitle) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		}
		c.Logger().Error("Handler.CreateTrip: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create trip"})
	}
	return c.JSON(http.StatusCreated, trip)
}

// UpdateTrip handles PUT /trips/:tripId.
func (h *Handler) UpdateTrip(c echo.Context) error {
	id, err := tripID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid trip id"})
	}
	var payload models.TripPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(payload); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	trip, err := h.service.Update(c.Request().Context(), memberID(c), id, payload)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Trip not found"})
		case errors.Is(err, models.ErrForbidden):
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "You can only update your own trips"})
		case errors.Is(err, models.ErrMissingTripTitle), errors.Is(err, models.ErrMissingTripID):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		default:
			c.Logger().Error("Handler.UpdateTrip: ", err)
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update trip"})
		}
	}
	return c.JSON(http.StatusOK, trip)
}

// DeleteTrip handles DELETE /trips/:tripId.
func (h *Handler) DeleteTrip(c echo.Context) error {
	id, err := tripID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid trip id"})
	}
	if err := h.service.Delete(c.Request().Context(), memberID(c), id); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Trip not found"})
		case errors.Is(err, models.ErrForbidden):
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "You can only delete your own trips"})
		default:
			c.Logger().Error("Handler.DeleteTrip: ", err)
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to delete trip"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Like handles PUT /trips/:tripId/like and DELETE /trips/:tripId/like.
func (h *Handler) Like(c echo.Context) error {
	return h.setFlag(c, "like")
}

// Bookmark handles PUT /trips/:tripId/bookmark and DELETE /trips/:tripId/bookmark.
func (h *Handler) Bookmark(c echo.Context) error {
	return h.setFlag(c, "bookmark")
}

func (h *Handler) setFlag(c echo.Context, kind string) error {
	id, err := tripID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid trip id"})
	}
	on := c.Request().Method != http.MethodDelete

	if kind == "like" {
		err = h.service.SetLike(c.Request().Context(), id, memberID(c), on)
	} else {
		err = h.service.SetBookmark(c.Request().Context(), id, memberID(c), on)
	}
	if err != nil {
		c.Logger().Errorf("Handler.setFlag(%s): %v", kind, err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update " + kind})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListComments handles GET /trips/:tripId/comments?page=1&limit=20.
func (h *Handler) ListComments(c echo.Context) error {
	id, err := tripID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid trip id"})
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	comments, total, err := h.service.ListComments(c.Request().Context(), id, page, limit)
	if err != nil {
		c.Logger().Error("Handler.ListComments: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list comments"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"comments": comments,
		"total":    total,
	})
}

// CreateComment handles POST /trips/:tripId/comments.
func (h *Handler) CreateComment(c echo.Context) error {
	id, err := tripID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid trip id"})
	}
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	comment, err := h.service.CreateComment(c.Request().Context(), id, memberID(c), req.Content)
	if err != nil {
		c.Logger().Error("Handler.CreateComment: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to post comment"})
	}
	return c.JSON(http.StatusCreated, comment)
}

// DeleteComment handles DELETE /trips/comments/:commentId.
func (h *Handler) DeleteComment(c echo.Context) error {
	commentID, err := strconv.Atoi(c.Param("commentId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid comment id"})
	}
	if err := h.service.DeleteComment(c.Request().Context(), commentID, memberID(c)); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Comment not found"})
		}
		c.Logger().Error("Handler.DeleteComment: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to delete comment"})
	}
	return c.NoContent(http.StatusNoContent)
}
