package planner

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"travel-journal-backend/internal/models"
)

// upgrader upgrades map-surface connections to WebSocket.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler exposes the planner over HTTP. Every endpoint resolves the session
// first; a dead or unknown session id is a 404.
type Handler struct {
	manager  *Manager
	validate *validator.Validate
}

// NewHandler creates a new planner handler.
func NewHandler(manager *Manager) *Handler {
	return &Handler{
		manager:  manager,
		validate: validator.New(),
	}
}

func (h *Handler) session(c echo.Context) (*Session, error) {
	s, err := h.manager.Get(c.Param("sessionId"))
	if err != nil {
		// Write the response here and still return the sentinel so callers
		// bail out; echo skips its error handler once the response is
		// committed.
		_ = c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Planning session not found"})
		return nil, err
	}
	return s, nil
}

func authSnapshot(c echo.Context) models.AuthSnapshot {
	memberID, _ := c.Get("memberID").(string)
	return models.AuthSnapshot{
		IsAuthenticated: memberID != "",
		MemberID:        memberID,
	}
}

// StartSession handles POST /planner/sessions.
func (h *Handler) StartSession(c echo.Context) error {
	var req models.StartSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	auth := authSnapshot(c)

	var s *Session
	if req.Mode == string(ModeEdit) {
		if req.TripID == 0 {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: models.ErrMissingTripID.Error()})
		}
		var err error
		s, err = h.manager.StartEdit(c.Request().Context(), auth, req.TripID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Trip not found"})
			}
			if errors.Is(err, models.ErrForbidden) {
				return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "You can only edit your own trips"})
			}
			c.Logger().Error("Handler.StartSession: ", err)
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load trip for editing"})
		}
	} else {
		s = h.manager.StartCreate(auth)
	}

	return c.JSON(http.StatusCreated, models.SessionResponse{
		SessionID: s.ID,
		Mode:      string(s.Controller.Mode()),
		State:     s.Controller.State(),
	})
}

// CloseSession handles DELETE /planner/sessions/:sessionId. Navigation away
// and post-submit cleanup both land here.
func (h *Handler) CloseSession(c echo.Context) error {
	h.manager.Close(c.Param("sessionId"))
	return c.NoContent(http.StatusNoContent)
}

// GetState handles GET /planner/sessions/:sessionId.
func (h *Handler) GetState(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.Controller.State())
}

// AddPlace handles POST /planner/sessions/:sessionId/places.
func (h *Handler) AddPlace(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}

	var req models.AddPlaceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}

	state, err := s.Controller.AddPlace(req.Place)
	if err != nil {
		if errors.Is(err, models.ErrRouteFull) {
			// Blocking user notice, not a server fault. The list is unchanged.
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: err.Error()})
		}
		c.Logger().Error("Handler.AddPlace: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to add stop"})
	}
	return c.JSON(http.StatusOK, state)
}

// RemoveStop handles DELETE /planner/sessions/:sessionId/places/:index.
func (h *Handler) RemoveStop(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid stop index"})
	}
	return c.JSON(http.StatusOK, s.Controller.RemoveStop(index))
}

// Reorder handles POST /planner/sessions/:sessionId/reorder, the direct
// (non-gesture) reorder used by keyboard controls.
func (h *Handler) Reorder(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req models.ReorderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	return c.JSON(http.StatusOK, s.Controller.Reorder(req.From, req.To))
}

// DragStart handles POST /planner/sessions/:sessionId/drag/start.
func (h *Handler) DragStart(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req models.DragRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	s.Controller.DragStart(req.Index)
	return c.NoContent(http.StatusNoContent)
}

// DragOver handles GET /planner/sessions/:sessionId/drag/over. It only
// answers whether a drop would be accepted; nothing changes server-side.
func (h *Handler) DragOver(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"accepts_drop": s.Controller.DragOver()})
}

// Drop handles POST /planner/sessions/:sessionId/drag/drop.
func (h *Handler) Drop(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req models.DragRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	return c.JSON(http.StatusOK, s.Controller.Drop(req.Index))
}

// ClearRoute handles POST /planner/sessions/:sessionId/clear.
func (h *Handler) ClearRoute(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.Controller.ClearRoute())
}

// Focus handles POST /planner/sessions/:sessionId/focus and recenters the
// map on the inspected result.
func (h *Handler) Focus(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req models.FocusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	gen := s.Controller.Focus(req.Coordinates)
	return c.JSON(http.StatusOK, map[string]int{"focus_generation": gen})
}

// SetTitle handles PUT /planner/sessions/:sessionId/title.
func (h *Handler) SetTitle(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req models.SetTitleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}
	s.Controller.SetTitle(req.Title)
	return c.NoContent(http.StatusNoContent)
}

// SetMeta handles PUT /planner/sessions/:sessionId/meta.
func (h *Handler) SetMeta(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req models.SetMetaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}
	h.manager.SaveMeta(s, models.TripMeta{
		CompanionTagID: req.CompanionTagID,
		DurationTagID:  req.DurationTagID,
		StyleTagID:     req.StyleTagID,
	})
	return c.NoContent(http.StatusNoContent)
}

// ClearMeta handles DELETE /planner/sessions/:sessionId/meta (explicit reset).
func (h *Handler) ClearMeta(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	h.manager.ClearMeta(s)
	return c.NoContent(http.StatusNoContent)
}

// SetDraftField handles PUT /planner/sessions/:sessionId/stops/:routeId/draft.
func (h *Handler) SetDraftField(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req models.SetDraftFieldRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}
	s.Controller.SetDraftField(c.Param("routeId"), req.Field, req.Value)
	return c.NoContent(http.StatusNoContent)
}

// AppendPhotos handles POST /planner/sessions/:sessionId/stops/:routeId/photos.
func (h *Handler) AppendPhotos(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req models.AppendPhotosRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}
	return c.JSON(http.StatusOK, s.Controller.AppendPhotos(c.Param("routeId"), req.Photos))
}

// DeleteCurrentPhoto handles DELETE /planner/sessions/:sessionId/stops/:routeId/photos?index=N.
func (h *Handler) DeleteCurrentPhoto(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.QueryParam("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid photo index"})
	}
	return c.JSON(http.StatusOK, s.Controller.DeleteCurrentPhoto(c.Param("routeId"), index))
}

// MarkSaved handles POST /planner/sessions/:sessionId/stops/:routeId/saved.
func (h *Handler) MarkSaved(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	s.Controller.MarkSaved(c.Param("routeId"))
	return c.NoContent(http.StatusNoContent)
}

// Cancel handles POST /planner/sessions/:sessionId/cancel.
func (h *Handler) Cancel(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	s.Controller.Cancel()
	return c.NoContent(http.StatusNoContent)
}

// Submit handles POST /planner/sessions/:sessionId/submit.
func (h *Handler) Submit(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}

	trip, err := s.Controller.Submit(c.Request().Context())
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMissingTripTitle), errors.Is(err, models.ErrMissingTripID):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		case errors.Is(err, models.ErrSubmitInFlight):
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: err.Error()})
		default:
			c.Logger().Error("Handler.Submit: ", err)
			// In-memory state is intact; the member can retry.
			return c.JSON(http.StatusBadGateway, models.ErrorResponse{Message: "Failed to save the trip, please try again"})
		}
	}
	return c.JSON(http.StatusOK, trip)
}

// HandleMapSurface handles GET /ws/planner/sessions/:sessionId/map. The
// upgraded connection becomes the session's map surface; the renderer polls
// it for readiness and replays the latest redraw once attached.
func (h *Handler) HandleMapSurface(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	surface := NewWebSocketSurface(conn)
	s.Controller.AttachSurface(s.Context(), surface)

	// Hold the connection open; the read pump only notices closure (the
	// client never sends drawing commands upstream).
	defer func() {
		surface.Close()
		s.Controller.DetachSurface()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}
