package files

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"travel-journal-backend/internal/models"
)

// Handler exposes photo upload.
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new files handler.
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// Upload handles POST /files/photos with multipart form field "photos".
// Failure is surfaced immediately; no partial batch is ever returned, so the
// caller's draft stays unchanged.
func (h *Handler) Upload(c echo.Context) error {
	memberID, _ := c.Get("memberID").(string)

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid multipart form"})
	}
	headers := form.File["photos"]
	if len(headers) == 0 {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "No photos in request"})
	}
	if len(headers) > models.MaxStopPhotos {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "A stop can hold at most 5 photos"})
	}

	refs, err := h.service.UploadBatch(c.Request().Context(), memberID, headers)
	if err != nil {
		c.Logger().Error("Handler.Upload: ", err)
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{Message: "Photo upload failed, please try again"})
	}
	return c.JSON(http.StatusCreated, map[string]any{"photos": refs})
}
