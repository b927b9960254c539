package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"travel-journal-backend/internal/api/middleware"
	"travel-journal-backend/internal/modules/files"
	"travel-journal-backend/internal/modules/members"
	"travel-journal-backend/internal/modules/places"
	"travel-journal-backend/internal/modules/planner"
	"travel-journal-backend/internal/modules/trips"
)

// SetupRoutes sets up all the API endpoints for the application.
func SetupRoutes(
	e *echo.Echo,
	jwtSecret string,
	memberHandler *members.Handler,
	placeHandler *places.Handler,
	plannerHandler *planner.Handler,
	tripHandler *trips.Handler,
	fileHandler *files.Handler,
) {
	authMiddleware := middleware.JWTAuth(jwtSecret)
	optionalAuth := middleware.OptionalJWTAuth(jwtSecret)

	// --- Public Routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to the Travel Journal API!"})
	})

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", memberHandler.Signup)
		authGroup.POST("/login", memberHandler.Login)
		authGroup.GET("/google", memberHandler.GoogleLogin)
		authGroup.GET("/google/callback", memberHandler.GoogleCallback)
	}

	// --- Profile Routes ---
	profileGroup := e.Group("/profile", authMiddleware)
	{
		profileGroup.GET("", memberHandler.GetMyProfile)
		profileGroup.PUT("", memberHandler.UpdateMyProfile)
	}

	// --- Place Search Routes ---
	placeGroup := e.Group("/places")
	{
		placeGroup.GET("/search", placeHandler.Search)
		placeGroup.GET("/:placeId/detail", placeHandler.Detail)
	}

	// --- Planner Routes (all require a logged-in member) ---
	plannerGroup := e.Group("/planner/sessions", authMiddleware)
	{
		plannerGroup.POST("", plannerHandler.StartSession)
		plannerGroup.GET("/:sessionId", plannerHandler.GetState)
		plannerGroup.DELETE("/:sessionId", plannerHandler.CloseSession)

		plannerGroup.POST("/:sessionId/places", plannerHandler.AddPlace)
		plannerGroup.DELETE("/:sessionId/places/:index", plannerHandler.RemoveStop)
		plannerGroup.POST("/:sessionId/reorder", plannerHandler.Reorder)
		plannerGroup.POST("/:sessionId/drag/start", plannerHandler.DragStart)
		plannerGroup.GET("/:sessionId/drag/over", plannerHandler.DragOver)
		plannerGroup.POST("/:sessionId/drag/drop", plannerHandler.Drop)
		plannerGroup.POST("/:sessionId/clear", plannerHandler.ClearRoute)
		plannerGroup.POST("/:sessionId/focus", plannerHandler.Focus)

		plannerGroup.PUT("/:sessionId/title", plannerHandler.SetTitle)
		plannerGroup.PUT("/:sessionId/meta", plannerHandler.SetMeta)
		plannerGroup.DELETE("/:sessionId/meta", plannerHandler.ClearMeta)

		plannerGroup.PUT("/:sessionId/stops/:routeId/draft", plannerHandler.SetDraftField)
		plannerGroup.POST("/:sessionId/stops/:routeId/photos", plannerHandler.AppendPhotos)
		plannerGroup.DELETE("/:sessionId/stops/:routeId/photos", plannerHandler.DeleteCurrentPhoto)
		plannerGroup.POST("/:sessionId/stops/:routeId/saved", plannerHandler.MarkSaved)

		plannerGroup.POST("/:sessionId/cancel", plannerHandler.Cancel)
		plannerGroup.POST("/:sessionId/submit", plannerHandler.Submit)
	}

	// The map surface websocket: the client map attaches here and receives
	// full-redraw command streams.
	e.GET("/ws/planner/sessions/:sessionId/map", plannerHandler.HandleMapSurface, authMiddleware)

	// --- Trip Routes ---
	tripGroup := e.Group("/trips")
	{
		tripGroup.GET("", tripHandler.ListTrips)
		tripGroup.GET("/:tripId", tripHandler.GetTrip, optionalAuth)
		tripGroup.GET("/:tripId/comments", tripHandler.ListComments)

		tripGroup.POST("", tripHandler.CreateTrip, authMiddleware)
		tripGroup.PUT("/:tripId", tripHandler.UpdateTrip, authMiddleware)
		tripGroup.DELETE("/:tripId", tripHandler.DeleteTrip, authMiddleware)

		tripGroup.PUT("/:tripId/like", tripHandler.Like, authMiddleware)
		tripGroup.DELETE("/:tripId/like", tripHandler.Like, authMiddleware)
		tripGroup.PUT("/:tripId/bookmark", tripHandler.Bookmark, authMiddleware)
		tripGroup.DELETE("/:tripId/bookmark", tripHandler.Bookmark, authMiddleware)

		tripGroup.POST("/:tripId/comments", tripHandler.CreateComment, authMiddleware)
		tripGroup.DELETE("/comments/:commentId", tripHandler.DeleteComment, authMiddleware)
	}

	// --- File Upload ---
	e.POST("/files/photos", fileHandler.Upload, authMiddleware)
}
