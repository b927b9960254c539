package planner

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"travel-journal-backend/internal/models"
)

// surfaceCommand is one drawing instruction streamed to the client map.
type surfaceCommand struct {
	Op     string               `json:"op"` // clear | marker | path | center
	Label  int                  `json:"label,omitempty"`
	At     *models.Coordinates  `json:"at,omitempty"`
	Points []models.Coordinates `json:"points,omitempty"`
}

// WebSocketSurface is the production MapSurface: it streams full-redraw
// commands over a websocket to the interactive map running in the client.
// The surface owns path measurement, summing the great-circle legs of the
// polyline it was asked to draw, so the renderer can treat the result as the
// map-native length.
type WebSocketSurface struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWebSocketSurface wraps an upgraded connection.
func NewWebSocketSurface(conn *websocket.Conn) *WebSocketSurface {
	return &WebSocketSurface{conn: conn}
}

// Ready reports whether the connection is still usable.
func (s *WebSocketSurface) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Close drops the connection; the surface stops accepting commands.
func (s *WebSocketSurface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

func (s *WebSocketSurface) send(cmd surfaceCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return fmt.Errorf("surface: connection closed")
	}
	if err := s.conn.WriteJSON(cmd); err != nil {
		// A failed write means the client is gone; mark the surface not
		// ready so the renderer buffers until a new attach.
		s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

// Clear tells the client to remove all markers and the path.
func (s *WebSocketSurface) Clear() {
	_ = s.send(surfaceCommand{Op: "clear"})
}

// AddMarker places one numbered marker.
func (s *WebSocketSurface) AddMarker(label int, at models.Coordinates) {
	coord := at
	_ = s.send(surfaceCommand{Op: "marker", Label: label, At: &coord})
}

// DrawPath draws the connecting path and returns its length in meters,
// measured leg by leg over the same points the client draws.
func (s *WebSocketSurface) DrawPath(points []models.Coordinates) (float64, bool) {
	if err := s.send(surfaceCommand{Op: "path", Points: points}); err != nil {
		return 0, false
	}
	var meters float64
	for i := 1; i < len(points); i++ {
		meters += DistanceKm(points[i-1], points[i]) * 1000
	}
	return meters, true
}

// SetCenter recenters the client viewport.
func (s *WebSocketSurface) SetCenter(at models.Coordinates) {
	coord := at
	_ = s.send(surfaceCommand{Op: "center", At: &coord})
}
