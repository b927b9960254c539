package planner

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"travel-journal-backend/internal/models"
)

// TripReaderInterface is the slice of the trips service needed to preload an
// edit session.
type TripReaderInterface interface {
	GetForMember(ctx context.Context, memberID string, tripID int) (*models.Trip, error)
}

// Session ties a controller to its id and the cancel func that tears down
// the surface-attach polling.
type Session struct {
	ID         string
	Controller *Controller
	cancel     context.CancelFunc
	ctx        context.Context
}

// Context returns the session-lifetime context used for surface attachment.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Manager owns all live planning sessions, one per active planner page.
// It also keeps the create-mode TripMeta snapshot under a fixed per-member
// key so a page reload mid-creation can pick the selection back up; the
// snapshot is cleared on edit-mode entry and on explicit reset, never kept
// for edits.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	metaByID map[string]models.TripMeta // fixed key: member id, create mode only

	trips  TripWriterInterface
	reader TripReaderInterface
}

// NewManager wires the session registry to the trips service.
func NewManager(trips TripWriterInterface, reader TripReaderInterface) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		metaByID: make(map[string]models.TripMeta),
		trips:    trips,
		reader:   reader,
	}
}

// StartCreate opens a create-mode session. A meta snapshot left over from an
// interrupted creation is restored into the new controller.
func (m *Manager) StartCreate(auth models.AuthSnapshot) *Session {
	ctrl := NewController(auth, m.trips)

	m.mu.Lock()
	if meta, ok := m.metaByID[auth.MemberID]; ok {
		ctrl.SetMeta(meta)
	}
	s := m.register(ctrl)
	m.mu.Unlock()
	return s
}

// StartEdit opens an edit-mode session preloaded with the member's trip. Any
// create-mode meta snapshot is cleared on entry.
func (m *Manager) StartEdit(ctx context.Context, auth models.AuthSnapshot, tripID int) (*Session, error) {
	trip, err := m.reader.GetForMember(ctx, auth.MemberID, tripID)
	if err != nil {
		return nil, err
	}
	ctrl := NewEditController(auth, m.trips, trip)

	m.mu.Lock()
	delete(m.metaByID, auth.MemberID)
	s := m.register(ctrl)
	m.mu.Unlock()
	return s, nil
}

// register assumes m.mu is held.
func (m *Manager) register(ctrl *Controller) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:         uuid.New().String(),
		Controller: ctrl,
		cancel:     cancel,
		ctx:        ctx,
	}
	m.sessions[s.ID] = s
	return s
}

// Get resolves a live session.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return s, nil
}

// SaveMeta stores the create-mode meta snapshot for reload resilience.
// Edit-mode sessions never snapshot.
func (m *Manager) SaveMeta(s *Session, meta models.TripMeta) {
	s.Controller.SetMeta(meta)
	if s.Controller.Mode() != ModeCreate {
		return
	}
	m.mu.Lock()
	m.metaByID[s.Controller.auth.MemberID] = meta
	m.mu.Unlock()
}

// ClearMeta resets the session's selection and drops the reload snapshot.
// Both must go together: clearing only the snapshot would leave the live
// controller submitting tag ids the member just reset.
func (m *Manager) ClearMeta(s *Session) {
	s.Controller.ClearMeta()
	m.mu.Lock()
	delete(m.metaByID, s.Controller.auth.MemberID)
	m.mu.Unlock()
}

// Close tears a session down: navigation away or successful submission. The
// in-memory stores are discarded with it.
func (m *Manager) Close(sessionID string) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()
	if ok {
		s.cancel()
		s.Controller.DetachSurface()
	}
}
