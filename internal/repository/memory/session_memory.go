package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/models"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/repository"
)

// MemorySessionRepository implements SessionRepository in memory. Sessions do not survive a
// restart and are not shared between instances.
type MemorySessionRepository struct {
	sessions      map[string]models.Session
	mutex         sync.RWMutex
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
}

// NewMemorySessionRepository creates a new in-memory session repository.
// cleanupInterval defines how often expired sessions are automatically removed.
func NewMemorySessionRepository(cleanupInterval time.Duration) *MemorySessionRepository {
	r := &MemorySessionRepository{
		sessions:      make(map[string]models.Session),
		cleanupTicker: time.NewTicker(cleanupInterval),
		stopCleanup:   make(chan struct{}),
	}
	go r.startCleanup()
	return r
}

var _ repository.SessionRepository = (*MemorySessionRepository)(nil)

func (r *MemorySessionRepository) startCleanup() {
	for {
		select {
		case <-r.cleanupTicker.C:
			r.cleanupExpiredSessions()
		case <-r.stopCleanup:
			r.cleanupTicker.Stop()
			return
		}
	}
}

func (r *MemorySessionRepository) cleanupExpiredSessions() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now()
	for sessionID, session := range r.sessions {
		if now.After(session.Expiry) {
			delete(r.sessions, sessionID)
		}
	}
}

// StopCleanup stops the background cleanup task.
func (r *MemorySessionRepository) StopCleanup() {
	r.stopOnce.Do(func() { close(r.stopCleanup) })
}

func (r *MemorySessionRepository) StoreSession(ctx context.Context, session *models.Session) error {
	if session == nil || session.SessionID == "" || session.UserID == "" {
		return errors.New("invalid session data: SessionID and UserID must be set")
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.sessions[session.SessionID] = *session
	return nil
}

func (r *MemorySessionRepository) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	r.mutex.RLock()
	session, exists := r.sessions[sessionID]
	r.mutex.RUnlock()

	if !exists {
		return nil, repository.ErrSessionNotFound
	}
	if session.IsExpired() {
		_ = r.DeleteSession(ctx, sessionID)
		return nil, repository.ErrSessionNotFound
	}
	return &session, nil
}

func (r *MemorySessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.sessions, sessionID)
	return nil
}
