package mocks

import (
	"context"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockSessionRepository is a mock implementation of the SessionRepository interface.
type MockSessionRepository struct {
	mock.Mock
}

// StoreSession provides a mock function for storing a session.
func (m *MockSessionRepository) StoreSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// GetSession provides a mock function for retrieving a session.
func (m *MockSessionRepository) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	args := m.Called(ctx, sessionID)
	session, _ := args.Get(0).(*models.Session) // Handle nil case if Get(0) is not *models.Session
	return session, args.Error(1)
}

// DeleteSession provides a mock function for deleting a session.
func (m *MockSessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
