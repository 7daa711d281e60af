package mocks

import (
	"context"
	"time"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/models"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/service"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
)

// MockLoginProvider is a mock implementation of the service.LoginProvider interface.
// Use this for testing handlers that drive the LINE login flow.
type MockLoginProvider struct {
	mock.Mock
}

func (m *MockLoginProvider) GetAuthCodeURL(state, nonce string) string {
	args := m.Called(state, nonce)
	return args.String(0)
}

func (m *MockLoginProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	token, _ := args.Get(0).(*oauth2.Token)
	return token, args.Error(1)
}

func (m *MockLoginProvider) VerifyIDToken(ctx context.Context, token *oauth2.Token, nonce string) (*service.IDTokenClaims, error) {
	args := m.Called(ctx, token, nonce)
	claims, _ := args.Get(0).(*service.IDTokenClaims)
	return claims, args.Error(1)
}

// MockSessionTokenGenerator is a mock implementation of the service.SessionTokenGenerator interface.
type MockSessionTokenGenerator struct {
	mock.Mock
}

func (m *MockSessionTokenGenerator) GenerateToken(sessionID string, expiry time.Time) (string, error) {
	args := m.Called(sessionID, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockSessionTokenGenerator) ValidateToken(tokenString string) (*service.SessionClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.SessionClaims)
	return claims, args.Error(1)
}

// MockSessionManager is a mock implementation of the service.SessionManager interface.
type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) CreateSession(ctx context.Context, claims *service.IDTokenClaims, token *oauth2.Token) (*models.Session, string, error) {
	args := m.Called(ctx, claims, token)
	session, _ := args.Get(0).(*models.Session)
	return session, args.String(1), args.Error(2)
}

func (m *MockSessionManager) ResolveSession(ctx context.Context, sessionID string) (*models.Session, error) {
	args := m.Called(ctx, sessionID)
	session, _ := args.Get(0).(*models.Session)
	return session, args.Error(1)
}

func (m *MockSessionManager) SignOut(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
