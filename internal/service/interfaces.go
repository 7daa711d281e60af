package service

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/models"
)

// LoginProvider drives the LINE authorization code flow.
type LoginProvider interface {
	GetAuthCodeURL(state, nonce string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	VerifyIDToken(ctx context.Context, token *oauth2.Token, nonce string) (*IDTokenClaims, error)
}

// SessionTokenGenerator signs and checks the session cookie.
type SessionTokenGenerator interface {
	GenerateToken(sessionID string, expiry time.Time) (string, error)
	ValidateToken(tokenString string) (*SessionClaims, error)
}

// SessionManager opens, looks up and closes LINE login sessions.
type SessionManager interface {
	// CreateSession stores a session for a verified login and returns it with its signed cookie value.
	CreateSession(ctx context.Context, claims *IDTokenClaims, token *oauth2.Token) (*models.Session, string, error)
	// ResolveSession returns the live session for an ID, or repository.ErrSessionNotFound.
	ResolveSession(ctx context.Context, sessionID string) (*models.Session, error)
	// SignOut deletes a session. Missing sessions are not an error.
	SignOut(ctx context.Context, sessionID string) error
}

var (
	_ LoginProvider         = (*LineAuth)(nil)
	_ SessionTokenGenerator = (*TokenService)(nil)
	_ SessionManager        = (*SessionService)(nil)
)
