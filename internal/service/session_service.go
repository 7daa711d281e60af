package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/models"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/repository"
)

type SessionService struct {
	sessionRepo repository.SessionRepository
	tokenSvc    SessionTokenGenerator
	duration    time.Duration
}

// NewSessionService creates a SessionService. duration caps how long a session lives; the
// LINE access token expiry caps it further.
func NewSessionService(sessionRepo repository.SessionRepository, tokenSvc SessionTokenGenerator, duration time.Duration) *SessionService {
	return &SessionService{sessionRepo: sessionRepo, tokenSvc: tokenSvc, duration: duration}
}

func (s *SessionService) CreateSession(ctx context.Context, claims *IDTokenClaims, token *oauth2.Token) (*models.Session, string, error) {
	if claims == nil || claims.Subject == "" {
		return nil, "", errors.New("id token subject cannot be empty")
	}
	if token == nil || token.AccessToken == "" {
		return nil, "", errors.New("access token cannot be empty")
	}

	now := time.Now().UTC()
	expiry := now.Add(s.duration)
	if !token.Expiry.IsZero() && token.Expiry.Before(expiry) {
		expiry = token.Expiry.UTC()
	}

	session := &models.Session{
		SessionID:   uuid.NewString(),
		UserID:      claims.Subject,
		DisplayName: claims.Name,
		AccessToken: token.AccessToken,
		TokenType:   token.Type(),
		TokenExpiry: token.Expiry,
		CreatedAt:   now,
		Expiry:      expiry,
	}

	cookieValue, err := s.tokenSvc.GenerateToken(session.SessionID, session.Expiry)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}
	if err := s.sessionRepo.StoreSession(ctx, session); err != nil {
		log.Error().Err(err).Str("userId", session.UserID).Msg("Failed to store session")
		return nil, "", fmt.Errorf("failed to store session: %w", err)
	}

	log.Info().Str("userId", session.UserID).Time("expiry", session.Expiry).Msg("Session created")
	return session, cookieValue, nil
}

func (s *SessionService) ResolveSession(ctx context.Context, sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, repository.ErrSessionNotFound
	}
	session, err := s.sessionRepo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("session id cannot be empty")
	}
	if err := s.sessionRepo.DeleteSession(ctx, sessionID); err != nil {
		// It's okay to be already expired or not found
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil
		}
		log.Error().Err(err).Str("sessionId", sessionID).Msg("Failed to delete session")
		return fmt.Errorf("failed to sign out: %w", err)
	}
	log.Info().Str("sessionId", sessionID).Msg("Session signed out")
	return nil
}
