package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/config"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/models"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/sdk"
)

// LineAuth handles interactions with the LINE Login platform. It is shared by all requests.
type LineAuth struct {
	oAuthConfig      *oauth2.Config
	channelID        string
	issuer           string
	profileAPI       string
	discoveryTimeout time.Duration
	// keySet, when set, replaces the JWKS published by the discovered provider.
	keySet oidc.KeySet

	mu        sync.Mutex
	provider  *oidc.Provider
	discovery *discovery
}

// discovery is one in-flight fetch of the OpenID configuration. done is closed once
// provider or err is set.
type discovery struct {
	done     chan struct{}
	provider *oidc.Provider
	err      error
}

const defaultDiscoveryTimeout = 15 * time.Second

// IDTokenClaims are the LINE ID token claims used to open a session.
type IDTokenClaims struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Nonce   string `json:"nonce"`
}

// lineProfile is the LINE profile API payload. statusMessage is accepted and dropped.
type lineProfile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl"`
	StatusMessage string `json:"statusMessage"`
}

// NewLineAuth creates a LineAuth from the LINE section of the configuration.
func NewLineAuth(cfg *config.Config) *LineAuth {
	return &LineAuth{
		oAuthConfig: cfg.OAuth,
		channelID:   cfg.LINE.ChannelID,
		issuer:      cfg.LINE.Issuer,
		profileAPI:  cfg.LINE.ProfileAPI,

		discoveryTimeout: cfg.LINE.DiscoveryTimeout,
	}
}

// WithKeySet makes ID token verification use a fixed key set.
func (s *LineAuth) WithKeySet(keySet oidc.KeySet) *LineAuth {
	s.keySet = keySet
	return s
}

// ValidateAppID checks that a LIFF ID is present and was issued for the configured channel.
func (s *LineAuth) ValidateAppID(appID string) error {
	appID = strings.TrimSpace(appID)
	if appID == "" {
		return fmt.Errorf("%w: app id is empty", sdk.ErrInvalidAppID)
	}
	channel, _, found := strings.Cut(appID, "-")
	if !found || channel == "" {
		return fmt.Errorf("%w: %q is not in <channelID>-<suffix> form", sdk.ErrInvalidAppID, appID)
	}
	if s.channelID != "" && channel != s.channelID {
		return fmt.Errorf("%w: %q does not belong to channel %s", sdk.ErrInvalidAppID, appID, s.channelID)
	}
	return nil
}

// Discover returns the issuer's OpenID configuration, fetching it once and caching it.
// All callers share one fetch that outlives their contexts. Failures are not cached.
func (s *LineAuth) Discover(ctx context.Context) (*oidc.Provider, error) {
	s.mu.Lock()
	if s.provider != nil {
		provider := s.provider
		s.mu.Unlock()
		return provider, nil
	}
	d := s.discovery
	if d == nil {
		d = &discovery{done: make(chan struct{})}
		s.discovery = d
		go s.discover(context.WithoutCancel(ctx), d)
	}
	s.mu.Unlock()

	select {
	case <-d.done:
		return d.provider, d.err
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for OIDC discovery: %w", ctx.Err())
	}
}

func (s *LineAuth) discover(ctx context.Context, d *discovery) {
	timeout := s.discoveryTimeout
	if timeout <= 0 {
		timeout = defaultDiscoveryTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	provider, err := oidc.NewProvider(ctx, s.issuer)

	s.mu.Lock()
	if err != nil {
		log.Error().Err(err).Str("issuer", s.issuer).Msg("Failed to discover LINE OIDC provider")
		d.err = fmt.Errorf("failed to create OIDC provider: %w", err)
	} else {
		d.provider = provider
		s.provider = provider
	}
	s.discovery = nil
	s.mu.Unlock()
	close(d.done)
}

// GetAuthCodeURL generates the URL for the LINE login page
func (s *LineAuth) GetAuthCodeURL(state, nonce string) string {
	return s.oAuthConfig.AuthCodeURL(state, oidc.Nonce(nonce))
}

// ExchangeCode exchanges the authorization code for an OAuth2 token
func (s *LineAuth) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oAuthConfig.Exchange(ctx, code)
	if err != nil {
		log.Error().Err(err).Msg("Error exchanging OAuth code for token")
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	if !token.Valid() {
		log.Warn().Msg("Received invalid OAuth token after exchange")
		return nil, errors.New("received invalid token")
	}
	log.Info().Int("accessTokenLength", len(token.AccessToken)).Msg("OAuth token obtained successfully")
	return token, nil
}

// VerifyIDToken checks the id_token of an exchanged token and its nonce.
func (s *LineAuth) VerifyIDToken(ctx context.Context, token *oauth2.Token, nonce string) (*IDTokenClaims, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		log.Warn().Msg("ID token missing from OAuth token response")
		return nil, errors.New("id_token missing from response")
	}

	verifier, err := s.verifier(ctx)
	if err != nil {
		return nil, err
	}

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to verify ID token")
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims IDTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to decode ID token claims: %w", err)
	}
	if nonce == "" || claims.Nonce != nonce {
		log.Warn().Str("subject", idToken.Subject).Msg("ID token nonce mismatch")
		return nil, errors.New("id_token nonce mismatch")
	}
	log.Info().Str("issuer", idToken.Issuer).Str("subject", idToken.Subject).Msg("ID Token Verified Successfully")
	return &claims, nil
}

func (s *LineAuth) verifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	if s.keySet != nil {
		// LINE signs ID tokens with ES256.
		return oidc.NewVerifier(s.issuer, s.keySet, &oidc.Config{
			ClientID:             s.channelID,
			SupportedSigningAlgs: []string{oidc.ES256},
		}), nil
	}
	provider, err := s.Discover(ctx)
	if err != nil {
		return nil, err
	}
	// Algorithms come from the discovery document.
	return provider.Verifier(&oidc.Config{ClientID: s.channelID}), nil
}

// FetchProfile calls the LINE profile API with the user's access token.
func (s *LineAuth) FetchProfile(ctx context.Context, token *oauth2.Token) (*models.Profile, error) {
	client := s.oAuthConfig.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.profileAPI, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("api", s.profileAPI).Msg("Error fetching profile from LINE")
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Warn().Int("statusCode", resp.StatusCode).Str("body", string(bodyBytes)).Str("api", s.profileAPI).Msg("Error response from LINE profile API")
		return nil, fmt.Errorf("profile API request failed with status: %s", resp.Status)
	}

	var payload lineProfile
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Error().Err(err).Msg("Error decoding profile JSON from LINE")
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	profile := &models.Profile{
		DisplayName: payload.DisplayName,
		UserID:      payload.UserID,
		PictureURL:  payload.PictureURL,
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile payload: %w", err)
	}
	return profile, nil
}
