package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/config"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/middleware"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/service"
)

const (
	// LoginPath is where the profile page sends visitors without a session.
	LoginPath = "/auth/line/login"

	redirectCookieName = "line_login_redirect"
	flowCookieLifetime = 10 * time.Minute
)

// OAuthHandler handles the LINE Login authorization code flow
type OAuthHandler struct {
	LoginProvider  service.LoginProvider
	SessionService service.SessionManager
	Config         *config.Config
}

// NewOAuthHandler creates a new instance of OAuthHandler
func NewOAuthHandler(loginProvider service.LoginProvider, sessionService service.SessionManager, cfg *config.Config) *OAuthHandler {
	return &OAuthHandler{
		LoginProvider:  loginProvider,
		SessionService: sessionService,
		Config:         cfg,
	}
}

// Login starts the flow by redirecting the user to LINE
func (h *OAuthHandler) Login(c echo.Context) error {
	state := uuid.NewString()
	nonce := uuid.NewString()
	expires := time.Now().Add(flowCookieLifetime)

	setCookie(c, h.Config.App.StateCookieName, state, expires)
	setCookie(c, h.Config.App.NonceCookieName, nonce, expires)
	setCookie(c, redirectCookieName, safeRedirectPath(c.QueryParam("redirect")), expires)

	authURL := h.LoginProvider.GetAuthCodeURL(state, nonce)
	log.Debug().Str("url", authURL).Msg("Redirecting user to LINE")

	return c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// Callback handles the redirect back from LINE after the user authorizes the channel
func (h *OAuthHandler) Callback(c echo.Context) error {
	ctx := c.Request().Context()

	queryState := c.QueryParam("state")
	cookieState := cookieValue(c, h.Config.App.StateCookieName)
	nonce := cookieValue(c, h.Config.App.NonceCookieName)
	redirectTo := safeRedirectPath(cookieValue(c, redirectCookieName))

	// Single use, whatever the outcome
	clearCookie(c, h.Config.App.StateCookieName)
	clearCookie(c, h.Config.App.NonceCookieName)
	clearCookie(c, redirectCookieName)

	if queryState == "" {
		log.Warn().Msg("Callback error: state parameter missing in callback URL")
		return echo.NewHTTPError(http.StatusBadRequest, "State parameter missing")
	}
	if cookieState == "" {
		log.Warn().Msg("Callback error: state cookie missing")
		return echo.NewHTTPError(http.StatusBadRequest, "State cookie missing or expired")
	}
	if queryState != cookieState {
		log.Warn().Str("query_state", queryState).Msg("Callback error: state mismatch")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid state parameter")
	}

	code := c.QueryParam("code")
	if code == "" {
		log.Warn().
			Str("error", c.QueryParam("error")).
			Str("error_description", c.QueryParam("error_description")).
			Msg("Callback error: authorization code missing")
		return echo.NewHTTPError(http.StatusBadRequest, "Authorization code missing or login was cancelled")
	}

	token, err := h.LoginProvider.ExchangeCode(ctx, code)
	if err != nil {
		log.Error().Err(err).Msg("Error exchanging code in callback")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to exchange authorization code for token")
	}

	claims, err := h.LoginProvider.VerifyIDToken(ctx, token, nonce)
	if err != nil {
		log.Warn().Err(err).Msg("Error verifying ID token in callback")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid ID token")
	}

	session, signed, err := h.SessionService.CreateSession(ctx, claims, token)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.Subject).Msg("Failed to create session")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}
	setCookie(c, h.Config.App.SessionCookieName, signed, session.Expiry)

	log.Info().Str("user_id", session.UserID).Str("session_id", session.SessionID).Msg("User logged in with LINE")
	return c.Redirect(http.StatusFound, redirectTo)
}

// Logout deletes the current session and clears its cookie
func (h *OAuthHandler) Logout(c echo.Context) error {
	if claims, ok := middleware.SessionClaims(c); ok {
		if err := h.SessionService.SignOut(c.Request().Context(), claims.SessionID); err != nil {
			log.Error().Err(err).Str("session_id", claims.SessionID).Msg("Failed to sign out")
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to sign out")
		}
	}
	clearCookie(c, h.Config.App.SessionCookieName)
	return c.Redirect(http.StatusFound, "/")
}
