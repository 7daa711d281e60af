package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/config"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/i18n"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/middleware"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/models"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/repository"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/sdk"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/service"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/view"
)

// SDKFactory builds the SDK for one page request.
type SDKFactory func(session *models.Session, navigator sdk.Navigator, loginURL string) sdk.SDK

// ProfileHandler serves the profile page. Every request is one mount of a ProfileView.
type ProfileHandler struct {
	SessionService service.SessionManager
	NewSDK         SDKFactory
	Config         *config.Config
	loginPath      string
	defaultLang    language.Tag
}

// NewProfileHandler creates a new instance of ProfileHandler
func NewProfileHandler(sessionService service.SessionManager, newSDK SDKFactory, cfg *config.Config) *ProfileHandler {
	defaultLang, ok := i18n.ParseTag(cfg.App.DefaultLang)
	if !ok {
		defaultLang = language.Japanese
	}
	return &ProfileHandler{
		SessionService: sessionService,
		NewSDK:         newSDK,
		Config:         cfg,
		loginPath:      LoginPath,
		defaultLang:    defaultLang,
	}
}

// Show mounts the profile view, waits for it to settle and renders the outcome.
func (h *ProfileHandler) Show(c echo.Context) error {
	req := c.Request()
	ctx := req.Context()

	tag := i18n.ResolveTag(req, h.defaultLang)
	if raw := req.URL.Query().Get(i18n.LangParam); raw != "" {
		if _, ok := i18n.ParseTag(raw); ok {
			c.SetCookie(&http.Cookie{
				Name:     i18n.LangCookieName,
				Value:    tag.String(),
				Path:     "/",
				MaxAge:   int((365 * 24 * time.Hour).Seconds()),
				SameSite: http.SameSiteLaxMode,
			})
		}
	}

	navigator := &sdk.RedirectRecorder{}
	loginURL := h.loginPath + "?redirect=" + url.QueryEscape(safeRedirectPath(req.URL.RequestURI()))
	v := view.NewProfileView(
		h.NewSDK(h.currentSession(c), navigator, loginURL),
		sdk.Config{AppID: h.Config.LINE.LIFFID},
		view.Options{Lang: tag, SDKTimeout: h.Config.LINE.SDKTimeout},
	)
	done := v.Mount(ctx)
	defer v.Unmount()

	var deadline <-chan time.Time
	if h.Config.App.RenderTimeout > 0 {
		timer := time.NewTimer(h.Config.App.RenderTimeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case <-done:
	case <-deadline:
		log.Warn().Str("phase", v.Phase().String()).Msg("Profile sequence did not settle before render deadline, rendering loading view")
	case <-ctx.Done():
		log.Debug().Err(ctx.Err()).Msg("Client went away before the profile sequence settled")
		return nil
	}

	phase := v.Phase()
	if phase == view.PhaseRedirecting {
		location, ok := navigator.Location()
		if !ok {
			location = loginURL
		}
		return c.Redirect(http.StatusFound, location)
	}

	var buf bytes.Buffer
	if err := v.Render(&buf); err != nil {
		log.Error().Err(err).Msg("Failed to render profile page")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to render page")
	}

	status := http.StatusOK
	if phase == view.PhaseError {
		status = http.StatusBadGateway
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.HTMLBlob(status, buf.Bytes())
}

func (h *ProfileHandler) currentSession(c echo.Context) *models.Session {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		return nil
	}
	session, err := h.SessionService.ResolveSession(c.Request().Context(), claims.SessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrSessionNotFound) {
			log.Warn().Err(err).Msg("Failed to resolve session, treating request as logged out")
		}
		return nil
	}
	return session
}
