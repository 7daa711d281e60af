package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/middleware"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/service"
)

const cookieName = "line_session"

func setupSessionTestApp(tokens *service.TokenService) *echo.Echo {
	e := echo.New()
	e.Use(middleware.Session(cookieName, tokens))
	e.GET("/", func(c echo.Context) error {
		claims, ok := middleware.SessionClaims(c)
		if !ok {
			return c.String(http.StatusOK, "anonymous")
		}
		return c.String(http.StatusOK, claims.SessionID)
	})
	return e
}

func TestSessionMiddleware(t *testing.T) {
	tokens := service.NewTokenService("test-session-secret")
	app := setupSessionTestApp(tokens)

	t.Run("NoCookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "anonymous", rec.Body.String())
	})

	t.Run("ValidCookie", func(t *testing.T) {
		value, err := tokens.GenerateToken("sess-123", time.Now().Add(time.Hour))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: cookieName, Value: value})
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "sess-123", rec.Body.String())
	})

	t.Run("TamperedCookie", func(t *testing.T) {
		value, err := service.NewTokenService("someone-else").GenerateToken("sess-123", time.Now().Add(time.Hour))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: cookieName, Value: value})
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "anonymous", rec.Body.String())
	})

	t.Run("ExpiredCookie", func(t *testing.T) {
		value, err := tokens.GenerateToken("sess-123", time.Now().Add(-time.Minute))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: cookieName, Value: value})
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)

		assert.Equal(t, "anonymous", rec.Body.String())
	})
}
