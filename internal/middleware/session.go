package middleware

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/service"
)

// SessionContextKey is where the validated *service.SessionClaims are stored on the echo context.
const SessionContextKey = "session"

// Session reads the session cookie and, when it carries a valid signed token, stores its
// claims under SessionContextKey. Requests without a usable cookie continue unauthenticated.
func Session(cookieName string, tokens service.SessionTokenGenerator) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + cookieName,
		ContextKey:  SessionContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return tokens.ValidateToken(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if _, cookieErr := c.Cookie(cookieName); cookieErr == nil {
				log.Debug().Err(err).Msg("Ignoring invalid session cookie")
			}
			return nil
		},
		ContinueOnIgnoredError: true,
	})
}

// SessionClaims returns the claims stored by Session, if any.
func SessionClaims(c echo.Context) (*service.SessionClaims, bool) {
	claims, ok := c.Get(SessionContextKey).(*service.SessionClaims)
	return claims, ok && claims != nil
}
