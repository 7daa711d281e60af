package router

import (
	"github.com/labstack/echo/v4"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/handlers"
)

// SetupProfileRoutes mounts the profile page. session reads the session cookie, if any.
func SetupProfileRoutes(app *echo.Echo, profileHandler *handlers.ProfileHandler, session echo.MiddlewareFunc) {
	app.GET("/", profileHandler.Show, session)
}

func SetupAuthRoutes(app *echo.Echo, authHandler *handlers.OAuthHandler, session echo.MiddlewareFunc) {
	line := app.Group("/auth/line")

	line.GET("/login", authHandler.Login)
	line.GET("/callback", authHandler.Callback)
	line.GET("/logout", authHandler.Logout, session)
}
