package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/giorgimart/cityvibe/internal/handler"    // handlers that implement the endpoint logic
	"github.com/giorgimart/cityvibe/internal/middleware" // JWT auth, rate limiting and response caching
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler. This
	// endpoint can be used by load balancers or monitoring systems to
	// verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes. Unauthenticated
// operations live under /v1/auth, while /v1/auth/me requires a valid
// access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token: the presented token is revoked
	// and a new pair is issued.
	g.POST("/refresh", a.Refresh)
	// Logout does not require JWT authentication. The handler accepts a
	// JSON body containing a `refresh_token` and invalidates that token.
	g.POST("/logout", a.Logout)
	// Logout-all revokes every session the caller owns, so it needs the
	// access token to know who the caller is.
	g.POST("/logout-all", a.LogoutAll, middleware.JWTAuth(jwtSecret))
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the unauthenticated event browse endpoints.
// The list endpoint sits behind the Redis response cache: the upcoming
// catalog is read far more often than it changes. These routes apply no
// JWT middleware and are intended for guest browsing.
func RegisterPublic(e *echo.Echo, ev *handler.EventHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/events", ev.List, cache)
	e.GET("/v1/events/:id", ev.Get)
	e.GET("/v1/search/events", ev.Search)
}

// RegisterCore registers the product endpoints: check-in,
// recommendations, mood suggestions, event creation and the caller's own
// profile. Check-in, recommendations, creation and profile routes run
// the JWTAuth middleware. The mood endpoint is open to anonymous
// visitors, same as the rest of the conversational funnel; it runs the
// token-bucket rate limiter instead because every call fans out to the
// paid AI gateway (the limiter keys unauthenticated callers as "anon").
func RegisterCore(
	e *echo.Echo,
	jwtSecret string,
	checkin *handler.CheckInHandler,
	rec *handler.RecommendationHandler,
	mood *handler.MoodHandler,
	ev *handler.EventHandler,
	prof *handler.ProfileHandler,
	rateLimit echo.MiddlewareFunc,
) {
	e.POST("/v1/mood-suggestions", mood.Suggest, rateLimit)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	auth.POST("/check-in", checkin.CheckIn)
	auth.POST("/recommendations", rec.Recommend)

	auth.POST("/events", ev.Create)

	auth.GET("/me/profile", prof.Get)
	auth.PUT("/me/profile", prof.Update)
	auth.GET("/me/attendance", prof.AttendanceHistory)
}
