package middleware

// identity.go holds helpers shared across middleware files. The rate
// limiter keys buckets per caller, so it needs a best-effort user
// identifier even on routes where authentication is optional.

import "github.com/labstack/echo/v4"

// currentUserID returns the user id stored in context by JWTAuth, or
// "anon" when the request is unauthenticated.
func currentUserID(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anon"
}
