package handler

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated user's UUID stored in context by
// the JWT middleware. Handlers treat a missing or malformed value as an
// unauthenticated request.
func getUserID(c echo.Context) (string, error) {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v, nil
	}
	return "", errors.New("invalid user_id in context")
}
