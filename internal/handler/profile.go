package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/giorgimart/cityvibe/internal/model"
	"github.com/giorgimart/cityvibe/internal/repository"
)

// ProfileHandler serves the caller's own profile and check-in history.
type ProfileHandler struct {
	Profiles   *repository.ProfileRepo
	Attendance *repository.AttendanceRepo
}

func NewProfileHandler(profiles *repository.ProfileRepo, attendance *repository.AttendanceRepo) *ProfileHandler {
	if profiles == nil || attendance == nil {
		panic("nil repository passed to NewProfileHandler")
	}
	return &ProfileHandler{Profiles: profiles, Attendance: attendance}
}

func profileJSON(p *model.Profile) echo.Map {
	hobbies := p.Hobbies
	if hobbies == nil {
		hobbies = []string{}
	}
	return echo.Map{
		"user_id":      p.UserID,
		"display_name": p.DisplayName,
		"credits":      p.Credits,
		"hobbies":      hobbies,
		"age":          p.Age,
		"gender":       p.Gender,
	}
}

// Get handles GET /v1/me/profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := h.Profiles.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load profile"})
	}
	return c.JSON(http.StatusOK, profileJSON(p))
}

type updateProfileReq struct {
	DisplayName string   `json:"display_name"`
	Hobbies     []string `json:"hobbies"`
	Age         *uint8   `json:"age"`
	Gender      *string  `json:"gender"`
}

// Update handles PUT /v1/me/profile. Credits are never accepted from the
// client; the check-in award path is the only writer of that balance.
func (h *ProfileHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "display_name is required"})
	}

	p := &model.Profile{
		UserID:      userID,
		DisplayName: req.DisplayName,
		Hobbies:     req.Hobbies,
		Age:         req.Age,
		Gender:      req.Gender,
	}
	if err := h.Profiles.Update(c.Request().Context(), p); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
	}

	updated, err := h.Profiles.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load profile"})
	}
	return c.JSON(http.StatusOK, profileJSON(updated))
}

// AttendanceHistory handles GET /v1/me/attendance and returns the caller's
// check-in history, most recent first.
func (h *ProfileHandler) AttendanceHistory(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	history, err := h.Attendance.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load attendance"})
	}
	return c.JSON(http.StatusOK, echo.Map{"attendance": history})
}
