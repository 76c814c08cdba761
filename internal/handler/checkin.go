package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/giorgimart/cityvibe/internal/geo"
	"github.com/giorgimart/cityvibe/internal/queue"
	"github.com/giorgimart/cityvibe/internal/repository"
	"github.com/giorgimart/cityvibe/internal/service"
)

// CheckInHandler exposes the proximity-gated check-in endpoint. The JWT
// middleware has already resolved the caller's identity; the handler
// passes it to the service explicitly.
type CheckInHandler struct {
	Svc *service.CheckInService
	// PublishEvents controls whether successful awards are announced on
	// the message broker. Disabled in tests.
	PublishEvents bool
	// InvalidateCatalog drops the cached event catalog after an award
	// bumps an attendee counter. Nil when caching is disabled.
	InvalidateCatalog func(context.Context)
}

func NewCheckInHandler(svc *service.CheckInService, publish bool, invalidate func(context.Context)) *CheckInHandler {
	if svc == nil {
		panic("nil service passed to NewCheckInHandler")
	}
	return &CheckInHandler{Svc: svc, PublishEvents: publish, InvalidateCatalog: invalidate}
}

type checkInReq struct {
	EventID string   `json:"eventId"`
	UserLat *float64 `json:"userLat"`
	UserLng *float64 `json:"userLng"`
}

// CheckIn handles POST /v1/check-in. The body carries the event id and,
// optionally, the caller's reported position; when both coordinates are
// present the service re-runs the client's distance check. A duplicate
// check-in is an expected idempotent outcome and returns 200 with a
// flag, not an error.
func (h *CheckInHandler) CheckIn(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req checkInReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.EventID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Event ID is required"})
	}

	var reported *geo.Point
	if req.UserLat != nil && req.UserLng != nil {
		reported = &geo.Point{Lat: *req.UserLat, Lng: *req.UserLng}
	}

	res, err := h.Svc.CheckIn(c.Request().Context(), userID, req.EventID, reported)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Event not found"})
		case errors.Is(err, service.ErrTooFarAway):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "You are too far from the event location"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check in"})
		}
	}

	if res.AlreadyAttended {
		return c.JSON(http.StatusOK, echo.Map{"alreadyAttended": true})
	}

	// the award bumped attendees_count, cached catalog pages are stale
	if h.InvalidateCatalog != nil {
		h.InvalidateCatalog(c.Request().Context())
	}

	if h.PublishEvents {
		ev := queue.CheckinRecordedEvent{
			UserID:          userID,
			EventID:         res.Event.ID,
			EventTitle:      res.Event.Title,
			Category:        res.Event.Category,
			LocationName:    res.Event.LocationName,
			EarnedCredits:   res.EarnedCredits,
			NewTotalCredits: res.NewTotalCredits,
			CheckedInAt:     time.Now().UTC().Format(time.RFC3339),
		}
		// best-effort: the award already committed, a broker outage must
		// not fail the request
		if err := queue.PublishCheckinRecorded(c.Request().Context(), ev); err != nil {
			log.Printf("check-in: publish failed: %v", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":         true,
		"earnedCredits":   res.EarnedCredits,
		"newTotalCredits": res.NewTotalCredits,
	})
}
