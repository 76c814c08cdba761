package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/giorgimart/cityvibe/internal/ai"
	"github.com/giorgimart/cityvibe/internal/service"
)

// MoodHandler exposes the conversational mood-to-events endpoint.
type MoodHandler struct {
	Svc *service.MoodService
}

func NewMoodHandler(svc *service.MoodService) *MoodHandler {
	if svc == nil {
		panic("nil service passed to NewMoodHandler")
	}
	return &MoodHandler{Svc: svc}
}

type moodReq struct {
	Mood string `json:"mood"`
}

// Suggest handles POST /v1/mood-suggestions. Upstream gateway pressure
// is surfaced to the client with the matching status so it can back off.
func (h *MoodHandler) Suggest(c echo.Context) error {
	var req moodReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	res, err := h.Svc.Suggest(c.Request().Context(), req.Mood)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMood):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Mood is required"})
		case errors.Is(err, ai.ErrRateLimited):
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "Rate limits exceeded, please try again later."})
		case errors.Is(err, ai.ErrQuotaExceeded):
			return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "Payment required, please add funds to your workspace."})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to get suggestions"})
		}
	}
	return c.JSON(http.StatusOK, res)
}
