package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/giorgimart/cityvibe/internal/service"
)

// RecommendationHandler returns the personalized event feed.
type RecommendationHandler struct {
	Scorer *service.RecommendationScorer
}

func NewRecommendationHandler(scorer *service.RecommendationScorer) *RecommendationHandler {
	if scorer == nil {
		panic("nil scorer passed to NewRecommendationHandler")
	}
	return &RecommendationHandler{Scorer: scorer}
}

// Recommend handles POST /v1/recommendations. The whole upcoming catalog
// comes back in personalized order; the client paginates locally.
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	scored, err := h.Scorer.Recommend(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to build recommendations"})
	}

	events := make([]echo.Map, 0, len(scored))
	for _, s := range scored {
		m := eventJSON(&s.Event)
		m["score"] = s.Score
		events = append(events, m)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}
