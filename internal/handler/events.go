package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/giorgimart/cityvibe/internal/model"
	"github.com/giorgimart/cityvibe/internal/repository"
)

// EventHandler serves the public event catalog plus authenticated event
// creation.
type EventHandler struct {
	Events *repository.EventRepo
	// InvalidateCatalog drops the cached browse responses after a new
	// event is created. Nil when caching is disabled.
	InvalidateCatalog func(context.Context)
}

func NewEventHandler(events *repository.EventRepo, invalidate func(context.Context)) *EventHandler {
	if events == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{Events: events, InvalidateCatalog: invalidate}
}

// eventJSON renders an event in the wire shape shared by the browse,
// search and recommendation endpoints.
func eventJSON(e *model.Event) echo.Map {
	return echo.Map{
		"id":              e.ID,
		"title":           e.Title,
		"category":        e.Category,
		"description":     e.Description,
		"time":            e.Time.UTC().Format(time.RFC3339),
		"latitude":        e.Latitude,
		"longitude":       e.Longitude,
		"location_name":   e.LocationName,
		"price":           e.Price,
		"attendees_count": e.AttendeesCount,
	}
}

// List handles GET /v1/events and returns upcoming events in start-time
// order. Sits behind the response cache.
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.Events.ListUpcoming(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list events"})
	}
	out := make([]echo.Map, 0, len(events))
	for i := range events {
		out = append(out, eventJSON(&events[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"events": out})
}

// Get handles GET /v1/events/:id.
func (h *EventHandler) Get(c echo.Context) error {
	event, err := h.Events.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load event"})
	}
	return c.JSON(http.StatusOK, eventJSON(event))
}

// Search handles GET /v1/search/events with optional title, category and
// location filters plus page/page_size pagination.
func (h *EventHandler) Search(c echo.Context) error {
	q := repository.EventSearchQuery{
		Title:      strings.TrimSpace(c.QueryParam("title")),
		Category:   strings.TrimSpace(c.QueryParam("category")),
		Location:   strings.TrimSpace(c.QueryParam("location")),
		TimeFilter: strings.TrimSpace(c.QueryParam("time")),
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	events, total, err := h.Events.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	out := make([]echo.Map, 0, len(events))
	for i := range events {
		out = append(out, eventJSON(&events[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"events": out, "total": total})
}

type createEventReq struct {
	Title        string  `json:"title"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Time         string  `json:"time"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	LocationName string  `json:"location_name"`
	Price        uint32  `json:"price"`
}

// Create handles POST /v1/events. Any authenticated user may publish an
// event; the creator is taken from the token, never from the body.
func (h *EventHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)
	if req.Title == "" || req.Category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and category are required"})
	}
	start, err := time.Parse(time.RFC3339, req.Time)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "time must be RFC3339"})
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coordinates"})
	}

	event := &model.Event{
		Title:        req.Title,
		Category:     req.Category,
		Description:  req.Description,
		Time:         start.UTC(),
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		LocationName: strings.TrimSpace(req.LocationName),
		Price:        req.Price,
		CreatedBy:    userID,
	}
	if err := h.Events.Create(c.Request().Context(), event); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create event"})
	}
	if h.InvalidateCatalog != nil {
		h.InvalidateCatalog(c.Request().Context())
	}
	return c.JSON(http.StatusCreated, eventJSON(event))
}
