package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giorgimart/cityvibe/internal/ai"
	"github.com/giorgimart/cityvibe/internal/model"
	"github.com/giorgimart/cityvibe/internal/service"
)

type stubCatalog struct{ events []model.Event }

func (s *stubCatalog) ListAll(context.Context) ([]model.Event, error) { return s.events, nil }

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(context.Context, string, string) (string, error) {
	return s.reply, s.err
}

func newMoodContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/mood-suggestions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")
	return c, rec
}

func TestMoodHandler_Events(t *testing.T) {
	catalog := &stubCatalog{events: []model.Event{{ID: "ev-1", Title: "Sunset Yoga"}}}
	completer := &stubCompleter{reply: `{"type":"events","message":"try this","suggestions":[{"title":"sunset yoga","reason":"calming","wellness_benefit":"lowers stress"}]}`}
	h := NewMoodHandler(service.NewMoodService(catalog, completer))

	c, rec := newMoodContext(t, `{"mood":"stressed"}`)
	require.NoError(t, h.Suggest(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var res service.MoodResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "events", res.Type)
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, "ev-1", res.Suggestions[0].EventID)
	assert.Equal(t, "stressed", res.Mood)
}

func TestMoodHandler_UpstreamStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"rate limited", ai.ErrRateLimited, http.StatusTooManyRequests},
		{"quota exceeded", ai.ErrQuotaExceeded, http.StatusPaymentRequired},
		{"other failure", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewMoodHandler(service.NewMoodService(&stubCatalog{}, &stubCompleter{err: tc.err}))
			c, rec := newMoodContext(t, `{"mood":"bored"}`)
			require.NoError(t, h.Suggest(c))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestMoodHandler_EmptyMood(t *testing.T) {
	h := NewMoodHandler(service.NewMoodService(&stubCatalog{}, &stubCompleter{}))
	c, rec := newMoodContext(t, `{"mood":"   "}`)
	require.NoError(t, h.Suggest(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
