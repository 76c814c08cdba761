package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"})
}

func TestClientComplete(t *testing.T) {
	t.Run("returns reply content", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v1/chat/completions", r.URL.Path)
			require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "test-model", req["model"])

			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": "hello there"}},
				},
			})
		})

		out, err := c.Complete(context.Background(), "system prompt", "user turn")
		require.NoError(t, err)
		assert.Equal(t, "hello there", out)
	})

	t.Run("maps 429 to ErrRateLimited", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		_, err := c.Complete(context.Background(), "s", "u")
		assert.ErrorIs(t, err, ErrRateLimited)
	})

	t.Run("maps 402 to ErrQuotaExceeded", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
		})
		_, err := c.Complete(context.Background(), "s", "u")
		assert.ErrorIs(t, err, ErrQuotaExceeded)
	})

	t.Run("other statuses are generic upstream errors", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := c.Complete(context.Background(), "s", "u")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrRateLimited)
		assert.NotErrorIs(t, err, ErrQuotaExceeded)
	})

	t.Run("empty choices is an error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})
		_, err := c.Complete(context.Background(), "s", "u")
		assert.Error(t, err)
	})

	t.Run("context cancellation aborts the call", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		})
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err := c.Complete(ctx, "s", "u")
		assert.Error(t, err)
	})
}
