package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giorgimart/cityvibe/internal/config"
)

func TestPackUnpackEntry(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`{"events":[]}`)

	raw, err := packEntry(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := unpackEntry(raw)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestUnpackEntryRejectsGarbage(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte("short"), []byte("\x00\x00\x00\xc8\xff\xff\xff\xff")} {
		_, _, _, ok := unpackEntry(raw)
		assert.False(t, ok)
	}
}

func TestCatalogCacheKey(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cityvibe:cache", KeyStrategy: "route_query"}

	keyFor := func(path, query string) string {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, path+"?"+query, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath(path)
		return catalogCacheKey(cfg, c)
	}

	base := keyFor("/v1/events", "")
	assert.Contains(t, base, "cityvibe:cache:")
	// different search filters must not collide
	assert.NotEqual(t, keyFor("/v1/search/events", "title=jazz"), keyFor("/v1/search/events", "title=yoga"))
	// same request is stable
	assert.Equal(t, base, keyFor("/v1/events", ""))
}

func TestRecordingWriterDropsOversizedBodies(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &recordingWriter{ResponseWriter: rec, status: http.StatusOK, limit: 8}

	_, err := w.Write([]byte("0123456789"))
	require.NoError(t, err)

	// the client still received everything, only the cache copy is dropped
	assert.Equal(t, "0123456789", rec.Body.String())
	assert.True(t, w.oversized)
}
