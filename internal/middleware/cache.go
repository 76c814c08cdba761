package middleware

// cache.go fronts the public event-catalog endpoints with a Redis
// response cache. Entries store status, headers and body together so a
// cache hit is byte-for-byte what the handler produced. The catalog
// changes whenever an event is created or a check-in bumps an attendee
// counter; those write paths call the invalidator returned by
// NewCatalogInvalidator, so the TTL only has to cover Redis-less
// deployments and scan races.

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/giorgimart/cityvibe/internal/config"
)

// recordingWriter tees the handler's output: bytes go to the client
// unchanged while a bounded copy is kept for the cache entry. When the
// body exceeds limit the copy is abandoned (oversized marks it) so a
// truncated catalog is never served from cache.
type recordingWriter struct {
	http.ResponseWriter
	status    int
	buf       bytes.Buffer
	limit     int64
	written   int64
	oversized bool
}

func (w *recordingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.written += int64(len(b))
	if w.limit > 0 && w.written > w.limit {
		w.oversized = true
	} else {
		w.buf.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// catalogCacheKey derives the Redis key for a request. The route and,
// depending on the strategy, method and query string feed a SHA-1 so
// search queries with long filter strings still produce fixed-size keys
// under the configured prefix.
func catalogCacheKey(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	var tail string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		tail = c.Path()
	case "method_route":
		tail = r.Method + ":" + c.Path()
	case "method_route_query":
		tail = r.Method + ":" + c.Path() + "?" + r.URL.RawQuery
	default: // "route_query"
		tail = c.Path() + "?" + r.URL.RawQuery
	}
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// packEntry lays an entry out as [status uint32][headerLen uint32]
// [header JSON][body].
func packEntry(status int, header http.Header, body []byte) ([]byte, error) {
	hdr, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8, 8+len(hdr)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdr)))
	out = append(out, hdr...)
	out = append(out, body...)
	return out, nil
}

func unpackEntry(raw []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(raw) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(raw[0:4]))
	hlen := int(binary.BigEndian.Uint32(raw[4:8]))
	if hlen < 0 || 8+hlen > len(raw) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(raw[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, raw[8+hlen:], true
}

// NewRedisCache returns the response-cache middleware for the event
// browse routes. Only configured methods (GET by default) and 200
// responses are cached; everything else passes straight through. A
// Redis outage degrades to uncached serving, it never fails a request.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}

			ctx := c.Request().Context()
			key := catalogCacheKey(cfg, c)

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := unpackEntry(raw); ok {
					for k, vals := range hdr {
						// Echo recomputes Content-Length itself
						if strings.EqualFold(k, "Content-Length") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, _ = c.Response().Write(body)
					return nil
				}
			}

			rec := &recordingWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if rec.status == http.StatusOK && !rec.oversized {
				hdr := make(http.Header, len(c.Response().Header()))
				for k, vals := range c.Response().Header() {
					hdr[k] = append([]string(nil), vals...)
				}
				if entry, err := packEntry(rec.status, hdr, rec.buf.Bytes()); err == nil {
					// request context may already be done; the write
					// should still land
					_ = rdb.SetEx(context.Background(), key, entry, ttl).Err()
				}
			}
			return nil
		}
	}
}

// NewCatalogInvalidator returns a function that drops every cached
// catalog response under the configured prefix. The check-in and event
// creation paths call it after their writes commit so browsers see
// fresh attendee counts and new events without waiting out the TTL.
// Returns nil when caching is disabled; callers treat nil as "nothing
// to invalidate".
func NewCatalogInvalidator(cfg config.CacheConfig, rdb *redis.Client) func(context.Context) {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	pattern := cfg.Prefix + ":*"
	return func(ctx context.Context) {
		iter := rdb.Scan(ctx, 0, pattern, 100).Iterator()
		keys := make([]string, 0, 8)
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			log.Printf("cache: catalog invalidation scan failed: %v", err)
			return
		}
		if len(keys) == 0 {
			return
		}
		if err := rdb.Del(ctx, keys...).Err(); err != nil {
			log.Printf("cache: catalog invalidation delete failed: %v", err)
		}
	}
}
