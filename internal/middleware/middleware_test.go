package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/config"
)

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"subject": Subject(c)})
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	const secret = "s3cret"
	admin, err := auth.NewAccessToken(secret, "ops", auth.RoleAdmin, time.Hour)
	require.NoError(t, err)
	viewer, err := auth.NewAccessToken(secret, "guest", "VIEWER", time.Hour)
	require.NoError(t, err)

	e := echo.New()
	e.POST("/peliculas", okHandler, JWTAuth(secret, auth.RoleAdmin))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", "Bearer " + viewer.Token, http.StatusForbidden},
		{"admin", "Bearer " + admin.Token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/peliculas", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := serve(e, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"subject":"ops"}`, rec.Body.String())
			}
		})
	}
}

func TestJWTAuth_EmptySecretDisablesCheck(t *testing.T) {
	e := echo.New()
	e.POST("/peliculas", okHandler, JWTAuth("", auth.RoleAdmin))

	rec := serve(e, httptest.NewRequest(http.MethodPost, "/peliculas", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRedisMiddlewares_DisabledWithoutClient(t *testing.T) {
	e := echo.New()
	log := zerolog.Nop()
	e.GET("/generos", okHandler,
		NewFixedWindow(config.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Minute}, nil, log),
		NewRedisCache(config.CacheConfig{Enabled: true, TTL: time.Minute}, nil, log),
	)

	for i := 0; i < 3; i++ {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/generos", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRedisMiddlewares_FailOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })

	e := echo.New()
	log := zerolog.Nop()
	cacheCfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "t:cache"}
	e.GET("/generos", okHandler,
		NewFixedWindow(config.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Minute, Prefix: "t:rl"}, rdb, log),
		NewRedisCache(cacheCfg, rdb, log),
	)
	e.POST("/generos", okHandler, InvalidateCache(cacheCfg, rdb, log))

	for i := 0; i < 2; i++ {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/generos", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	}
	rec := serve(e, httptest.NewRequest(http.MethodPost, "/generos", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRedisCache_HitAndInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	log := zerolog.Nop()
	cacheCfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "t:cache"}
	rlCfg := config.RateLimitConfig{Enabled: true, Requests: 100, Window: time.Minute, Prefix: "t:rl"}

	var reads int
	e := echo.New()
	e.Use(RequestID())
	e.GET("/peliculas/:id", func(c echo.Context) error {
		reads++
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "reads": reads})
	}, NewFixedWindow(rlCfg, rdb, log), NewRedisCache(cacheCfg, rdb, log))
	e.DELETE("/peliculas/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, InvalidateCache(cacheCfg, rdb, log))
	e.POST("/peliculas", func(c echo.Context) error {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nope"})
	}, InvalidateCache(cacheCfg, rdb, log))

	cacheKeys := func() []string {
		var out []string
		for _, k := range mr.Keys() {
			if strings.HasPrefix(k, cacheCfg.Prefix+":") {
				out = append(out, k)
			}
		}
		return out
	}

	miss := serve(e, httptest.NewRequest(http.MethodGet, "/peliculas/1", nil))
	require.Equal(t, http.StatusOK, miss.Code)
	assert.Equal(t, "MISS", miss.Header().Get("X-Cache"))
	assert.Len(t, cacheKeys(), 1)

	hit := serve(e, httptest.NewRequest(http.MethodGet, "/peliculas/1", nil))
	require.Equal(t, http.StatusOK, hit.Code)
	assert.Equal(t, "HIT", hit.Header().Get("X-Cache"))
	assert.Equal(t, miss.Body.String(), hit.Body.String())
	assert.Equal(t, 1, reads)
	assert.Equal(t, miss.Header().Get(echo.HeaderContentType), hit.Header().Get(echo.HeaderContentType))

	assert.Len(t, hit.Header().Values(echo.HeaderXRequestID), 1)
	assert.NotEqual(t, miss.Header().Get(echo.HeaderXRequestID), hit.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, []string{"98"}, hit.Header().Values("X-RateLimit-Remaining"))
	assert.Len(t, hit.Header().Values("X-RateLimit-Limit"), 1)
	assert.Len(t, hit.Header().Values("X-Cache"), 1)

	// A failed write leaves the cache alone.
	rec := serve(e, httptest.NewRequest(http.MethodPost, "/peliculas", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, cacheKeys(), 1)

	rec = serve(e, httptest.NewRequest(http.MethodDelete, "/peliculas/1", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, cacheKeys())

	after := serve(e, httptest.NewRequest(http.MethodGet, "/peliculas/1", nil))
	require.Equal(t, http.StatusOK, after.Code)
	assert.Equal(t, "MISS", after.Header().Get("X-Cache"))
	assert.Equal(t, 2, reads)
	assert.JSONEq(t, `{"id":"1","reads":2}`, after.Body.String())
}

func TestCacheKey(t *testing.T) {
	a := cacheKey("p", httptest.NewRequest(http.MethodGet, "/peliculas/1", nil))
	b := cacheKey("p", httptest.NewRequest(http.MethodGet, "/peliculas/1/", nil))
	c := cacheKey("p", httptest.NewRequest(http.MethodGet, "/peliculas/2", nil))
	d := cacheKey("p", httptest.NewRequest(http.MethodGet, "/peliculas/1?x=1", nil))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.Regexp(t, `^p:[0-9a-f]{40}$`, a)
}

func TestPayloadCodec(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, got)
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 0, 99})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte("short"))
	assert.False(t, ok)
}

func TestCaptureWriter_Limit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, err := cw.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = cw.Write([]byte("def"))
	require.NoError(t, err)

	assert.Equal(t, "abcd", cw.buf.String())
	assert.True(t, cw.truncated())
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestRateKey(t *testing.T) {
	w := time.Unix(1700000040, 0)
	assert.Equal(t, "rl:10.0.0.1:GET:/peliculas/:id:1700000040",
		rateKey("rl", "10.0.0.1", http.MethodGet, "/peliculas/:id", w))
	assert.Equal(t, "rl:unknown:POST:/generos:1700000040",
		rateKey("rl", "", http.MethodPost, "/generos", w))

	now := time.Unix(1700000075, 0)
	assert.Equal(t, time.Unix(1700000040, 0).Unix(), windowStart(now, time.Minute).Unix())
}

func TestErrorHandler(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zerolog.New(&buf))
	e.GET("/generos", okHandler)
	e.GET("/boom", func(echo.Context) error { return assert.AnError })

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/nada", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Recurso no encontrado"}`, rec.Body.String())

	rec = serve(e, httptest.NewRequest(http.MethodDelete, "/generos", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Error interno del servidor"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "unhandled error")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestID(), RequestLogger(zerolog.New(&buf)))
	e.GET("/generos", okHandler)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/generos", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), `"request_id":"`+rec.Header().Get(echo.HeaderXRequestID)+`"`)
}
