package middleware

import (
	"context"
	"modfy_server/config"
	"modfy_server/lib"
	"modfy_server/services"
	"modfy_server/structs"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMiddleware(t *testing.T, withCache bool) *Middleware {
	t.Helper()
	cfg := config.Load()
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.GeneralLimit = 3
	cfg.RateLimit.GeneralWindow = time.Minute
	cfg.RateLimit.AuthLimit = 1
	cfg.RateLimit.AuthWindow = time.Minute
	cfg.Auth.SessionTTL = time.Hour

	logger := gecho.NewDefaultLogger()
	var cache *services.CacheService
	if withCache {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		cache = services.NewCacheServiceWithClient(logger, client)
	}

	sessions := services.NewSessionService(logger, cfg, services.NewMemorySessionStore())
	return NewMiddleware(cfg, logger, cache, sessions)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func request(h http.Handler, method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "10.1.2.3:5555"
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNormalizeEndpoint(t *testing.T) {
	id := uuid.NewString()
	assert.Equal(t, "/api/products/:id", normalizeEndpoint("/api/products/"+id))
	assert.Equal(t, "/api/products/:id/reviews", normalizeEndpoint("/api/products/"+id+"/reviews/"))
	assert.Equal(t, "/api/products/oxford-shirt", normalizeEndpoint("/api/products/oxford-shirt"))
}

func TestRateLimit(t *testing.T) {
	mw := newTestMiddleware(t, true)
	h := mw.RateLimit()(okHandler())

	for range 3 {
		rec := request(h, http.MethodGet, "/api/products")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := request(h, http.MethodGet, "/api/products")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// auth endpoints have their own, tighter budget
	assert.Equal(t, http.StatusOK, request(h, http.MethodPost, "/api/auth/login").Code)
	assert.Equal(t, http.StatusTooManyRequests, request(h, http.MethodPost, "/api/auth/login").Code)

	for range 5 {
		assert.Equal(t, http.StatusOK, request(h, http.MethodGet, "/health/server").Code)
	}
}

func TestRateLimitDisabledWithoutCache(t *testing.T) {
	mw := newTestMiddleware(t, false)
	h := mw.RateLimit()(okHandler())

	for range 10 {
		assert.Equal(t, http.StatusOK, request(h, http.MethodGet, "/api/products").Code)
	}
}

func TestSessionMiddleware(t *testing.T) {
	mw := newTestMiddleware(t, false)

	var seen *structs.Session
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSession(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := request(mw.LoadSession(mw.EnsureSession(capture)), http.MethodGet, "/api/cart")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.False(t, seen.IsAuthenticated())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, lib.SessionCookieName, cookies[0].Name)
	guestID := seen.ID

	seen = nil
	rec = request(mw.LoadSession(capture), http.MethodGet, "/api/cart", cookies[0])
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, guestID, seen.ID)

	seen = nil
	rec = request(mw.LoadSession(capture), http.MethodGet, "/api/cart", &http.Cookie{Name: lib.SessionCookieName, Value: "unknown"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seen)
	require.NotEmpty(t, rec.Result().Cookies())
	assert.Negative(t, rec.Result().Cookies()[0].MaxAge)
}

func TestRequireAdmin(t *testing.T) {
	mw := newTestMiddleware(t, false)
	h := mw.RequireAdmin(okHandler())

	serve := func(session *structs.Session) int {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		if session != nil {
			req = req.WithContext(WithSession(context.Background(), session))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	userID := uuid.New()
	assert.Equal(t, http.StatusUnauthorized, serve(nil))
	assert.Equal(t, http.StatusUnauthorized, serve(&structs.Session{ID: "guest"}))
	assert.Equal(t, http.StatusForbidden, serve(&structs.Session{ID: "c", UserID: &userID, User: &structs.SessionUser{Role: "customer"}}))
	assert.Equal(t, http.StatusOK, serve(&structs.Session{ID: "a", UserID: &userID, User: &structs.SessionUser{Role: "admin"}}))
}

func TestCartOwner(t *testing.T) {
	userID := uuid.New()
	assert.True(t, CartOwner(nil).IsZero())
	assert.Equal(t, "guest", CartOwner(&structs.Session{ID: "guest"}).SessionID)

	owner := CartOwner(&structs.Session{ID: "s", UserID: &userID})
	require.NotNil(t, owner.UserID)
	assert.Equal(t, userID, *owner.UserID)
	assert.Empty(t, owner.SessionID)
}
