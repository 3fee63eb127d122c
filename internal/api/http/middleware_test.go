package http

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResponseCache_ServesAndFlushes(t *testing.T) {
	hits := 0
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			hits++
			w.Write([]byte("list " + strconv.Itoa(hits)))
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	cached := NewResponseCache(time.Minute).Middleware(backend)

	get := func() string {
		rec := httptest.NewRecorder()
		cached.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rental-requests/5/rotation-list", nil))
		return rec.Body.String()
	}

	assert.Equal(t, "list 1", get())
	// Second read comes from cache, not the backend.
	assert.Equal(t, "list 1", get())
	assert.Equal(t, 1, hits)

	// A mutation flushes the cache so the next read sees fresh state.
	rec := httptest.NewRecorder()
	cached.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rental-requests/5/offer-next", nil))
	assert.Equal(t, "list 2", get())
}

func TestResponseCache_SkipsErrorResponses(t *testing.T) {
	hits := 0
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	})
	cached := NewResponseCache(time.Minute).Middleware(backend)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		cached.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rental-requests/404/rotation-list", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
	assert.Equal(t, 2, hits)
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	// A different client has its own allowance.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
