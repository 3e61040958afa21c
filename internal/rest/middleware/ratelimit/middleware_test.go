package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gongguhub/gonggu/internal/rest/middleware/ratelimit"
	"github.com/gongguhub/gonggu/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

func newRouter(cfg *config.RateLimit) *bunrouter.Router {
	m := ratelimit.New(cfg, zap.NewNop())
	router := bunrouter.New()
	router.Use(m.AsRESTMiddleware).GET("/ping", func(w http.ResponseWriter, _ bunrouter.Request) error {
		w.WriteHeader(http.StatusOK)
		return nil
	})

	return router
}

func doRequest(router *bunrouter.Router, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestRateLimitAllowsWithinBurst(t *testing.T) {
	t.Parallel()

	router := newRouter(&config.RateLimit{
		RequestsPerSecond: 100,
		BurstSize:         5,
		BlockDuration:     60,
		StrikeLimit:       3,
	})

	for range 5 {
		rec := doRequest(router, "10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitRejectsBeyondBurst(t *testing.T) {
	t.Parallel()

	router := newRouter(&config.RateLimit{
		RequestsPerSecond: 0.001,
		BurstSize:         1,
		BlockDuration:     60,
		StrikeLimit:       10,
	})

	assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.2:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "10.0.0.2:1234").Code)
}

func TestRateLimitTracksClientsSeparately(t *testing.T) {
	t.Parallel()

	router := newRouter(&config.RateLimit{
		RequestsPerSecond: 0.001,
		BurstSize:         1,
		BlockDuration:     60,
		StrikeLimit:       10,
	})

	assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.3:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "10.0.0.3:1234").Code)

	// A different client still has its full burst
	assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.4:5678").Code)
}

func TestRateLimitConcurrentRequestsFromOneClient(t *testing.T) {
	t.Parallel()

	router := newRouter(&config.RateLimit{
		RequestsPerSecond: 0.001,
		BurstSize:         5,
		BlockDuration:     60,
		StrikeLimit:       1000,
	})

	const requests = 50

	codes := make(chan int, requests)

	var wg sync.WaitGroup
	for range requests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- doRequest(router, "10.0.0.6:1234").Code
		}()
	}
	wg.Wait()
	close(codes)

	var allowed, rejected int
	for code := range codes {
		switch code {
		case http.StatusOK:
			allowed++
		case http.StatusTooManyRequests:
			rejected++
		}
	}

	// Only the burst is admitted regardless of interleaving
	assert.Equal(t, 5, allowed)
	assert.Equal(t, requests-5, rejected)
}

func TestRateLimitBlocksAfterRepeatedStrikes(t *testing.T) {
	t.Parallel()

	router := newRouter(&config.RateLimit{
		RequestsPerSecond: 0.001,
		BurstSize:         1,
		BlockDuration:     300,
		StrikeLimit:       2,
	})

	doRequest(router, "10.0.0.5:1234")

	// Burn through the strike limit
	doRequest(router, "10.0.0.5:1234")
	doRequest(router, "10.0.0.5:1234")

	rec := doRequest(router, "10.0.0.5:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
