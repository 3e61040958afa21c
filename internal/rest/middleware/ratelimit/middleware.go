package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gongguhub/gonggu/internal/setup/config"
	"github.com/gongguhub/gonggu/internal/utils"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	errBlocked    = "temporarily blocked for repeated rate limit violations"
	errRateLimit  = "rate limit exceeded"
	headerRetryAt = "Retry-After"
)

type limiterState struct {
	limiter *rate.Limiter

	mu           sync.Mutex // Guards strikes and blockedUntil
	strikes      int        // Number of times client has violated rate limit
	blockedUntil time.Time  // Time until client is blocked for repeated violations
}

// Middleware implements per-client rate limiting for API requests.
type Middleware struct {
	limiters *utils.TTLMap[string, *limiterState]
	config   *config.RateLimit
	logger   *zap.Logger
}

// New creates a new rate limiting middleware.
func New(config *config.RateLimit, logger *zap.Logger) *Middleware {
	// Use the longer of block duration or burst window * 2 for TTL
	ttl := time.Second * time.Duration(config.BurstSize*2)
	if blockTTL := time.Second * time.Duration(config.BlockDuration*2); blockTTL > ttl {
		ttl = blockTTL
	}

	return &Middleware{
		limiters: utils.NewTTLMap[string, *limiterState](ttl),
		config:   config,
		logger:   logger,
	}
}

// AsRESTMiddleware returns a bunrouter middleware handler for rate limiting.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		clientIP := clientIP(req.RemoteAddr)

		if allowed, retryAfter, msg := m.checkRateLimit(clientIP); !allowed {
			if retryAfter > 0 {
				w.Header().Set(headerRetryAt, fmt.Sprintf("%.0f", retryAfter.Seconds()))
			}

			http.Error(w, msg, http.StatusTooManyRequests)

			return nil
		}

		return next(w, req)
	}
}

// getLimiter returns the limiter state for the specified IP.
func (m *Middleware) getLimiter(ip string) *limiterState {
	if state, exists := m.limiters.Get(ip); exists {
		return state
	}

	state := &limiterState{
		limiter: rate.NewLimiter(rate.Limit(m.config.RequestsPerSecond), m.config.BurstSize),
	}
	m.limiters.Set(ip, state)

	return state
}

// handleStrikes checks if strikes exceed limit and blocks if necessary.
func (m *Middleware) handleStrikes(state *limiterState, ip string) (bool, time.Duration, string) {
	if state.strikes >= m.config.StrikeLimit {
		blockDuration := time.Duration(m.config.BlockDuration) * time.Second
		state.blockedUntil = time.Now().Add(blockDuration)
		state.strikes = 0 // Reset strikes

		m.logger.Debug("Client exceeded strike limit and is now blocked",
			zap.String("ip", ip),
			zap.Int("strikes", m.config.StrikeLimit),
			zap.Duration("block_duration", blockDuration))

		return false, blockDuration, errBlocked
	}

	return true, 0, ""
}

// checkRateLimit checks if the request should be allowed and updates
// violation tracking.
func (m *Middleware) checkRateLimit(ip string) (bool, time.Duration, string) {
	state := m.getLimiter(ip)

	state.mu.Lock()
	defer state.mu.Unlock()

	// Check if client is blocked
	if !state.blockedUntil.IsZero() && time.Now().Before(state.blockedUntil) {
		retryAfter := time.Until(state.blockedUntil).Round(time.Second)
		m.logger.Debug("Client is temporarily blocked",
			zap.String("ip", ip),
			zap.Duration("retry_after", retryAfter))

		return false, retryAfter, errBlocked
	}

	if !state.limiter.Allow() {
		state.strikes++

		if allowed, retryAfter, msg := m.handleStrikes(state, ip); !allowed {
			return allowed, retryAfter, msg
		}

		m.logger.Debug("Rate limit exceeded",
			zap.String("ip", ip),
			zap.Int("strikes", state.strikes))

		return false, 0, errRateLimit
	}

	// Reset strikes on successful request
	if state.strikes > 0 {
		state.strikes = 0
	}

	return true, 0, ""
}

// clientIP strips the port from a request's remote address.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}

	return remoteAddr
}
