package middleware

import (
	"net/http"
	"sync"
	"time"

	"fieldbook/pkg/logger"
)

// TeamExtractor pulls the acting team id out of a request. Requests
// without a team id are not rate limited here; they fail authorization
// further down the chain.
type TeamExtractor func(r *http.Request) string

func HeaderTeamExtractor(r *http.Request) string {
	return r.Header.Get("X-Team-ID")
}

// TeamRateLimiter keeps a sliding window of request timestamps per team.
type TeamRateLimiter struct {
	mu        sync.Mutex
	requests  map[string][]time.Time
	limit     int
	window    time.Duration
	extractor TeamExtractor
	log       *logger.Logger
	stopCh    chan struct{}
}

func NewTeamRateLimiter(limit int, window time.Duration, extractor TeamExtractor, log *logger.Logger) *TeamRateLimiter {
	limiter := &TeamRateLimiter{
		requests:  make(map[string][]time.Time),
		limit:     limit,
		window:    window,
		extractor: extractor,
		log:       log,
		stopCh:    make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *TeamRateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for team, timestamps := range rl.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, team)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *TeamRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *TeamRateLimiter) Allow(team string) bool {
	if team == "" {
		return true
	}

	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := rl.requests[team][:0]
	for _, ts := range rl.requests[team] {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[team] = valid
		return false
	}

	rl.requests[team] = append(valid, now)
	return true
}

func TeamRateLimit(limiter *TeamRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			team := limiter.extractor(r)

			if !limiter.Allow(team) {
				limiter.log.Warn("Rate limit exceeded",
					"request_id", requestIDFrom(r),
					"team_id", team,
					"path", r.URL.Path,
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Too many requests"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
