package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Two tiers: auth endpoints get a tight budget to slow credential stuffing,
// everything else shares the general budget.
const (
	limitStrict  = rate.Limit(2)
	burstStrict  = 5
	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type visitorTable struct {
	mu       sync.Mutex
	visitors map[string]*visitor
}

func newVisitorTable() *visitorTable {
	t := &visitorTable{visitors: make(map[string]*visitor)}
	go t.cleanup()
	return t
}

func (t *visitorTable) get(key string, r rate.Limit, b int) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.visitors[key]
	if !ok {
		limiter := rate.NewLimiter(r, b)
		t.visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (t *visitorTable) cleanup() {
	for {
		time.Sleep(time.Minute)

		t.mu.Lock()
		for key, v := range t.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(t.visitors, key)
			}
		}
		t.mu.Unlock()
	}
}

// RateLimiter throttles requests per identity. Authenticated requests are
// keyed by user id so NAT'd buyers do not share a bucket; anonymous requests
// fall back to the client IP. Install Handle after Authenticate on gated
// subtrees so the user id is already on the context when the bucket is picked.
type RateLimiter struct {
	visitors *visitorTable
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{visitors: newVisitorTable()}
}

func (rl *RateLimiter) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, burst, tier := resolveTier(r)

		var identity string
		if userID, ok := UserIDFromContext(r.Context()); ok {
			identity = fmt.Sprintf("user:%d", userID)
		} else {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			identity = "ip:" + ip
		}

		limiter := rl.visitors.get(identity+":"+tier, limit, burst)
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func resolveTier(r *http.Request) (rate.Limit, int, string) {
	if strings.HasPrefix(r.URL.Path, "/api/auth/") {
		return limitStrict, burstStrict, "strict"
	}
	return limitGeneral, burstGeneral, "general"
}
