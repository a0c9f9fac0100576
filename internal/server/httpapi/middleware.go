package httpapi

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/dmitrijs2005/pantrykeeper/internal/common"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/auth"
	"golang.org/x/time/rate"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// claimsFromContext returns the identity placed by the authenticate
// middleware. The bool is false on routes that skipped authentication.
func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// authenticate extracts the bearer token from the Authorization header,
// validates it (signature, expiry, revocation) and stores the embedded
// identity in the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		header := r.Header.Get(common.AuthorizationHeaderName)
		if strings.HasPrefix(header, common.BearerSchemePrefix) {
			token = strings.TrimPrefix(header, common.BearerSchemePrefix)
		}

		claims, err := s.sessions.Authenticate(r.Context(), token)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userRateLimiter keeps one token bucket per authenticated user.
type userRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

func newUserRateLimiter(rps float64, burst int) *userRateLimiter {
	return &userRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

func (l *userRateLimiter) get(userID string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[userID]
	l.mu.RUnlock()
	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// Re-check after acquiring the write lock.
	if limiter, ok = l.limiters[userID]; !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), l.burst)
		l.limiters[userID] = limiter
	}
	return limiter
}

// limitRequests throttles per authenticated user. Runs after authenticate,
// so the claims are always present.
func (s *Server) limitRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(r.Context())
		if ok && !s.limiter.get(claims.UserID).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// logRequests emits one structured log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info(r.Context(), "request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
