// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

// RateLimiter keeps one token bucket per client IP. Routes listed in
// endpointLimits, keyed by "METHOD path", get their own stricter bucket.
type RateLimiter struct {
	clients        map[string]*rate.Limiter
	blockedIPs     map[string]time.Time
	mu             sync.Mutex
	defaultLimit   endpointLimit
	blockDuration  time.Duration
	endpointLimits map[string]endpointLimit
	now            func() time.Time
}

func NewRateLimiter() *RateLimiter {
	strict := endpointLimit{limit: rate.Every(2 * time.Second), burst: 5}
	return &RateLimiter{
		clients:       make(map[string]*rate.Limiter),
		blockedIPs:    make(map[string]time.Time),
		defaultLimit:  endpointLimit{limit: rate.Every(100 * time.Millisecond), burst: 20}, // 10 req/s
		blockDuration: 5 * time.Minute,
		endpointLimits: map[string]endpointLimit{
			"POST /api/auth/login":                     strict,
			"POST /api/auth/login-associado":           strict,
			"POST /api/auth/register-associado":        strict,
			"POST /api/beneficios/resgatar-publico":    strict,
			"POST /api/capacitacoes/inscrever-publico": strict,
			"POST /api/eventos/inscrever-publico":      strict,
			"POST /api/empresas":                       {limit: rate.Every(500 * time.Millisecond), burst: 10},
			"GET /api/consultas/buscar-cep":            {limit: rate.Every(500 * time.Millisecond), burst: 10},
			"GET /api/consultas/buscar-cnpj":           {limit: rate.Every(time.Second), burst: 5},
		},
		now: time.Now,
	}
}

// Cleanup drops expired blocks every interval until stop is closed.
func (r *RateLimiter) Cleanup(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *RateLimiter) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for ip, until := range r.blockedIPs {
		if now.After(until) {
			delete(r.blockedIPs, ip)
		}
	}
	// Idle buckets are full again; rebuilding them later loses nothing.
	for key, limiter := range r.clients {
		if limiter.TokensAt(now) >= float64(limiter.Burst()) {
			delete(r.clients, key)
		}
	}
}

func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodOptions || strings.HasPrefix(c.Path(), "/metrics") {
				return next(c)
			}
			ip := c.RealIP()

			r.mu.Lock()
			if until, blocked := r.blockedIPs[ip]; blocked {
				if r.now().Before(until) {
					r.mu.Unlock()
					return tooManyRequests(c, until)
				}
				delete(r.blockedIPs, ip)
			}
			r.mu.Unlock()

			limit, key := r.defaultLimit, ip
			route := c.Request().Method + " " + c.Path()
			if l, ok := r.endpointLimits[route]; ok {
				limit, key = l, ip+" "+route
			}

			if !r.getLimiter(key, limit).Allow() {
				until := r.now().Add(r.blockDuration)
				r.mu.Lock()
				r.blockedIPs[ip] = until
				r.mu.Unlock()
				return tooManyRequests(c, until)
			}
			return next(c)
		}
	}
}

func tooManyRequests(c echo.Context, until time.Time) error {
	return c.JSON(http.StatusTooManyRequests, map[string]string{
		"error":      "Muitas requisições. Tente novamente mais tarde.",
		"retryAfter": until.Format(time.RFC3339),
	})
}

func (r *RateLimiter) getLimiter(key string, l endpointLimit) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	limiter, exists := r.clients[key]
	if !exists {
		limiter = rate.NewLimiter(l.limit, l.burst)
		r.clients[key] = limiter
	}
	return limiter
}
