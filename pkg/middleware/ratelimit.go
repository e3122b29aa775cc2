package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/vfg2006/convbench/pkg/apiErrors"
	"github.com/vfg2006/convbench/pkg/log"
)

const maxLimiters = 10000

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimiter mantém um token bucket por IP
type RateLimiter struct {
	mu       sync.RWMutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow consome um token do IP
func (rl *RateLimiter) Allow(ip string) bool {
	v := rl.visitor(ip)
	v.lastSeen.Store(rl.now().UnixNano())
	return v.limiter.Allow()
}

// Len devolve quantos IPs têm limitador ativo
func (rl *RateLimiter) Len() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.visitors)
}

// Prune remove os limitadores sem uso há mais de idle e devolve quantos saíram
func (rl *RateLimiter) Prune(idle time.Duration) int {
	cutoff := rl.now().Add(-idle).UnixNano()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for ip, v := range rl.visitors {
		if v.lastSeen.Load() < cutoff {
			delete(rl.visitors, ip)
			removed++
		}
	}
	return removed
}

func (rl *RateLimiter) visitor(ip string) *visitor {
	rl.mu.RLock()
	v, exists := rl.visitors[ip]
	rl.mu.RUnlock()
	if exists {
		return v
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, exists := rl.visitors[ip]; exists {
		return v
	}

	// Descarta metade dos limitadores quando o mapa cresce demais
	if len(rl.visitors) >= maxLimiters {
		target := len(rl.visitors) / 2
		for key := range rl.visitors {
			delete(rl.visitors, key)
			target--
			if target <= 0 {
				break
			}
		}
		log.L.WithField("remaining", len(rl.visitors)).Info("Limitadores de IP antigos removidos")
	}

	v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
	rl.visitors[ip] = v
	return v
}

// RateLimit responde 429 quando o IP excede o limite
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			if !rl.Allow(ip) {
				log.ForContext(r.Context()).WithFields(log.Fields{
					"client_ip": ip,
					"path":      r.URL.Path,
				}).Warn("Limite de requisições excedido")

				w.Header().Set("Retry-After", "1")
				apiErrors.WriteError(w, apiErrors.ErrTooManyRequests, "Trop de requêtes, réessayez dans un instant", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP usa o primeiro endereço de X-Forwarded-For quando presente
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
