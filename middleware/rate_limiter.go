package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultPerMin = 200
	visitorIdle   = 10 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorLimits tracks one token bucket per client IP and forgets idle clients.
type visitorLimits struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	perMin    int
	lastSweep time.Time
	now       func() time.Time
}

func newVisitorLimits(perMin int) *visitorLimits {
	if perMin <= 0 {
		perMin = defaultPerMin
	}
	return &visitorLimits{visitors: make(map[string]*visitor), perMin: perMin, now: time.Now}
}

func (v *visitorLimits) allow(ip string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	if now.Sub(v.lastSweep) > time.Minute {
		for key, vis := range v.visitors {
			if now.Sub(vis.lastSeen) > visitorIdle {
				delete(v.visitors, key)
			}
		}
		v.lastSweep = now
	}

	vis, ok := v.visitors[ip]
	if !ok {
		vis = &visitor{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(v.perMin)), v.perMin)}
		v.visitors[ip] = vis
	}
	vis.lastSeen = now
	return vis.limiter.AllowN(now, 1)
}

// RateLimitMiddleware limits each client IP to perMin requests per minute.
func RateLimitMiddleware(perMin int) gin.HandlerFunc {
	limits := newVisitorLimits(perMin)
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !limits.allow(ip) {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
