package httpserver

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"demo-storefront/internal/cart"
	"demo-storefront/internal/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	sessionHeader = "X-Session-ID"
	sessionCookie = "demo_store_session"
	sessionCtxKey = "session"

	sessionCookieMaxAge = 30 * 24 * 60 * 60
)

// sessionMiddleware resolves the caller's session from the header or the
// cookie, minting a new one when neither names a usable session. The cart
// engine is attached to the request context.
func sessionMiddleware(sessions sessionManager, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.GetHeader(sessionHeader)
		if id == "" {
			id, _ = c.Cookie(sessionCookie)
		}

		var (
			s   *session.Session
			err error
		)
		if id != "" {
			s, err = sessions.Get(ctx, id)
			if errors.Is(err, session.ErrInvalidID) {
				s, err = sessions.New(ctx)
			}
		} else {
			s, err = sessions.New(ctx)
		}
		if err != nil {
			logger.Printf("http: session id=%q error=%v", id, err)
			writeError(c, http.StatusInternalServerError, "session_unavailable", "session could not be loaded")
			return
		}

		if s.ID != id {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, s.ID, sessionCookieMaxAge, "/", "", false, true)
		}
		c.Header(sessionHeader, s.ID)
		c.Set(sessionCtxKey, s)
		c.Request = c.Request.WithContext(cart.WithEngine(ctx, s.Cart))
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionCtxKey).(*session.Session)
}

// limiterIdleTTL is how long an untouched client limiter is kept.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiters holds one token bucket per client IP. Idle buckets are swept
// at most once per idle TTL, so the map only holds recently seen clients.
type ipLimiters struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiters(limit rate.Limit, burst int) *ipLimiters {
	return &ipLimiters{
		limiters:  make(map[string]*clientLimiter),
		limit:     limit,
		burst:     burst,
		idleTTL:   limiterIdleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		for key, cl := range l.limiters {
			if now.Sub(cl.lastSeen) >= l.idleTTL {
				delete(l.limiters, key)
			}
		}
		l.lastSweep = now
	}
	cl, ok := l.limiters[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

func (l *ipLimiters) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func rateLimitMiddleware(limiters *ipLimiters) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			writeError(c, http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests, try again shortly")
			return
		}
		c.Next()
	}
}
