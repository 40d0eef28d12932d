package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"saverly/internal/handler/httperr"
	"saverly/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
)

const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRetryAfter         = "Retry-After"
)

var errRateLimited = errors.New("rate limit exceeded")

type RateLimiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Result, error)
}

// RateLimitMiddleware throttles per authenticated user. A nil limiter lets everything through,
// and so does a limiter error: losing Redis must not take redemption down with it.
type RateLimitMiddleware struct {
	limiter RateLimiter
}

func NewRateLimitMiddleware(limiter RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

func (m *RateLimitMiddleware) PerUser(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.limiter == nil {
			c.Next()
			return
		}
		userID, ok := GetUserID(c)
		if !ok {
			c.Next()
			return
		}

		res, err := m.limiter.Allow(c.Request.Context(), scope+":"+userID.String())
		if err != nil {
			slog.Warn("rate limiter unavailable", "scope", scope, "error", err)
			c.Next()
			return
		}

		c.Header(headerRateLimitLimit, strconv.Itoa(res.Limit))
		c.Header(headerRateLimitRemaining, strconv.FormatInt(res.Remaining, 10))
		if !res.Allowed {
			c.Header(headerRetryAfter, res.RetryAfterSeconds())
			httperr.AbortWithError(c, http.StatusTooManyRequests, errRateLimited, "Too many requests. Try again shortly.", nil)
			return
		}
		c.Next()
	}
}
