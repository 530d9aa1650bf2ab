package middleware

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is the health-check collaborator that decides whether the live
// store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DBHealthGate fails requests loudly while the database is unreachable
// instead of serving stale or fabricated data. The ping result is cached for
// ttl so the gate does not double every request's round trips.
func DBHealthGate(pinger Pinger, ttl time.Duration) gin.HandlerFunc {
	var lastOK atomic.Int64

	return func(c *gin.Context) {
		now := time.Now()
		if now.UnixNano()-lastOK.Load() > int64(ttl) {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			err := pinger.Ping(ctx)
			cancel()
			if err != nil {
				GetLoggerFromCtx(c.Request.Context()).Error("Database unreachable, refusing request",
					"error", err.Error())
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Persistence layer unavailable"})
				return
			}
			lastOK.Store(now.UnixNano())
		}
		c.Next()
	}
}
