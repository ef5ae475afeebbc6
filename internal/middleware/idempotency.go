package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyLockTTL  = 30 * time.Second
	idempotencyCacheTTL = 24 * time.Hour
)

// bodyCapture mirrors everything written to the client into a buffer so the
// middleware can cache the exact response it sent.
type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCapture) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency guards POST endpoints against re-delivery of the same request.
// Flaky biometric terminals retry whole batches, so the device sync route is
// its primary consumer. A repeated Idempotency-Key replays the stored
// response verbatim; a key whose first delivery is still in flight is
// refused with 409 PROCESSING.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		callerID := c.GetString("machine_id")
		if callerID == "" {
			callerID = c.GetString("user_id_validated")
		}

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), callerID, idempKey)
		lockKey := cacheKey + ":lock"
		ctx := c.Request.Context()

		// 1. Replay the stored response if this key was already processed.
		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(val))
			c.Abort()
			return
		}

		// 2. Atomic lock (SetNX). Short expiry so a crashed server does not
		// leave the key locked forever.
		isNew, _ := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "The same request is still being processed, retry shortly.",
			})
			return
		}

		// 3. Run the handler with its body mirrored, then fill the cache and
		// release the lock so retries replay instead of colliding.
		writer := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		if status := writer.Status(); status >= http.StatusOK && status < http.StatusMultipleChoices {
			rdb.Set(ctx, cacheKey, writer.buf.String(), idempotencyCacheTTL)
		}
		rdb.Del(ctx, lockKey)
	}
}
