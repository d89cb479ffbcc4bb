package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/contextutil"
	"go-timeclock/internal/shared/response"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader    = "Idempotency-Key"
	idempotencyLockTTL   = 30 * time.Second
	idempotencyReplayTTL = 24 * time.Hour
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func IdempotencyCacheKey(path, subject, key string) string {
	return fmt.Sprintf("idemp:%s:%s:%s", path, subject, key)
}

// Idempotency replays the first completed response for a repeated
// Idempotency-Key and rejects a duplicate that arrives while the first one
// is still running. Requests without the header pass through.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyHeader)
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		logger := contextutil.GetLogger(ctx, zap.L().Named("middleware.idempotency"))
		cacheKey := IdempotencyCacheKey(c.FullPath(), c.GetString("user_id"), idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached cachedResponse
			if json.Unmarshal([]byte(val), &cached) == nil {
				c.Header("Idempotent-Replayed", "true")
				c.Data(cached.Status, cached.ContentType, []byte(cached.Body))
				c.Abort()
				return
			}
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			// redis trouble must not block the write path
			logger.Warn("idempotency lock unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, apperror.CodeConflict, "This request is already being processed", nil)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = rec

		c.Next()

		status := rec.Status()
		if status < http.StatusInternalServerError {
			payload, err := json.Marshal(cachedResponse{
				Status:      status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.buf.String(),
			})
			if err == nil {
				if err := rdb.Set(ctx, cacheKey, payload, idempotencyReplayTTL).Err(); err != nil {
					logger.Warn("idempotency store failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		if err := rdb.Del(ctx, lockKey).Err(); err != nil {
			logger.Warn("idempotency unlock failed", zap.String("key", lockKey), zap.Error(err))
		}
	}
}
