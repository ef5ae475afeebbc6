package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-attend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func setupIdempotencyRouter(t *testing.T, rdb *redis.Client) (*gin.Engine, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handlerCalls := 0
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("machine_id", "machine-1")
	})
	r.POST("/sync", middleware.Idempotency(rdb), func(c *gin.Context) {
		handlerCalls++
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, &handlerCalls
}

func syncRequest(idempKey string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	if idempKey != "" {
		req.Header.Set("Idempotency-Key", idempKey)
	}
	return req
}

func TestIdempotency(t *testing.T) {
	cacheKey := "idemp:/sync:machine-1:batch-42"
	lockKey := cacheKey + ":lock"

	t.Run("success first delivery fills cache and releases lock", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.Regexp().ExpectSet(cacheKey, `.*"ok":true.*`, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		r, calls := setupIdempotencyRouter(t, rdb)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, syncRequest("batch-42"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, *calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative failed handler releases lock without caching", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectDel(lockKey).SetVal(1)

		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set("machine_id", "machine-1")
		})
		r.POST("/sync", middleware.Idempotency(rdb), func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, syncRequest("batch-42"))

		// A retry must re-run the failed batch, never replay the error body.
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success cached response is replayed without handler", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).SetVal(`{"synced":3}`)

		r, calls := setupIdempotencyRouter(t, rdb)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, syncRequest("batch-42"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, *calls)
		assert.Contains(t, w.Body.String(), `"synced":3`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative concurrent delivery conflicts while locked", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		r, calls := setupIdempotencyRouter(t, rdb)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, syncRequest("batch-42"))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, *calls)
		assert.Contains(t, w.Body.String(), "PROCESSING")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success request without key bypasses redis", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		r, calls := setupIdempotencyRouter(t, rdb)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, syncRequest(""))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, *calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
