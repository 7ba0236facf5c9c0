package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"quiz_webapp/internal/db"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRateLimit_LocalFallback(t *testing.T) {
	SetRedisClient(nil)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/test", RedisRateLimit(2, time.Minute), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestUserRateLimit_SeparatesUsers(t *testing.T) {
	SetRedisClient(nil)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/submit/:uid", func(c *gin.Context) {
		uid, _ := strconv.ParseInt(c.Param("uid"), 10, 64)
		c.Set("user_id", uid)
	}, UserRateLimit("submit", 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	codes := []int{}
	for _, path := range []string{"/submit/1", "/submit/1", "/submit/2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusTooManyRequests, http.StatusNoContent}, codes)
}

func TestUserRateLimit_RequiresUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", UserRateLimit("submit", 1, time.Minute), func(c *gin.Context) { c.Status(200) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	pass := os.Getenv("REDIS_PASSWORD")
	dbIndex := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			dbIndex = n
		}
	}

	client := db.ConnectRedis(addr, pass, dbIndex)
	require.NotNil(t, client, "redis at %s not reachable", addr)
	defer client.Close()
	SetRedisClient(client)
	defer SetRedisClient(nil)

	// small window for test
	w := 2 * time.Second
	max := 2

	r := gin.New()
	r.GET("/test", RedisRateLimit(max, w), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	// do max allowed requests
	for i := 0; i < max; i++ {
		res, err := http.Get(srv.URL + "/test")
		require.NoError(t, err)
		res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)
	}

	// next request should be blocked
	res, err := http.Get(srv.URL + "/test")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
}
