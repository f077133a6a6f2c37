package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newClickTestRouter(limiter *ClickLimiter, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/click",
		func(c *gin.Context) { c.Set("user_id", userID) },
		limiter.Middleware(),
		func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) },
	)
	return r
}

func doClick(t *testing.T, r *gin.Engine) int {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/click", nil)
	r.ServeHTTP(w, req)
	return w.Code
}

func TestClickLimiterBlocksOverLimit(t *testing.T) {
	limiter := NewClickLimiter(15, time.Second)
	r := newClickTestRouter(limiter, 7)

	for i := 0; i < 15; i++ {
		if code := doClick(t, r); code != 200 {
			t.Fatalf("click %d: expected 200 got %d", i+1, code)
		}
	}
	if code := doClick(t, r); code != 429 {
		t.Fatalf("16th click: expected 429 got %d", code)
	}
}

func TestClickLimiterWindowReset(t *testing.T) {
	limiter := NewClickLimiter(2, 50*time.Millisecond)
	r := newClickTestRouter(limiter, 7)

	doClick(t, r)
	doClick(t, r)
	if code := doClick(t, r); code != 429 {
		t.Fatalf("expected 429 got %d", code)
	}

	time.Sleep(60 * time.Millisecond)
	if code := doClick(t, r); code != 200 {
		t.Fatalf("after window: expected 200 got %d", code)
	}
}

func TestClickLimiterPerUser(t *testing.T) {
	limiter := NewClickLimiter(1, time.Second)
	r1 := newClickTestRouter(limiter, 1)
	r2 := newClickTestRouter(limiter, 2)

	if code := doClick(t, r1); code != 200 {
		t.Fatalf("user 1: expected 200 got %d", code)
	}
	if code := doClick(t, r1); code != 429 {
		t.Fatalf("user 1 second: expected 429 got %d", code)
	}
	// лимит первого пользователя не трогает второго
	if code := doClick(t, r2); code != 200 {
		t.Fatalf("user 2: expected 200 got %d", code)
	}
}

func TestClickLimiterNoUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewClickLimiter(15, time.Second)
	r := gin.New()
	r.POST("/click", limiter.Middleware(), func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/click", nil))
	if w.Code != 401 {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	pass := os.Getenv("REDIS_PASSWORD")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	InitRedisRateLimiter(addr, pass, db)

	w := 2 * time.Second
	max := 2

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", RedisRateLimit(max, w), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	client := &http.Client{}
	for i := 0; i < max; i++ {
		res, err := client.Get(srv.URL + "/test")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if res.StatusCode != 200 {
			t.Fatalf("expected 200 got %d", res.StatusCode)
		}
	}

	res, err := client.Get(srv.URL + "/test")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != 429 {
		t.Fatalf("expected 429 got %d", res.StatusCode)
	}
}
