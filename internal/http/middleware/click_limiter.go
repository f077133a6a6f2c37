package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type userWindow struct {
	start time.Time
	count int
}

// ClickLimiter ограничивает клики на игрока фиксированным окном.
// Счётчик живёт в Redis; без Redis используется локальная карта,
// чего достаточно для одного инстанса.
type ClickLimiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	windows map[int64]*userWindow
}

func NewClickLimiter(max int, window time.Duration) *ClickLimiter {
	return &ClickLimiter{
		max:     max,
		window:  window,
		windows: make(map[int64]*userWindow),
	}
}

// Middleware требует запущенный JWT middleware: user_id берётся из контекста
func (l *ClickLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		uidVal, exists := c.Get("user_id")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		userID, ok := uidVal.(int64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user"})
			return
		}

		if !l.allow(userID) {
			RLBlocked.WithLabelValues("click:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Слишком много кликов! Подожди немного",
				"retry_after": l.window.Seconds(),
			})
			return
		}

		RLRequests.WithLabelValues("click:" + c.FullPath()).Inc()
		c.Next()
	}
}

func (l *ClickLimiter) allow(userID int64) bool {
	if redisClient != nil {
		if ok, err := l.allowRedis(userID); err == nil {
			return ok
		}
		// Redis отвалился, fail-open через локальное окно
	}
	return l.allowLocal(userID)
}

func (l *ClickLimiter) allowRedis(userID int64) (bool, error) {
	key := "click_rl:" + strconv.FormatInt(userID, 10)
	ctx := context.Background()

	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if val == 1 {
		redisClient.Expire(ctx, key, l.window)
	}
	return val <= int64(l.max), nil
}

func (l *ClickLimiter) allowLocal(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[userID]
	if !ok || now.Sub(w.start) >= l.window {
		l.windows[userID] = &userWindow{start: now, count: 1}
		return true
	}

	w.count++
	return w.count <= l.max
}
