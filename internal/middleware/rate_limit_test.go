package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blog-server/internal/consts"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// 测试内容：验证超出突发限制后返回 429。
func TestRateLimitMiddleware_BlocksAfterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	appService, gdb := setupTestService(t)
	setSetting(t, appService, gdb, consts.ConfigRateLimitAuthRPS, "0.001")
	setSetting(t, appService, gdb, consts.ConfigRateLimitAuthBurst, "2")

	r := gin.New()
	r.POST("/x", RateLimitMiddleware(appService, "auth", consts.ConfigRateLimitAuthRPS, consts.ConfigRateLimitAuthBurst),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.RemoteAddr = "1.2.3.4:1111"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("期望 [200 200 429]，实际为 %v", codes)
	}

	// 不同 IP 独立计数
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.RemoteAddr = "5.6.7.8:1111"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("期望其他 IP 返回 200，实际为 %d", w.Code)
	}
}

// 测试内容：验证关闭限流开关后请求全部放行。
func TestRateLimitMiddleware_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	appService, gdb := setupTestService(t)
	setSetting(t, appService, gdb, consts.ConfigRateLimitEnabled, "false")
	setSetting(t, appService, gdb, consts.ConfigRateLimitAuthBurst, "1")

	r := gin.New()
	r.POST("/x", RateLimitMiddleware(appService, "auth", consts.ConfigRateLimitAuthRPS, consts.ConfigRateLimitAuthBurst),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.RemoteAddr = "1.2.3.4:1111"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("第 %d 次请求期望 200，实际为 %d", i+1, w.Code)
		}
	}
}

// 测试内容：验证禁用参数下 Redis 限流直接放行。
func TestAllowByRedisRateLimit_DisabledReturnsOK(t *testing.T) {
	ok, err := allowByRedisRateLimit(nil, "auth", "1.2.3.4", 0, 1)
	if err != nil || !ok {
		t.Fatalf("期望放行，实际为 ok=%v err=%v", ok, err)
	}
	ok, err = allowByRedisRateLimit(nil, "auth", "1.2.3.4", 1, 0)
	if err != nil || !ok {
		t.Fatalf("期望放行，实际为 ok=%v err=%v", ok, err)
	}
}

// 测试内容：验证 Redis 不可用时限流返回错误，由调用方回退内存限流。
func TestAllowByRedisRateLimit_UnavailableRedisReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
	})
	defer func() { _ = client.Close() }()

	ok, err := allowByRedisRateLimit(client, "auth", "1.2.3.4", 1, 1)
	if err == nil || ok {
		t.Fatalf("期望 redis 错误，实际为 ok=%v err=%v", ok, err)
	}
}

// 测试内容：验证固定窗口长度按 burst/rps 计算且最少 1 秒。
func TestRedisRateWindow(t *testing.T) {
	cases := []struct {
		rps   float64
		burst int
		want  time.Duration
	}{
		{0.5, 5, 10 * time.Second},
		{10, 5, time.Second},
		{2, 3, 2 * time.Second},
	}
	for _, tc := range cases {
		if got := redisRateWindow(tc.rps, tc.burst); got != tc.want {
			t.Fatalf("redisRateWindow(%v,%d) = %v，期望 %v", tc.rps, tc.burst, got, tc.want)
		}
	}
}
