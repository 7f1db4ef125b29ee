package middleware

import (
	"blog-server/internal/consts"
	"blog-server/internal/service"
	"context"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type client struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

func (c *client) touch() {
	c.mu.Lock()
	c.lastSeen = time.Now()
	c.mu.Unlock()
}

func (c *client) idleFor() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Since(c.lastSeen)
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		r: r,
		b: b,
	}

	go i.cleanupLoop()

	return i
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.touch()
		return c.limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Double check
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.touch()
		return c.limiter
	}

	limiter := rate.NewLimiter(i.r, i.b)
	i.ips.Store(ip, &client{limiter: limiter, lastSeen: time.Now()})

	return limiter
}

func (i *IPRateLimiter) cleanupLoop() {
	for {
		time.Sleep(1 * time.Minute)
		i.ips.Range(func(key, value interface{}) bool {
			if value.(*client).idleFor() > 3*time.Minute {
				i.ips.Delete(key)
			}
			return true
		})
	}
}

// redisRateWindow 固定窗口长度：窗口内最多 burst 次，折算速率约等于 rps
func redisRateWindow(rps float64, burst int) time.Duration {
	seconds := float64(burst) / rps
	window := time.Duration(math.Ceil(seconds)) * time.Second
	if window < time.Second {
		window = time.Second
	}
	return window
}

// allowByRedisRateLimit 基于 Redis INCR 的固定窗口限流，多实例部署时共享计数。
// rps 或 burst 非正数时视为不限流。
func allowByRedisRateLimit(client *redis.Client, scope, ip string, rps float64, burst int) (bool, error) {
	if rps <= 0 || burst <= 0 {
		return true, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	window := redisRateWindow(rps, burst)
	key := service.RedisKey("ratelimit", scope, ip)

	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(burst), nil
}

// RateLimitMiddleware 创建一个动态限流中间件，scope 区分不同接口组的计数。
func RateLimitMiddleware(appService *service.AppService, scope, rpsKey, burstKey string) gin.HandlerFunc {
	// 每个接口组共用一个 IPRateLimiter 实例
	var limiter *IPRateLimiter
	var once sync.Once

	return func(c *gin.Context) {
		if !appService.GetBool(consts.ConfigRateLimitEnabled) {
			c.Next()
			return
		}

		currentRPS := appService.GetFloat64(rpsKey)
		currentBurst := appService.GetInt(burstKey)
		ip := c.ClientIP()

		// 优先使用 Redis，失败时回退进程内限流
		if redisClient := service.GetRedisClient(); redisClient != nil {
			allowed, err := allowByRedisRateLimit(redisClient, scope, ip, currentRPS, currentBurst)
			if err == nil {
				if !allowed {
					c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
					c.Abort()
					return
				}
				c.Next()
				return
			}
			log.Printf("Warning: Redis 限流失败，回退内存限流: %v\n", err)
		}

		once.Do(func() {
			limiter = NewIPRateLimiter(rate.Limit(currentRPS), currentBurst)
		})

		l := limiter.getLimiter(ip)

		// 配置变更时动态更新 limit 和 burst
		if l.Limit() != rate.Limit(currentRPS) {
			l.SetLimit(rate.Limit(currentRPS))
		}
		if l.Burst() != currentBurst {
			l.SetBurst(currentBurst)
		}

		if !l.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
			c.Abort()
			return
		}
		c.Next()
	}
}
