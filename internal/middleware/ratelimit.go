package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/user/reelcircle/internal/metrics"
	"github.com/user/reelcircle/internal/utils"
	"golang.org/x/time/rate"
)

// RateLimiter 按客户端 IP 的令牌桶限流
type RateLimiter struct {
	limiters *cache.Cache
	limit    rate.Limit
	burst    int
}

// NewRateLimiter perMinute 为每分钟允许的请求数；空闲 10 分钟的 IP 会被回收
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &RateLimiter{
		limiters: cache.New(10*time.Minute, 5*time.Minute),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
	}
}

func (l *RateLimiter) limiterFor(key string) *rate.Limiter {
	if v, ok := l.limiters.Get(key); ok {
		lim := v.(*rate.Limiter)
		// 续期
		l.limiters.SetDefault(key, lim)
		return lim
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	// Add 失败说明并发请求已经写入，沿用已有的
	if err := l.limiters.Add(key, lim, cache.DefaultExpiration); err != nil {
		if v, ok := l.limiters.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

// Allow 判断该 key 是否还有配额
func (l *RateLimiter) Allow(key string) bool {
	return l.limiterFor(key).Allow()
}

// Middleware 超出配额返回 429
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(utils.HashIP(c.ClientIP())) {
			metrics.RateLimitHits.WithLabelValues(c.FullPath()).Inc()
			c.Header("Retry-After", "60")
			utils.AbortWithError(c, http.StatusTooManyRequests, "请求过于频繁，请稍后再试")
			return
		}
		c.Next()
	}
}
