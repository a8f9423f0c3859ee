package security

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var (
	allowedHeaders = strings.Join([]string{
		"Authorization", "Content-Type", "Content-Length", "Accept", "Origin", "X-Requested-With",
	}, ", ")
	allowedMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}, ", ")
	// 前端下载导入模板时需要读取文件名
	exposedHeaders = "Content-Disposition"
)

// CORS 只放行白名单中的 Origin；白名单含 "*" 时放行所有来源（开发环境）
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}
	_, allowAll := allowed["*"]

	return func(c *gin.Context) {
		h := c.Writer.Header()
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok || allowAll {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
			}
		}
		h.Set("Access-Control-Allow-Headers", allowedHeaders)
		h.Set("Access-Control-Allow-Methods", allowedMethods)
		h.Set("Access-Control-Expose-Headers", exposedHeaders)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Secure 常用安全响应头
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "same-origin")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors 每个客户端 IP 一个令牌桶
type visitors struct {
	mu    sync.Mutex
	items map[string]*visitor
	every rate.Limit
	burst int
}

func (v *visitors) allow(ip string, now time.Time) bool {
	v.mu.Lock()
	entry, ok := v.items[ip]
	if !ok {
		entry = &visitor{limiter: rate.NewLimiter(v.every, v.burst)}
		v.items[ip] = entry
	}
	entry.lastSeen = now
	v.mu.Unlock()
	return entry.limiter.AllowN(now, 1)
}

func (v *visitors) evictIdle(now time.Time, idle time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for ip, entry := range v.items {
		if now.Sub(entry.lastSeen) > idle {
			delete(v.items, ip)
		}
	}
}

// RateLimiter 按客户端 IP 限流，window 内最多 maxRequests 次
//
// 闲置的 IP 定期清理，ctx 结束时清理协程退出。
func RateLimiter(ctx context.Context, maxRequests int, window time.Duration) gin.HandlerFunc {
	if maxRequests <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	v := &visitors{
		items: make(map[string]*visitor),
		every: rate.Every(window / time.Duration(maxRequests)),
		burst: maxRequests,
	}

	idle := max(3*window, time.Minute)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				v.evictIdle(now, idle)
			}
		}
	}()

	return func(c *gin.Context) {
		if !v.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "请求过于频繁，请稍后再试",
			})
			return
		}
		c.Next()
	}
}
