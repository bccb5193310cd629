package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pixelpulse/internal/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const limiterCacheSize = 4096

// AuthRequired 校验 Bearer API Key，保护 /api 下的查询接口。
// 支持明文密钥（常数时间比较）或 bcrypt 哈希两种配置；
// 两者都未配置时放行，方便本地开发。
func AuthRequired(cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APIKey == "" && cfg.APIKeyHash == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if cfg.APIKeyHash != "" {
			if bcrypt.CompareHashAndPassword([]byte(cfg.APIKeyHash), []byte(token)) != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
		} else if subtle.ConstantTimeCompare([]byte(token), []byte(cfg.APIKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Next()
	}
}

// RateLimit 按客户端 IP 做令牌桶限流。
// 限流表有上限，地址洪泛时最久未见的桶先被淘汰。
func RateLimit(perMinute, burst int) gin.HandlerFunc {
	limiters, _ := lru.New[string, *rate.Limiter](limiterCacheSize)
	perSecond := rate.Limit(float64(perMinute) / 60)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter, ok := limiters.Get(ip)
		if !ok {
			limiter = rate.NewLimiter(perSecond, burst)
			limiters.Add(ip, limiter)
		}
		if !limiter.Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}

// RequestLog 记录 API 请求日志。
// 像素、徽章与健康检查流量太大，不逐条记录。
func RequestLog(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/health" || strings.HasPrefix(path, "/pixel/") || strings.HasPrefix(path, "/badge/") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"ip":       c.ClientIP(),
		}).Info("request")
	}
}
