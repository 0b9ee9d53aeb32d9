package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// WriteRateLimit 写接口限流中间件
//
// 按客户端IP分配令牌桶，只作用于非 GET/HEAD 请求。
type WriteRateLimit struct {
	logger   *zap.Logger
	rps      rate.Limit
	burst    int
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewWriteRateLimit 创建写接口限流中间件，rps<=0 表示不限流
func NewWriteRateLimit(logger *zap.Logger, rps float64, burst int) *WriteRateLimit {
	if burst <= 0 {
		burst = 1
	}
	return &WriteRateLimit{
		logger:   logger,
		rps:      rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Middleware 返回Gin中间件
func (m *WriteRateLimit) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.rps <= 0 || !isWriteMethod(c.Request.Method) {
			c.Next()
			return
		}
		clientID := c.ClientIP()
		if !m.limiter(clientID).Allow() {
			m.logger.Warn("写请求被限流", zap.String("client_ip", clientID), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "Request rate limit exceeded",
				},
			})
			return
		}
		c.Next()
	}
}

func (m *WriteRateLimit) limiter(clientID string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.limiters[clientID]
	if !ok {
		l = rate.NewLimiter(m.rps, m.burst)
		m.limiters[clientID] = l
	}
	return l
}

func isWriteMethod(method string) bool {
	return method != http.MethodGet && method != http.MethodHead && method != http.MethodOptions
}
