package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/storage"
	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
)

var healthProbeKey = []byte("ov/health/probe")

// HealthHandler 健康检查端点处理器
//
// 🏥 **健康检查**
// - /healthz: 完整健康报告（存储、调度积压）
// - /healthz/live: 存活检查（进程是否响应）
type HealthHandler struct {
	logger    *zap.Logger
	startTime time.Time
	version   string
	query     originif.Query
	store     storage.BadgerStore
}

// NewHealthHandler 创建健康检查处理器，store 为 nil 表示未启用持久化
func NewHealthHandler(logger *zap.Logger, version string, query originif.Query, store storage.BadgerStore) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		startTime: time.Now(),
		version:   version,
		query:     query,
		store:     store,
	}
}

// RegisterRoutes 注册健康检查路由
func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/healthz", h.GetHealth)
	r.GET("/healthz/live", h.GetLiveness)
}

// GetHealth 获取完整健康状态
//
// GET /healthz
func (h *HealthHandler) GetHealth(c *gin.Context) {
	components := map[string]interface{}{
		"storage": h.checkStorage(c),
		"scheduler": gin.H{
			"status":              "healthy",
			"now":                 h.query.Now(),
			"pending_local":       len(h.query.PendingEntries()),
			"pending_cross_chain": len(h.query.CrossChainEntries()),
		},
	}

	status, code := "healthy", http.StatusOK
	if st, _ := components["storage"].(gin.H)["status"].(string); st == "unhealthy" {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"version":    h.version,
		"uptime":     time.Since(h.startTime).Round(time.Second).String(),
		"timestamp":  time.Now().Format(time.RFC3339),
		"components": components,
	})
}

// GetLiveness 存活检查
//
// GET /healthz/live
func (h *HealthHandler) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (h *HealthHandler) checkStorage(c *gin.Context) gin.H {
	if h.store == nil {
		return gin.H{"status": "disabled"}
	}
	start := time.Now()
	if _, err := h.store.Get(c.Request.Context(), healthProbeKey); err != nil {
		h.logger.Warn("存储健康检查失败", zap.Error(err))
		return gin.H{"status": "unhealthy", "error": err.Error()}
	}
	return gin.H{"status": "healthy", "latency": time.Since(start).String()}
}
