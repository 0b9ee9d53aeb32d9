package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/weisyn/originverifier/internal/api/http/handlers"
	"github.com/weisyn/originverifier/internal/api/http/middleware"
	"github.com/weisyn/originverifier/internal/api/websocket"
	"github.com/weisyn/originverifier/internal/app/version"
	apiconfig "github.com/weisyn/originverifier/internal/config/api"
	"github.com/weisyn/originverifier/pkg/interfaces/config"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/storage"
	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
)

// ServerInput HTTP服务器依赖
type ServerInput struct {
	fx.In

	Lifecycle   fx.Lifecycle
	Provider    config.Provider
	Logger      log.Logger
	Service     originif.Service
	BadgerStore storage.BadgerStore `optional:"true"`
	EventBus    event.EventBus      `optional:"true"`
}

// Server HTTP服务器
// 负责路由装配、服务启动和停止
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	events     *websocket.SubscriptionManager
	options    apiconfig.HTTPConfig
	logger     log.Logger
	addr       string
}

// NewServer 创建HTTP服务器并注册生命周期钩子；配置禁用HTTP时返回 nil
func NewServer(input ServerInput) *Server {
	options := input.Provider.GetAPI().HTTP
	if !options.Enabled {
		input.Logger.Info("HTTP API在配置中被禁用")
		return nil
	}

	server := newServer(options, input.Logger, input.Service, input.BadgerStore, input.EventBus)
	input.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Stop(ctx)
		},
	})
	return server
}

func newServer(options apiconfig.HTTPConfig, logger log.Logger, service originif.Service, store storage.BadgerStore, bus event.EventBus) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	zl := logger.GetZapLogger()
	if zl == nil {
		zl = zap.NewNop()
	}
	router.Use(
		gin.Recovery(),
		middleware.NewRequestID().Middleware(),
		middleware.NewLogger(logger).Middleware(),
		middleware.Metrics(),
		middleware.NewWriteRateLimit(zl, options.WriteRequestsPerSecond, options.WriteBurst).Middleware(),
	)
	if options.MaxRequestSize > 0 {
		router.Use(func(c *gin.Context) {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, options.MaxRequestSize)
			c.Next()
		})
	}

	s := &Server{
		router:  router,
		options: options,
		logger:  logger,
		addr:    net.JoinHostPort(options.Host, fmt.Sprintf("%d", options.Port)),
		events:  websocket.NewSubscriptionManager(zl.Named("events"), bus),
	}
	s.setupRoutes(service, store, zl)
	return s
}

// setupRoutes 设置HTTP路由
func (s *Server) setupRoutes(service originif.Service, store storage.BadgerStore, zl *zap.Logger) {
	v1 := s.router.Group("/v1")
	handlers.NewOriginHandlers(service, zl).RegisterRoutes(v1)
	websocket.NewServer(zl.Named("events"), s.events).RegisterRoutes(v1)
	handlers.NewHealthHandler(zl, version.GetVersion(), service, store).RegisterRoutes(s.router)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.logger.Debugf("HTTP路由注册完成: routes=%d", len(s.router.Routes()))
}

// Handler 返回路由处理器（测试与嵌入使用）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start 启动HTTP服务器
func (s *Server) Start() error {
	if err := s.events.Start(); err != nil {
		return err
	}
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("监听 %s 失败: %w", s.addr, err)
	}
	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.options.ReadTimeout,
		WriteTimeout: s.options.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("❌ HTTP服务器运行失败: %v", err)
		}
	}()

	s.logger.Infof("✅ HTTP服务器启动成功，监听地址: %s", listener.Addr())
	return nil
}

// Stop 优雅关闭HTTP服务器
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	// 事件流连接已被劫持，Shutdown 不会关闭它们
	s.events.Stop()
	timeout := s.options.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	stopCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(stopCtx); err != nil {
		s.logger.Errorf("HTTP服务器关闭出错: %v", err)
		return err
	}
	s.logger.Info("HTTP服务器已关闭")
	return nil
}
