// Package websocket 提供领域事件的 WebSocket 推送流
package websocket

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/weisyn/originverifier/internal/api/http/handlers"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Server WebSocket事件流服务
type Server struct {
	logger   *zap.Logger
	manager  *SubscriptionManager
	upgrader websocket.Upgrader
}

// NewServer 创建WebSocket服务
func NewServer(logger *zap.Logger, manager *SubscriptionManager) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		logger:  logger,
		manager: manager,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// RegisterRoutes 注册事件流路由
func (s *Server) RegisterRoutes(r gin.IRouter) {
	r.GET("/events", s.HandleEvents)
}

// HandleEvents 升级连接并推送订阅的事件
//
// 查询参数 types 为逗号分隔的事件类型，缺省订阅全部。
func (s *Server) HandleEvents(c *gin.Context) {
	eventTypes, err := ParseEventTypes(c.Query("types"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, handlers.StandardAPIResponse{
			Error: &handlers.APIError{Code: handlers.ErrorCodeInvalidParameter, Message: err.Error()},
		})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("WebSocket升级失败", zap.Error(err))
		return
	}
	sub := s.manager.Subscribe(eventTypes)
	remote := conn.RemoteAddr().String()
	s.logger.Info("事件流连接建立", zap.String("remote_addr", remote), zap.String("subscription", sub.ID))

	closed := make(chan struct{})
	go s.readLoop(conn, closed)
	s.writeLoop(conn, sub, closed)

	s.manager.Unsubscribe(sub.ID)
	if err := conn.Close(); err != nil {
		s.logger.Debug("关闭WebSocket连接失败", zap.Error(err))
	}
	s.logger.Info("事件流连接关闭", zap.String("remote_addr", remote), zap.String("subscription", sub.ID))
}

// readLoop 只处理控制帧，客户端断开时关闭 closed
func (s *Server) readLoop(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("事件流连接异常关闭", zap.Error(err))
			}
			return
		}
	}
}

func (s *Server) writeLoop(conn *websocket.Conn, sub *Subscription, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case n, ok := <-sub.Notifications():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := conn.WriteJSON(n); err != nil {
				s.logger.Warn("推送事件失败", zap.String("subscription", sub.ID), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
