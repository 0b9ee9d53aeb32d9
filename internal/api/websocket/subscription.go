package websocket

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weisyn/originverifier/pkg/constants/events"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/event"
)

// StreamedEvents 可订阅的领域事件
var StreamedEvents = []event.EventType{
	events.EventTypeClaimSubmitted,
	events.EventTypeClaimResolved,
	events.EventTypeClaimRevoked,
	events.EventTypeVerificationTimedOut,
	events.EventTypeProductOriginVerified,
}

// defaultBufferSize 单个订阅的待发送队列长度
const defaultBufferSize = 64

// Notification 推送给订阅者的事件帧
type Notification struct {
	Subscription string          `json:"subscription"`
	Type         event.EventType `json:"type"`
	Data         interface{}     `json:"data"`
}

// Subscription 订阅信息
type Subscription struct {
	ID      string
	types   map[event.EventType]struct{}
	out     chan Notification
	dropped atomic.Uint64
}

// Notifications 待发送的事件
func (s *Subscription) Notifications() <-chan Notification {
	return s.out
}

// Dropped 因队列已满丢弃的事件数
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// SubscriptionManager 订阅管理器
//
// 每种事件只向总线注册一个处理器，再按订阅的事件类型扇出。
// 处理器在发布方的协程里运行，只做非阻塞投递，慢订阅者丢弃事件而不阻塞核心。
type SubscriptionManager struct {
	logger   *zap.Logger
	eventBus event.EventBus

	mu            sync.RWMutex
	subscriptions map[string]*Subscription
	handlers      map[event.EventType]func(interface{})
	bufferSize    int
}

// NewSubscriptionManager 创建订阅管理器
func NewSubscriptionManager(logger *zap.Logger, eventBus event.EventBus) *SubscriptionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionManager{
		logger:        logger,
		eventBus:      eventBus,
		subscriptions: make(map[string]*Subscription),
		handlers:      make(map[event.EventType]func(interface{})),
		bufferSize:    defaultBufferSize,
	}
}

// Start 向事件总线注册处理器
func (m *SubscriptionManager) Start() error {
	if m.eventBus == nil {
		m.logger.Warn("未配置事件总线，事件流不可用")
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, eventType := range StreamedEvents {
		if _, ok := m.handlers[eventType]; ok {
			continue
		}
		eventType := eventType
		handler := func(payload interface{}) {
			m.dispatch(eventType, payload)
		}
		if err := m.eventBus.Subscribe(eventType, handler); err != nil {
			return fmt.Errorf("订阅事件 %s 失败: %w", eventType, err)
		}
		m.handlers[eventType] = handler
	}
	m.logger.Debug("事件流处理器已注册", zap.Int("event_types", len(m.handlers)))
	return nil
}

// Stop 注销处理器并关闭全部订阅
func (m *SubscriptionManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for eventType, handler := range m.handlers {
		if err := m.eventBus.Unsubscribe(eventType, handler); err != nil {
			m.logger.Warn("注销事件处理器失败", zap.String("eventType", string(eventType)), zap.Error(err))
		}
		delete(m.handlers, eventType)
	}
	for id, sub := range m.subscriptions {
		close(sub.out)
		delete(m.subscriptions, id)
	}
}

// Subscribe 创建订阅，eventTypes 为空时订阅全部事件
func (m *SubscriptionManager) Subscribe(eventTypes []event.EventType) *Subscription {
	if len(eventTypes) == 0 {
		eventTypes = StreamedEvents
	}
	sub := &Subscription{
		ID:    uuid.New().String(),
		types: make(map[event.EventType]struct{}, len(eventTypes)),
		out:   make(chan Notification, m.bufferSize),
	}
	for _, t := range eventTypes {
		sub.types[t] = struct{}{}
	}

	m.mu.Lock()
	m.subscriptions[sub.ID] = sub
	total := len(m.subscriptions)
	m.mu.Unlock()

	m.logger.Info("新建事件订阅", zap.String("id", sub.ID), zap.Int("event_types", len(sub.types)), zap.Int("subscriptions", total))
	return sub
}

// Unsubscribe 取消订阅，订阅不存在时静默成功
func (m *SubscriptionManager) Unsubscribe(id string) {
	m.mu.Lock()
	sub, ok := m.subscriptions[id]
	if ok {
		delete(m.subscriptions, id)
		close(sub.out)
	}
	m.mu.Unlock()

	if ok {
		m.logger.Info("事件订阅已取消", zap.String("id", id), zap.Uint64("dropped", sub.Dropped()))
	}
}

// Count 当前订阅数
func (m *SubscriptionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

func (m *SubscriptionManager) dispatch(eventType event.EventType, payload interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscriptions {
		if _, ok := sub.types[eventType]; !ok {
			continue
		}
		select {
		case sub.out <- Notification{Subscription: sub.ID, Type: eventType, Data: payload}:
		default:
			if sub.dropped.Add(1) == 1 {
				m.logger.Warn("订阅者处理过慢，开始丢弃事件", zap.String("id", sub.ID))
			}
		}
	}
}

// ParseEventTypes 解析逗号分隔的事件类型，空串表示全部
func ParseEventTypes(raw string) ([]event.EventType, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	known := make(map[event.EventType]struct{}, len(StreamedEvents))
	for _, t := range StreamedEvents {
		known[t] = struct{}{}
	}

	var out []event.EventType
	for _, part := range strings.Split(raw, ",") {
		t := event.EventType(strings.TrimSpace(part))
		if t == "" {
			continue
		}
		if _, ok := known[t]; !ok {
			return nil, fmt.Errorf("不支持订阅的事件类型: %s", t)
		}
		out = append(out, t)
	}
	return out, nil
}
