// 基于asaskevich/EventBus的事件总线实现

package event

import (
	"fmt"
	"sync"

	evbus "github.com/asaskevich/EventBus"
	eventconfig "github.com/weisyn/originverifier/internal/config/event"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/event"
)

// EventBus 是基于asaskevich/EventBus的实现
//
// 在底层总线之上增加：
//   - 配置开关：未启用时订阅与发布均静默成功
//   - 订阅数上限：单事件订阅者超过 MaxSubscribers 时拒绝订阅
type EventBus struct {
	bus    evbus.Bus           // 底层事件总线
	config *eventconfig.Config // 配置

	mu          sync.Mutex
	subscribers map[event.EventType]int
}

// New 创建事件总线实例
// 所有事件总线实例必须通过此函数创建，确保配置被正确应用
func New(config *eventconfig.Config) event.EventBus {
	if config == nil {
		config = eventconfig.New(nil)
	}
	return &EventBus{
		bus:         evbus.New(),
		config:      config,
		subscribers: make(map[event.EventType]int),
	}
}

// reserveSlot 占用一个订阅名额
func (eb *EventBus) reserveSlot(eventType event.EventType) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	limit := eb.config.GetMaxSubscribers()
	if limit > 0 && eb.subscribers[eventType] >= limit {
		return fmt.Errorf("事件 %s 订阅者已达上限 %d", eventType, limit)
	}
	eb.subscribers[eventType]++
	return nil
}

func (eb *EventBus) releaseSlot(eventType event.EventType) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.subscribers[eventType] > 0 {
		eb.subscribers[eventType]--
	}
}

// Subscribe 实现订阅
func (eb *EventBus) Subscribe(eventType event.EventType, handler interface{}) error {
	if !eb.config.IsEnabled() {
		return nil // 如果事件系统未启用，静默成功
	}
	if err := eb.reserveSlot(eventType); err != nil {
		return err
	}
	if err := eb.bus.Subscribe(string(eventType), handler); err != nil {
		eb.releaseSlot(eventType)
		return err
	}
	return nil
}

// SubscribeAsync 实现异步订阅
func (eb *EventBus) SubscribeAsync(eventType event.EventType, handler interface{}, transactional bool) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	if err := eb.reserveSlot(eventType); err != nil {
		return err
	}
	if err := eb.bus.SubscribeAsync(string(eventType), handler, transactional); err != nil {
		eb.releaseSlot(eventType)
		return err
	}
	return nil
}

// Publish 实现发布
func (eb *EventBus) Publish(eventType event.EventType, args ...interface{}) {
	if !eb.config.IsEnabled() {
		return
	}
	eb.bus.Publish(string(eventType), args...)
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(eventType event.EventType, handler interface{}) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	if err := eb.bus.Unsubscribe(string(eventType), handler); err != nil {
		return err
	}
	eb.releaseSlot(eventType)
	return nil
}

// WaitAsync 等待异步处理完成
func (eb *EventBus) WaitAsync() {
	if !eb.config.IsEnabled() {
		return
	}
	eb.bus.WaitAsync()
}

// HasCallback 检查是否有回调函数
func (eb *EventBus) HasCallback(eventType event.EventType) bool {
	if !eb.config.IsEnabled() {
		return false
	}
	return eb.bus.HasCallback(string(eventType))
}
