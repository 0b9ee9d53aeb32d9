// Package event 提供事件总线接口定义
//
// 🎯 **职责**：领域事件的发布与订阅，发布方与观察者解耦。
// 事件载荷为 pkg/types 中的 *XxxEvent 结构，处理函数签名需与载荷类型一致。
package event

import "github.com/weisyn/originverifier/pkg/types"

// EventType 事件类型
type EventType = types.EventType

// EventBus 事件总线接口
type EventBus interface {
	// Subscribe 订阅事件
	Subscribe(eventType EventType, handler interface{}) error
	// SubscribeAsync 异步订阅事件
	SubscribeAsync(eventType EventType, handler interface{}, transactional bool) error
	// Publish 发布事件
	Publish(eventType EventType, args ...interface{})
	// Unsubscribe 取消订阅
	Unsubscribe(eventType EventType, handler interface{}) error
	// WaitAsync 等待所有异步处理完成
	WaitAsync()
	// HasCallback 检查是否有回调函数
	HasCallback(eventType EventType) bool
}
