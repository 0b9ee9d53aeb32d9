// Package testutil 提供原产地验证模块测试的辅助工具
//
// 🧪 **测试辅助工具包**
//
// 本包提供测试所需的 Mock 对象与测试数据，不依赖 origin 核心实现，避免循环依赖。
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/originverifier/pkg/types"
)

// ==================== Mock 日志 ====================

// MockLogger 空日志实现
type MockLogger struct{}

func (m *MockLogger) Debug(msg string)                          {}
func (m *MockLogger) Debugf(format string, args ...interface{}) {}
func (m *MockLogger) Info(msg string)                           {}
func (m *MockLogger) Infof(format string, args ...interface{})  {}
func (m *MockLogger) Warn(msg string)                           {}
func (m *MockLogger) Warnf(format string, args ...interface{})  {}
func (m *MockLogger) Error(msg string)                          {}
func (m *MockLogger) Errorf(format string, args ...interface{}) {}
func (m *MockLogger) Fatal(msg string)                          {}
func (m *MockLogger) Fatalf(format string, args ...interface{}) {}
func (m *MockLogger) With(args ...interface{}) log.Logger       { return m }
func (m *MockLogger) Sync() error                               { return nil }
func (m *MockLogger) GetZapLogger() *zap.Logger                 { return zap.NewNop() }

// ==================== Mock 事件总线 ====================

// PublishedEvent 记录的事件
type PublishedEvent struct {
	Type    event.EventType
	Payload interface{}
}

// MockEventBus 记录所有发布事件的事件总线
type MockEventBus struct {
	mu     sync.Mutex
	events []PublishedEvent
}

var _ event.EventBus = (*MockEventBus)(nil)

// NewMockEventBus 创建事件总线Mock
func NewMockEventBus() *MockEventBus {
	return &MockEventBus{}
}

func (m *MockEventBus) Subscribe(event.EventType, interface{}) error            { return nil }
func (m *MockEventBus) SubscribeAsync(event.EventType, interface{}, bool) error { return nil }
func (m *MockEventBus) Unsubscribe(event.EventType, interface{}) error          { return nil }
func (m *MockEventBus) WaitAsync()                                              {}
func (m *MockEventBus) HasCallback(event.EventType) bool                        { return false }

// Publish 记录事件
func (m *MockEventBus) Publish(eventType event.EventType, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var payload interface{}
	if len(args) > 0 {
		payload = args[0]
	}
	m.events = append(m.events, PublishedEvent{Type: eventType, Payload: payload})
}

// Events 返回全部已发布事件
func (m *MockEventBus) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishedEvent(nil), m.events...)
}

// EventsOf 返回指定类型的事件载荷
func (m *MockEventBus) EventsOf(eventType event.EventType) []interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []interface{}
	for _, e := range m.events {
		if e.Type == eventType {
			out = append(out, e.Payload)
		}
	}
	return out
}

// Count 指定类型事件数量
func (m *MockEventBus) Count(eventType event.EventType) int {
	return len(m.EventsOf(eventType))
}

// Reset 清空记录
func (m *MockEventBus) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

// ==================== Mock 投递通道 ====================

// SentMessage 记录的出站消息
type SentMessage struct {
	To      types.CounterpartyID
	Message *types.CrossChainMessage
}

// MockDelivery 可编排失败的投递通道
type MockDelivery struct {
	mu   sync.Mutex
	sent []SentMessage
	err  error
}

// NewMockDelivery 创建投递通道Mock
func NewMockDelivery() *MockDelivery {
	return &MockDelivery{}
}

// FailWith 之后的发送都返回 err；nil 恢复成功
func (m *MockDelivery) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Send 记录消息
func (m *MockDelivery) Send(_ context.Context, to types.CounterpartyID, msg *types.CrossChainMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, SentMessage{To: to, Message: msg})
	return nil
}

// Sent 返回已发送的消息
func (m *MockDelivery) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMessage(nil), m.sent...)
}

// ==================== Mock 存储 ====================

// MockBadgerStore 内存键值存储
type MockBadgerStore struct {
	mu      sync.RWMutex
	data    map[string][]byte
	failSet error
	failGet error
}

var _ storage.BadgerStore = (*MockBadgerStore)(nil)

// NewMockBadgerStore 创建存储Mock
func NewMockBadgerStore() *MockBadgerStore {
	return &MockBadgerStore{data: make(map[string][]byte)}
}

// FailWrites 之后的写事务都返回 err
func (m *MockBadgerStore) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSet = err
}

// FailReads 之后的读操作都返回 err
func (m *MockBadgerStore) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failGet = err
}

func (m *MockBadgerStore) Close() error { return nil }

func (m *MockBadgerStore) Get(_ context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	v, ok := m.data[string(key)]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MockBadgerStore) Set(_ context.Context, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	m.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *MockBadgerStore) Delete(_ context.Context, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, string(key))
	return nil
}

func (m *MockBadgerStore) PrefixScan(_ context.Context, prefix []byte) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	out := make(map[string][]byte)
	for k, v := range m.data {
		if strings.HasPrefix(k, string(prefix)) {
			out[k] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

// RunInTransaction 在暂存区执行，fn 成功后一次性提交
func (m *MockBadgerStore) RunInTransaction(_ context.Context, fn func(tx storage.BadgerTransaction) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	tx := &mockTx{base: m.data, writes: make(map[string][]byte), deletes: make(map[string]bool)}
	if err := fn(tx); err != nil {
		return err
	}
	for k := range tx.deletes {
		delete(m.data, k)
	}
	for k, v := range tx.writes {
		m.data[k] = v
	}
	return nil
}

// Keys 返回排序后的全部键
func (m *MockBadgerStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type mockTx struct {
	base    map[string][]byte
	writes  map[string][]byte
	deletes map[string]bool
}

func (t *mockTx) Get(key []byte) ([]byte, error) {
	k := string(key)
	if t.deletes[k] {
		return nil, nil
	}
	if v, ok := t.writes[k]; ok {
		return v, nil
	}
	return t.base[k], nil
}

func (t *mockTx) Set(key, value []byte) error {
	if key == nil {
		return fmt.Errorf("key 不能为空")
	}
	k := string(key)
	delete(t.deletes, k)
	t.writes[k] = append([]byte(nil), value...)
	return nil
}

func (t *mockTx) Delete(key []byte) error {
	k := string(key)
	delete(t.writes, k)
	t.deletes[k] = true
	return nil
}
