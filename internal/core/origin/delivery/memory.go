package delivery

import (
	"context"
	"fmt"
	"sync"

	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/types"
)

const memoryInboxSize = 256

// Hub 进程内投递中枢
type Hub struct {
	mu        sync.RWMutex
	endpoints map[types.CounterpartyID]*MemoryChannel
	logger    log.Logger
}

// NewHub 创建投递中枢
func NewHub(logger log.Logger) *Hub {
	if logger == nil {
		logger = log.Nop()
	}
	return &Hub{endpoints: make(map[types.CounterpartyID]*MemoryChannel), logger: logger}
}

// Endpoint 返回（必要时创建）指定标识的端点
func (h *Hub) Endpoint(id types.CounterpartyID) *MemoryChannel {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ep, ok := h.endpoints[id]; ok {
		return ep
	}
	ep := &MemoryChannel{
		id:     id,
		hub:    h,
		inbox:  make(chan []byte, memoryInboxSize),
		done:   make(chan struct{}),
		logger: h.logger,
	}
	h.endpoints[id] = ep
	return ep
}

func (h *Hub) lookup(id types.CounterpartyID) (*MemoryChannel, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ep, ok := h.endpoints[id]
	return ep, ok
}

// MemoryChannel 进程内端点
type MemoryChannel struct {
	id     types.CounterpartyID
	hub    *Hub
	inbox  chan []byte
	logger log.Logger

	closeOnce sync.Once
	done      chan struct{}
}

var _ originif.Transport = (*MemoryChannel)(nil)

// ID 端点标识
func (m *MemoryChannel) ID() types.CounterpartyID {
	return m.id
}

// Send 投递到目标端点的收件箱
func (m *MemoryChannel) Send(ctx context.Context, to types.CounterpartyID, msg *types.CrossChainMessage) error {
	target, ok := m.hub.lookup(to)
	if !ok {
		return fmt.Errorf("对端不可达: %d", to)
	}
	data, err := encodeEnvelope(m.id, msg)
	if err != nil {
		return err
	}
	select {
	case <-target.done:
		return fmt.Errorf("对端已关闭: %d", to)
	default:
	}
	select {
	case target.inbox <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("对端收件箱已满: %d", to)
	}
}

// Listen 消费收件箱直到 ctx 取消或端点关闭
func (m *MemoryChannel) Listen(ctx context.Context, handler originif.InboundHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			return nil
		case data := <-m.inbox:
			from, msg, err := decodeEnvelope(data)
			if err != nil {
				m.logger.Warnf("丢弃无法解析的跨链消息: endpoint=%d err=%v", m.id, err)
				continue
			}
			handler(ctx, from, msg)
		}
	}
}

// Close 关闭端点
func (m *MemoryChannel) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	return nil
}
