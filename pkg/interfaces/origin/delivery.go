package origin

import (
	"context"

	"github.com/weisyn/originverifier/pkg/types"
)

// DeliveryChannel 跨链消息投递通道
type DeliveryChannel interface {
	// Send 向对端发送消息，失败时返回错误（调用方映射为 ErrCrossChainError）
	Send(ctx context.Context, to types.CounterpartyID, msg *types.CrossChainMessage) error
}

// InboundHandler 入站消息回调
type InboundHandler func(ctx context.Context, from types.CounterpartyID, msg *types.CrossChainMessage)

// InboundSource 入站消息来源，由宿主驱动回调
type InboundSource interface {
	// Listen 阻塞接收入站消息直到 ctx 取消
	Listen(ctx context.Context, handler InboundHandler) error
}

// Transport 同时具备收发能力的通道
type Transport interface {
	DeliveryChannel
	InboundSource
	Close() error
}
