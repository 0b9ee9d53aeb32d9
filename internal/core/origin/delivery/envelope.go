// Package delivery 提供跨链消息投递通道实现
//
// 📡 **传输实现**
// - memory：进程内 Hub，多条链在同一进程中互相投递（测试与演示）
// - redis：基于 Redis 发布订阅，频道名为 {prefix}{counterparty}
//
// 所有出站消息在发送前补齐关联ID（uuid），入站消息按信封中的发送方回调处理函数。
package delivery

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/weisyn/originverifier/pkg/types"
)

// envelope 线上信封，记录发送方
type envelope struct {
	From    types.CounterpartyID     `json:"from"`
	Message *types.CrossChainMessage `json:"message"`
}

// stamp 返回带关联ID的消息副本，不修改调用方的消息
func stamp(msg *types.CrossChainMessage) *types.CrossChainMessage {
	cp := *msg
	if cp.CorrelationID == "" {
		cp.CorrelationID = uuid.NewString()
	}
	return &cp
}

func encodeEnvelope(from types.CounterpartyID, msg *types.CrossChainMessage) ([]byte, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(envelope{From: from, Message: stamp(msg)})
	if err != nil {
		return nil, fmt.Errorf("编码跨链信封失败: %w", err)
	}
	return data, nil
}

func decodeEnvelope(data []byte) (types.CounterpartyID, *types.CrossChainMessage, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return 0, nil, fmt.Errorf("解码跨链信封失败: %w", err)
	}
	if err := env.Message.Validate(); err != nil {
		return 0, nil, err
	}
	return env.From, env.Message, nil
}
