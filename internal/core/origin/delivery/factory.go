package delivery

import (
	"fmt"

	deliveryconfig "github.com/weisyn/originverifier/internal/config/delivery"
	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/originverifier/pkg/types"
)

// New 按配置创建传输
//
// memory 传输使用独立的 Hub，仅本地端点可达，适合单节点运行。
func New(cfg *deliveryconfig.Config, logger log.Logger) (originif.Transport, error) {
	if cfg == nil {
		cfg = deliveryconfig.New(nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := cfg.GetOptions()
	switch opts.Transport {
	case deliveryconfig.TransportMemory:
		return NewHub(logger).Endpoint(types.CounterpartyID(opts.LocalID)), nil
	case deliveryconfig.TransportRedis:
		return NewRedisChannel(opts, logger)
	default:
		return nil, fmt.Errorf("未知投递传输: %q", opts.Transport)
	}
}
