package clock

import (
	"github.com/prometheus/client_golang/prometheus"
	infraClock "github.com/weisyn/originverifier/pkg/interfaces/infrastructure/clock"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
	"go.uber.org/fx"
)

// ModuleInput 时钟模块输入依赖
type ModuleInput struct {
	fx.In

	Logger log.Logger `optional:"true"`
}

// ModuleOutput 时钟模块输出
type ModuleOutput struct {
	fx.Out

	Clock        infraClock.TickClock
	LogicalClock *LogicalClock
}

// Module 返回时钟模块
func Module() fx.Option {
	return fx.Module("clock",
		fx.Provide(func(input ModuleInput) ModuleOutput {
			c := NewLogicalClock(0)
			if err := RegisterClockMetrics(prometheus.DefaultRegisterer, c); err != nil && input.Logger != nil {
				input.Logger.Warnf("注册时钟指标失败: %v", err)
			}
			return ModuleOutput{Clock: c, LogicalClock: c}
		}),
	)
}
