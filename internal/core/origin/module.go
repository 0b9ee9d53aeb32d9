// Package origin 提供原产地验证模块的 fx 配置
//
// 🎯 **模块职责**：
// - 组装验证器、投递通道与核心服务
// - 启动时从状态镜像恢复，并把逻辑时钟快进到恢复的刻度
// - 管理 tick 驱动与入站消息监听的生命周期
package origin

import (
	"context"

	"go.uber.org/fx"

	deliveryconfig "github.com/weisyn/originverifier/internal/config/delivery"
	"github.com/weisyn/originverifier/internal/core/infrastructure/clock"
	infralog "github.com/weisyn/originverifier/internal/core/infrastructure/log"
	"github.com/weisyn/originverifier/internal/core/origin/delivery"
	"github.com/weisyn/originverifier/internal/core/origin/verifier"
	"github.com/weisyn/originverifier/pkg/interfaces/config"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/storage"
	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
)

// ============================================================================
//                              模块输入依赖
// ============================================================================

// ModuleInput 定义 origin 模块的输入依赖
type ModuleInput struct {
	fx.In

	// ========== 配置与基础设施 ==========
	Provider  config.Provider
	Logger    log.Logger `optional:"true"`
	Lifecycle fx.Lifecycle

	// ========== 存储与事件 ==========
	BadgerStore storage.BadgerStore `optional:"true"` // 为空时不做持久化镜像
	EventBus    event.EventBus      `optional:"true"`

	// ========== 时钟 ==========
	Clock *clock.LogicalClock
}

// ============================================================================
//                              模块输出服务
// ============================================================================

// ModuleOutput 定义 origin 模块的输出服务
type ModuleOutput struct {
	fx.Out

	Service    originif.Service
	Core       *Service
	TickDriver *TickDriver
	Transport  originif.Transport
}

// ProvideServices 创建 origin 模块的全部服务
func ProvideServices(input ModuleInput) (ModuleOutput, error) {
	originLogger := infralog.NewModuleLogger(input.Logger, "origin")

	opts := input.Provider.GetOrigin()

	claimVerifier, closeVerifier, err := verifier.Build(opts, originLogger)
	if err != nil {
		return ModuleOutput{}, err
	}

	transport, err := delivery.New(deliveryconfig.NewFromOptions(input.Provider.GetDelivery()), originLogger)
	if err != nil {
		return ModuleOutput{}, err
	}

	svc, err := New(opts, Deps{
		Verifier: claimVerifier,
		Delivery: transport,
		EventBus: input.EventBus,
		Store:    input.BadgerStore,
		Logger:   originLogger,
	})
	if err != nil {
		return ModuleOutput{}, err
	}

	driver := NewTickDriver(svc, input.Clock, opts.TickInterval, originLogger)
	listenCtx, stopListening := context.WithCancel(context.Background())

	input.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := svc.Restore(ctx); err != nil {
				return err
			}
			input.Clock.FastForward(svc.Now())
			go func() {
				if err := transport.Listen(listenCtx, svc.HandleMessage); err != nil && listenCtx.Err() == nil {
					originLogger.Errorf("跨链入站监听退出: %v", err)
				}
			}()
			driver.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopListening()
			if err := driver.Stop(ctx); err != nil {
				return err
			}
			if err := transport.Close(); err != nil {
				originLogger.Warnf("关闭投递通道失败: %v", err)
			}
			if closeVerifier != nil {
				return closeVerifier()
			}
			return nil
		},
	})

	return ModuleOutput{
		Service:    svc,
		Core:       svc,
		TickDriver: driver,
		Transport:  transport,
	}, nil
}

// Module 返回 origin 模块
func Module() fx.Option {
	return fx.Module("origin",
		fx.Provide(ProvideServices),
	)
}
