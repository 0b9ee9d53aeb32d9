package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/weisyn/originverifier/internal/api"
	config "github.com/weisyn/originverifier/internal/config"
	"github.com/weisyn/originverifier/internal/core/infrastructure/clock"
	"github.com/weisyn/originverifier/internal/core/infrastructure/event"
	log "github.com/weisyn/originverifier/internal/core/infrastructure/log"
	"github.com/weisyn/originverifier/internal/core/infrastructure/storage"
	"github.com/weisyn/originverifier/internal/core/origin"
	configif "github.com/weisyn/originverifier/pkg/interfaces/config"
)

// Framework layers
const (
	// 基础设施层
	LayerInfrastructure = "infrastructure"
	// 通信与数据层
	LayerCommunication = "communication"
	// 业务逻辑层
	LayerBusiness = "business"
	// 应用层
	LayerApplication = "application"
)

// 启停超时
const (
	startTimeout = 30 * time.Second
	stopTimeout  = 30 * time.Second
)

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts  *options
	fxApp *fx.App
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{opts: opts}
}

// SetupInfrastructureLayer 设置基础设施层模块
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		// 供 config 模块读取的用户配置
		fx.Provide(func() configif.AppOptions { return b.opts }),
		config.Module(), // 1. 配置
		log.Module(),    // 2. 日志(依赖配置)
		clock.Module(),  // 3. 逻辑时钟(依赖配置和日志)
	}
}

// SetupCommunicationLayer 设置通信与数据层模块
func (b *Bootstrap) SetupCommunicationLayer() []fx.Option {
	return []fx.Option{
		event.Module(),   // 事件总线
		storage.Module(), // Badger 状态镜像
	}
}

// SetupBusinessLayer 设置业务逻辑层模块
func (b *Bootstrap) SetupBusinessLayer() []fx.Option {
	// 声明登记、费用结算、调度、跨链关联都在 origin 模块内
	return []fx.Option{
		origin.Module(),
	}
}

// SetupApplicationLayer 设置应用层模块
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	if !b.opts.enableAPI {
		return nil
	}
	return []fx.Option{
		api.Module(),
	}
}

// SetupModules 按依赖顺序组装所有模块
func (b *Bootstrap) SetupModules() []fx.Option {
	var modules []fx.Option
	modules = append(modules, b.SetupInfrastructureLayer()...)
	modules = append(modules, b.SetupCommunicationLayer()...)
	modules = append(modules, b.SetupBusinessLayer()...)
	modules = append(modules, b.SetupApplicationLayer()...)
	return modules
}

// Options 返回完整的 fx 选项（不含 NopLogger 以外的全局设置）
func (b *Bootstrap) Options() fx.Option {
	return fx.Options(
		fx.Options(b.SetupModules()...),
		// 禁用fx内部日志
		fx.NopLogger,
	)
}

// CreateFxApp 创建fx应用
func (b *Bootstrap) CreateFxApp() error {
	b.fxApp = fx.New(b.Options())
	if err := b.fxApp.Err(); err != nil {
		return fmt.Errorf("依赖装配失败: %w", err)
	}
	return nil
}

// StartApp 启动应用程序
func (b *Bootstrap) StartApp(ctx context.Context) error {
	if err := b.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("启动应用失败: %w", err)
	}
	return nil
}

// StopApp 停止应用程序
func (b *Bootstrap) StopApp(ctx context.Context) error {
	if err := b.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("停止应用失败: %w", err)
	}
	return nil
}

// BootstrapApp 执行完整的引导过程并返回应用实例
func BootstrapApp(opts *options) (App, error) {
	bootstrap := NewBootstrap(opts)
	if err := bootstrap.CreateFxApp(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	if err := bootstrap.StartApp(ctx); err != nil {
		return nil, err
	}

	return &internalApp{bootstrap: bootstrap}, nil
}
