// Package storage 提供存储管理功能
package storage

import (
	"context"
	"fmt"

	badgerconfig "github.com/weisyn/originverifier/internal/config/storage/badger"
	infralog "github.com/weisyn/originverifier/internal/core/infrastructure/log"
	"github.com/weisyn/originverifier/internal/core/infrastructure/storage/badger"
	"github.com/weisyn/originverifier/pkg/interfaces/config"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/weisyn/originverifier/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// ModuleParams 定义存储模块的依赖参数
type ModuleParams struct {
	fx.In

	Provider  config.Provider // 配置提供者
	Logger    log.Logger      `optional:"true"`
	Lifecycle fx.Lifecycle
}

// ModuleOutput 定义存储模块的输出结构
type ModuleOutput struct {
	fx.Out

	// BadgerStore 状态镜像存储；配置 storage.disabled 时为 nil
	BadgerStore storageInterface.BadgerStore
}

// Module 返回存储模块
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 打开 BadgerDB 并注册关闭钩子
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger := infralog.NewModuleLogger(params.Logger, "storage")

	cfg := badgerconfig.NewFromOptions(params.Provider.GetBadger())
	if cfg.IsDisabled() {
		logger.Warn("持久化镜像已关闭，重启后状态不会恢复")
		return ModuleOutput{}, nil
	}

	store, err := badger.New(cfg, logger)
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("初始化BadgerDB存储失败: %w", err)
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("正在关闭存储服务...")
			return store.Close()
		},
	})

	return ModuleOutput{BadgerStore: store}, nil
}
