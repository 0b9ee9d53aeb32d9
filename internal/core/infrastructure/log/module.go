package log

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	logconfig "github.com/weisyn/originverifier/internal/config/log"
	"github.com/weisyn/originverifier/pkg/interfaces/config"
	logInterface "github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
)

// ModuleParams 日志模块依赖
type ModuleParams struct {
	fx.In

	Provider  config.Provider
	Lifecycle fx.Lifecycle
}

// ModuleOutput 日志模块输出
type ModuleOutput struct {
	fx.Out

	Logger    logInterface.Logger
	ZapLogger *zap.Logger // 供 gin 中间件等需要 zap 字段的组件使用
}

// Module 返回日志模块
func Module() fx.Option {
	return fx.Module("log",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 按配置创建日志记录器，停止时刷新缓冲
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger, err := New(logconfig.NewFromOptions(params.Provider.GetLog()))
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("创建日志记录器失败: %w", err)
	}

	params.Lifecycle.Append(fx.StopHook(func() {
		// stdout 在部分平台上 Sync 返回 EINVAL
		_ = logger.Sync()
	}))

	return ModuleOutput{
		Logger:    logger,
		ZapLogger: logger.GetZapLogger(),
	}, nil
}

// NewModuleLogger 创建带 module 字段的 logger；baseLogger 为 nil 时返回空实现
func NewModuleLogger(baseLogger logInterface.Logger, module string) logInterface.Logger {
	if baseLogger == nil {
		return logInterface.Nop()
	}
	return baseLogger.With("module", module)
}
