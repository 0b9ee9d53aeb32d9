// Package config 提供应用配置管理功能
package config

import (
	"github.com/weisyn/originverifier/internal/config/origin"
	"github.com/weisyn/originverifier/pkg/interfaces/config"
	"github.com/weisyn/originverifier/pkg/types"
	"go.uber.org/fx"
)

// ConfigParams 定义配置模块的依赖参数
type ConfigParams struct {
	fx.In

	// 应用配置选项
	AppOptions config.AppOptions `optional:"true"`
}

// ConfigOutput 定义配置模块的输出结构
type ConfigOutput struct {
	fx.Out

	// 配置提供者
	Provider config.Provider
}

// Module 返回配置模块
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			ProvideConfigServices,
			func(provider config.Provider) *origin.OriginOptions {
				return provider.GetOrigin()
			},
		),
	)
}

// ProvideConfigServices 提供配置服务
// 启动前校验配置，错误配置直接使应用启动失败
func ProvideConfigServices(params ConfigParams) (ConfigOutput, error) {
	var appConfig *types.AppConfig
	if params.AppOptions != nil {
		appConfig = params.AppOptions.GetAppConfig()
	}

	provider := NewProvider(appConfig)
	if err := ValidateConfig(provider); err != nil {
		return ConfigOutput{}, err
	}

	return ConfigOutput{
		Provider: provider,
	}, nil
}

// appOptions AppOptions 的简单实现
type appOptions struct {
	cfg *types.AppConfig
}

func (a *appOptions) GetAppConfig() *types.AppConfig { return a.cfg }

// NewAppOptions 包装已加载的应用配置
func NewAppOptions(cfg *types.AppConfig) config.AppOptions {
	return &appOptions{cfg: cfg}
}
