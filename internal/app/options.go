package app

import (
	"github.com/weisyn/originverifier/pkg/interfaces/config"
	"github.com/weisyn/originverifier/pkg/types"
)

// Option 应用程序选项函数类型
type Option func(*options)

// options 应用程序选项，实现 config.AppOptions
type options struct {
	// 配置文件路径（JSON/YAML）
	configFilePath string

	// 已加载的配置（优先级高于 configFilePath）
	appConfig *types.AppConfig

	// API支持开关（默认启用）
	enableAPI bool
}

var _ config.AppOptions = (*options)(nil)

// WithConfigFile 设置配置文件路径
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configFilePath = path
	}
}

// WithAppConfig 直接使用已加载的配置
func WithAppConfig(cfg *types.AppConfig) Option {
	return func(o *options) {
		o.appConfig = cfg
	}
}

// WithoutAPI 禁用API模块
func WithoutAPI() Option {
	return func(o *options) {
		o.enableAPI = false
	}
}

func newOptions(opts ...Option) *options {
	o := &options{enableAPI: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GetAppConfig 返回应用程序配置
func (o *options) GetAppConfig() *types.AppConfig {
	if o.appConfig == nil {
		return &types.AppConfig{}
	}
	return o.appConfig
}
