package event

import (
	configtypes "github.com/weisyn/originverifier/pkg/types"
)

// EventOptions 事件系统配置选项
type EventOptions struct {
	Enabled        bool `json:"enabled"`         // 是否启用事件系统
	MaxSubscribers int  `json:"max_subscribers"` // 单事件最大订阅者数量，0 表示不限
}

// Config 事件配置实现
type Config struct {
	options *EventOptions
}

// New 创建事件配置实现
func New(userConfig interface{}) *Config {
	defaultOptions := createDefaultEventOptions()
	if userConfig != nil {
		applyUserEventConfig(defaultOptions, userConfig)
	}
	return &Config{
		options: defaultOptions,
	}
}

// NewFromOptions 从已解析的选项创建配置
func NewFromOptions(options *EventOptions) *Config {
	if options == nil {
		return New(nil)
	}
	return &Config{options: options}
}

// createDefaultEventOptions 创建默认事件配置
func createDefaultEventOptions() *EventOptions {
	return &EventOptions{
		Enabled:        defaultEnabled,
		MaxSubscribers: defaultMaxSubscribers,
	}
}

// applyUserEventConfig 应用用户事件配置
func applyUserEventConfig(options *EventOptions, userConfig interface{}) {
	if eventConfig, ok := userConfig.(*configtypes.UserEventConfig); ok && eventConfig != nil {
		if eventConfig.Enabled != nil {
			options.Enabled = *eventConfig.Enabled
		}
	}
}

// GetOptions 获取完整的事件配置选项
func (c *Config) GetOptions() *EventOptions {
	return c.options
}

// IsEnabled 是否启用事件系统
func (c *Config) IsEnabled() bool {
	return c.options.Enabled
}

// GetMaxSubscribers 获取最大订阅者数量
func (c *Config) GetMaxSubscribers() int {
	return c.options.MaxSubscribers
}
