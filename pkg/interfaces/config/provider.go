// Package config provides configuration provider interfaces.
package config

import (
	apiconfig "github.com/weisyn/originverifier/internal/config/api"
	deliveryconfig "github.com/weisyn/originverifier/internal/config/delivery"
	eventconfig "github.com/weisyn/originverifier/internal/config/event"
	logconfig "github.com/weisyn/originverifier/internal/config/log"
	originconfig "github.com/weisyn/originverifier/internal/config/origin"
	badgerconfig "github.com/weisyn/originverifier/internal/config/storage/badger"
	"github.com/weisyn/originverifier/pkg/types"
)

// Provider 配置提供者接口
//
// 每个 GetXxx 返回已合并默认值与用户配置的完整选项，调用方不再处理 nil 字段。
type Provider interface {
	// GetAppName 获取应用名称
	GetAppName() string

	// GetDataDir 获取数据目录
	GetDataDir() string

	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetEvent 获取事件配置
	GetEvent() *eventconfig.EventOptions

	// GetBadger 获取BadgerDB存储配置
	GetBadger() *badgerconfig.BadgerOptions

	// GetAPI 获取API服务配置
	GetAPI() *apiconfig.APIOptions

	// GetOrigin 获取原产地验证核心配置
	GetOrigin() *originconfig.OriginOptions

	// GetDelivery 获取跨链投递配置
	GetDelivery() *deliveryconfig.DeliveryOptions

	// GetAppConfig 获取原始应用配置
	GetAppConfig() *types.AppConfig
}
