package config

import (
	"github.com/weisyn/originverifier/internal/config/api"
	"github.com/weisyn/originverifier/internal/config/delivery"
	"github.com/weisyn/originverifier/internal/config/event"
	"github.com/weisyn/originverifier/internal/config/log"
	"github.com/weisyn/originverifier/internal/config/origin"
	"github.com/weisyn/originverifier/internal/config/storage/badger"
	"github.com/weisyn/originverifier/pkg/interfaces/config"
	"github.com/weisyn/originverifier/pkg/types"
	"github.com/weisyn/originverifier/pkg/utils"
)

const (
	defaultAppName = "originverifier"
	defaultDataDir = "./data"
)

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
}

// NewProvider 创建配置提供者
func NewProvider(appConfig *types.AppConfig) config.Provider {
	if appConfig == nil {
		appConfig = &types.AppConfig{}
	}
	return &Provider{
		appConfig: appConfig,
	}
}

// GetAppName 获取应用名称
func (p *Provider) GetAppName() string {
	if p.appConfig.AppName != nil && *p.appConfig.AppName != "" {
		return *p.appConfig.AppName
	}
	return defaultAppName
}

// GetDataDir 获取数据目录（绝对路径）
func (p *Provider) GetDataDir() string {
	if p.appConfig.DataDir != nil && *p.appConfig.DataDir != "" {
		return utils.ResolveDataPath(*p.appConfig.DataDir)
	}
	return utils.ResolveDataPath(defaultDataDir)
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *log.LogOptions {
	return log.New(p.appConfig.Log).GetOptions()
}

// GetEvent 获取事件配置
func (p *Provider) GetEvent() *event.EventOptions {
	return event.New(p.appConfig.Event).GetOptions()
}

// GetBadger 获取BadgerDB存储配置
//
// 未配置 storage.data_root 时落在 {data_dir}/badger
func (p *Provider) GetBadger() *badger.BadgerOptions {
	storage := p.appConfig.Storage
	if storage == nil {
		storage = &types.UserStorageConfig{}
	}
	if storage.DataRoot == nil {
		merged := *storage
		dataDir := p.GetDataDir()
		merged.DataRoot = &dataDir
		storage = &merged
	}
	return badger.New(storage).GetOptions()
}

// GetAPI 获取API服务配置
func (p *Provider) GetAPI() *api.APIOptions {
	return api.New(p.appConfig.API).GetOptions()
}

// GetOrigin 获取原产地验证核心配置
func (p *Provider) GetOrigin() *origin.OriginOptions {
	return origin.New(p.appConfig.Origin).GetOptions()
}

// GetDelivery 获取跨链投递配置
func (p *Provider) GetDelivery() *delivery.DeliveryOptions {
	return delivery.New(p.appConfig.Delivery).GetOptions()
}

// GetAppConfig 获取原始应用配置
func (p *Provider) GetAppConfig() *types.AppConfig {
	return p.appConfig
}
