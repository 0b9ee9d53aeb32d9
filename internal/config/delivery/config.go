package delivery

import (
	"fmt"

	"github.com/weisyn/originverifier/pkg/types"
)

// DeliveryOptions 跨链投递配置选项
type DeliveryOptions struct {
	Transport     string `json:"transport"`      // memory | redis
	LocalID       uint32 `json:"local_id"`       // 本链对端标识
	RedisAddr     string `json:"redis_addr"`     // Redis 地址
	RedisPassword string `json:"redis_password"` // Redis 密码
	RedisDB       int    `json:"redis_db"`       // Redis 库编号
	ChannelPrefix string `json:"channel_prefix"` // 发布订阅频道前缀，频道名为 {prefix}{counterparty}
}

// Config 投递配置实现
type Config struct {
	options *DeliveryOptions
}

// New 创建投递配置实现
func New(userConfig interface{}) *Config {
	defaultOptions := &DeliveryOptions{
		Transport:     defaultTransport,
		LocalID:       defaultLocalID,
		RedisAddr:     defaultRedisAddr,
		RedisDB:       defaultRedisDB,
		ChannelPrefix: defaultChannelPrefix,
	}
	if cfg, ok := userConfig.(*types.UserDeliveryConfig); ok && cfg != nil {
		if cfg.Transport != nil {
			defaultOptions.Transport = *cfg.Transport
		}
		if cfg.LocalID != nil {
			defaultOptions.LocalID = *cfg.LocalID
		}
		if cfg.RedisAddr != nil {
			defaultOptions.RedisAddr = *cfg.RedisAddr
		}
		if cfg.RedisPassword != nil {
			defaultOptions.RedisPassword = *cfg.RedisPassword
		}
		if cfg.RedisDB != nil {
			defaultOptions.RedisDB = *cfg.RedisDB
		}
		if cfg.ChannelPrefix != nil {
			defaultOptions.ChannelPrefix = *cfg.ChannelPrefix
		}
	}
	return &Config{options: defaultOptions}
}

// NewFromOptions 从已解析的选项创建配置
func NewFromOptions(options *DeliveryOptions) *Config {
	if options == nil {
		return New(nil)
	}
	return &Config{options: options}
}

// GetOptions 获取完整配置选项
func (c *Config) GetOptions() *DeliveryOptions {
	return c.options
}

// Validate 校验传输类型
func (c *Config) Validate() error {
	switch c.options.Transport {
	case TransportMemory:
		return nil
	case TransportRedis:
		if c.options.RedisAddr == "" {
			return fmt.Errorf("redis 传输需要 redis_addr")
		}
		return nil
	default:
		return fmt.Errorf("未知投递传输: %q", c.options.Transport)
	}
}
