package api

import (
	"time"

	"github.com/weisyn/originverifier/pkg/types"
)

// APIOptions API服务配置选项
type APIOptions struct {
	// HTTP API配置
	HTTP HTTPConfig `json:"http"`
}

// HTTPConfig HTTP API配置
type HTTPConfig struct {
	// 基础配置
	Enabled bool   `json:"enabled"` // 是否启用HTTP服务
	Host    string `json:"host"`    // 监听地址
	Port    int    `json:"port"`    // 监听端口

	// 超时配置
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`

	// 限流和安全
	WriteRequestsPerSecond float64 `json:"write_requests_per_second"` // 写接口每秒令牌数，<=0 表示不限流
	WriteBurst             int     `json:"write_burst"`               // 写接口突发上限
	MaxRequestSize         int64   `json:"max_request_size"`          // 最大请求大小(字节)
}

// Config API配置实现
type Config struct {
	options *APIOptions
}

// New 创建API配置实现
func New(userConfig interface{}) *Config {
	defaultOptions := createDefaultAPIOptions()

	if userConfig != nil {
		applyUserAPIConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// createDefaultAPIOptions 创建默认API配置
func createDefaultAPIOptions() *APIOptions {
	return &APIOptions{
		HTTP: HTTPConfig{
			Enabled:                defaultHTTPEnabled,
			Host:                   defaultHTTPHost,
			Port:                   defaultHTTPPort,
			ReadTimeout:            defaultHTTPReadTimeout,
			WriteTimeout:           defaultHTTPWriteTimeout,
			ShutdownTimeout:        defaultShutdownTimeout,
			WriteRequestsPerSecond: defaultWriteRPS,
			WriteBurst:             defaultWriteBurst,
			MaxRequestSize:         defaultMaxRequestSize,
		},
	}
}

// applyUserAPIConfig 应用用户API配置
func applyUserAPIConfig(options *APIOptions, userConfig interface{}) {
	apiConfig, ok := userConfig.(*types.UserAPIConfig)
	if !ok || apiConfig == nil {
		return
	}
	if apiConfig.Enabled != nil {
		options.HTTP.Enabled = *apiConfig.Enabled
	}
	if apiConfig.Host != nil {
		options.HTTP.Host = *apiConfig.Host
	}
	if apiConfig.Port != nil {
		options.HTTP.Port = *apiConfig.Port
	}
	if apiConfig.WriteRequestsPerSecond != nil {
		options.HTTP.WriteRequestsPerSecond = *apiConfig.WriteRequestsPerSecond
	}
}

// GetOptions 获取完整的API配置选项
func (c *Config) GetOptions() *APIOptions {
	return c.options
}

// IsHTTPEnabled 是否启用HTTP
func (c *Config) IsHTTPEnabled() bool {
	return c.options.HTTP.Enabled
}

// GetHTTPHost 获取监听地址
func (c *Config) GetHTTPHost() string {
	return c.options.HTTP.Host
}

// GetHTTPPort 获取监听端口
func (c *Config) GetHTTPPort() int {
	return c.options.HTTP.Port
}
