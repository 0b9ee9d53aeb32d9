package api

import "time"

// API服务默认配置值
const (
	// defaultHTTPEnabled 默认启用HTTP API
	defaultHTTPEnabled = true

	// defaultHTTPHost 默认仅监听本机
	defaultHTTPHost = "127.0.0.1"

	// defaultHTTPPort HTTP端口
	defaultHTTPPort = 8088

	// defaultHTTPReadTimeout 读取超时
	defaultHTTPReadTimeout = 15 * time.Second

	// defaultHTTPWriteTimeout 写入超时
	defaultHTTPWriteTimeout = 15 * time.Second

	// defaultShutdownTimeout 优雅关闭超时
	defaultShutdownTimeout = 5 * time.Second

	// defaultWriteRPS 写接口每秒令牌数
	defaultWriteRPS = 20.0

	// defaultWriteBurst 写接口突发上限
	defaultWriteBurst = 40

	// defaultMaxRequestSize 最大请求大小设为1MB
	defaultMaxRequestSize = 1 << 20
)
