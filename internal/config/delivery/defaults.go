package delivery

// 传输类型
const (
	TransportMemory = "memory"
	TransportRedis  = "redis"
)

const (
	// defaultTransport 默认使用进程内回环
	defaultTransport = TransportMemory

	// defaultLocalID 本链默认对端标识
	defaultLocalID = 100

	defaultRedisAddr     = "127.0.0.1:6379"
	defaultRedisDB       = 0
	defaultChannelPrefix = "origin:xcm:"
)
