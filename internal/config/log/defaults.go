package log

// 日志配置默认值
const (
	defaultLevel     = "info"
	defaultToConsole = true
	defaultFormat    = FormatConsole

	// 轮转：单文件 100MB，保留 10 个、30 天，压缩历史文件
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 10
	defaultMaxAgeDays = 30
	defaultCompress   = true
)

// 控制台输出编码
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)
