package log

import (
	"strings"

	"go.uber.org/zap/zapcore"

	configtypes "github.com/weisyn/originverifier/pkg/types"
)

// LogOptions 日志配置选项
type LogOptions struct {
	Level     string `json:"level"`
	ToConsole bool   `json:"to_console"`
	Format    string `json:"format"`    // 控制台编码：console | json
	FilePath  string `json:"file_path"` // 为空时不写文件；stdout/stderr 表示对应流

	MaxSizeMB  int  `json:"max_size_mb"`
	MaxBackups int  `json:"max_backups"`
	MaxAgeDays int  `json:"max_age_days"`
	Compress   bool `json:"compress"`
}

// Config 日志配置
type Config struct {
	options *LogOptions
}

// New 以默认值为底，叠加用户配置
func New(userConfig *configtypes.UserLogConfig) *Config {
	opts := &LogOptions{
		Level:      defaultLevel,
		ToConsole:  defaultToConsole,
		Format:     defaultFormat,
		MaxSizeMB:  defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
		MaxAgeDays: defaultMaxAgeDays,
		Compress:   defaultCompress,
	}
	if userConfig != nil {
		if userConfig.Level != nil {
			opts.Level = strings.ToLower(*userConfig.Level)
		}
		if userConfig.FilePath != nil {
			opts.FilePath = *userConfig.FilePath
			// 写文件时默认关闭控制台，可由 to_console 显式打开
			opts.ToConsole = false
		}
		if userConfig.ToConsole != nil {
			opts.ToConsole = *userConfig.ToConsole
		}
		if userConfig.Format != nil {
			opts.Format = strings.ToLower(*userConfig.Format)
		}
		if userConfig.MaxSizeMB != nil && *userConfig.MaxSizeMB > 0 {
			opts.MaxSizeMB = *userConfig.MaxSizeMB
		}
	}
	return &Config{options: opts}
}

// NewFromOptions 从已解析的选项创建配置
func NewFromOptions(options *LogOptions) *Config {
	if options == nil {
		return New(nil)
	}
	return &Config{options: options}
}

// GetOptions 获取完整的日志配置选项
func (c *Config) GetOptions() *LogOptions {
	return c.options
}

// ZapLevel 解析日志级别，未知值按 info 处理
func (c *Config) ZapLevel() zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.options.Level)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// FileEncoder 文件输出固定使用 JSON
func (c *Config) FileEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(encoderConfig(zapcore.ISO8601TimeEncoder, zapcore.LowercaseLevelEncoder))
}

// ConsoleEncoder 控制台编码器，format=json 时与文件一致
func (c *Config) ConsoleEncoder() zapcore.Encoder {
	if c.options.Format == FormatJSON {
		return c.FileEncoder()
	}
	return zapcore.NewConsoleEncoder(encoderConfig(zapcore.TimeEncoderOfLayout("15:04:05.000"), zapcore.CapitalColorLevelEncoder))
}

func encoderConfig(timeEnc zapcore.TimeEncoder, levelEnc zapcore.LevelEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     timeEnc,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    levelEnc,
	}
}
