// Package log 基于 zap 的日志实现
//
// 📋 **输出**
//   - 控制台：console 或 json 编码，CLI 模式下关闭
//   - 文件：lumberjack 轮转，固定 JSON 编码
//   - 二者都未启用时退化为 stderr 的 warn 级别，错误不会静默丢失
package log

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	logconfig "github.com/weisyn/originverifier/internal/config/log"
	logInterface "github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
)

// CLIModeEnv 置为 true 时禁用控制台输出，避免污染命令行表格
const CLIModeEnv = "ORIGIN_CLI_MODE"

// Logger zap 实现的 log.Logger
type Logger struct {
	zapLogger *zap.Logger
	sugar     *zap.SugaredLogger
}

var _ logInterface.Logger = (*Logger)(nil)

// New 根据配置创建日志记录器
func New(config *logconfig.Config) (*Logger, error) {
	opts := config.GetOptions()
	level := zap.NewAtomicLevelAt(config.ZapLevel())
	cliMode := os.Getenv(CLIModeEnv) == "true"

	var cores []zapcore.Core
	switch opts.FilePath {
	case "stdout":
		cores = append(cores, zapcore.NewCore(config.ConsoleEncoder(), zapcore.Lock(os.Stdout), level))
	case "stderr":
		cores = append(cores, zapcore.NewCore(config.ConsoleEncoder(), zapcore.Lock(os.Stderr), level))
	case "":
	default:
		writer, err := rotatingWriter(opts)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(config.FileEncoder(), writer, level))
	}
	if opts.ToConsole && !cliMode && opts.FilePath != "stdout" && opts.FilePath != "stderr" {
		cores = append(cores, zapcore.NewCore(config.ConsoleEncoder(), zapcore.Lock(os.Stdout), level))
	}
	if len(cores) == 0 {
		cores = append(cores, zapcore.NewCore(config.ConsoleEncoder(), zapcore.Lock(os.Stderr), zapcore.WarnLevel))
	}

	// 跳过一层封装，caller 指向业务代码
	zl := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	return wrap(zl), nil
}

func rotatingWriter(opts *logconfig.LogOptions) (zapcore.WriteSyncer, error) {
	path, err := filepath.Abs(opts.FilePath)
	if err != nil {
		return nil, fmt.Errorf("获取日志文件绝对路径失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("创建日志目录失败: %w", err)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}), nil
}

// NewFromZap 包装已有的 zap 记录器（测试中配合 zaptest/observer 使用）
func NewFromZap(zapLogger *zap.Logger) *Logger {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return wrap(zapLogger)
}

func wrap(zl *zap.Logger) *Logger {
	return &Logger{zapLogger: zl, sugar: zl.Sugar()}
}

// GetZapLogger 获取底层的zap日志记录器
func (l *Logger) GetZapLogger() *zap.Logger { return l.zapLogger }

func (l *Logger) Debug(msg string)                          { l.sugar.Debug(msg) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(msg string)                           { l.sugar.Info(msg) }
func (l *Logger) Infof(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(msg string)                           { l.sugar.Warn(msg) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(msg string)                          { l.sugar.Error(msg) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }
func (l *Logger) Fatal(msg string)                          { l.sugar.Fatal(msg) }
func (l *Logger) Fatalf(format string, args ...interface{}) { l.sugar.Fatalf(format, args...) }

// With 附加键值对字段；奇数个参数时丢弃最后一个
func (l *Logger) With(args ...interface{}) logInterface.Logger {
	if len(args)%2 != 0 {
		args = args[:len(args)-1]
	}
	fields := make([]zap.Field, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields = append(fields, zap.Any(key, args[i+1]))
	}
	return wrap(l.zapLogger.With(fields...))
}

// Sync 刷新缓冲区
func (l *Logger) Sync() error { return l.zapLogger.Sync() }
