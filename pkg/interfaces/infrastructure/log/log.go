// Package log 提供原产地验证节点的日志接口定义
//
// 📋 **日志系统核心接口**
//
// 🎯 **设计原则**
// - 统一接口：所有组件通过同一接口记录日志
// - 结构化：通过 With 附加 module 等上下文字段
// - 可替换：测试中以空实现替换，生产中由 zap 实现
package log

import "go.uber.org/zap"

// Logger 定义日志记录器接口
type Logger interface {
	// Debug 记录调试级别的日志
	Debug(msg string)

	// Debugf 使用格式化字符串记录调试级别的日志
	Debugf(format string, args ...interface{})

	// Info 记录信息级别的日志
	Info(msg string)

	// Infof 使用格式化字符串记录信息级别的日志
	Infof(format string, args ...interface{})

	// Warn 记录警告级别的日志
	Warn(msg string)

	// Warnf 使用格式化字符串记录警告级别的日志
	Warnf(format string, args ...interface{})

	// Error 记录错误级别的日志
	Error(msg string)

	// Errorf 使用格式化字符串记录错误级别的日志
	Errorf(format string, args ...interface{})

	// Fatal 记录致命级别的日志，然后退出程序
	Fatal(msg string)

	// Fatalf 使用格式化字符串记录致命级别的日志，然后退出程序
	Fatalf(format string, args ...interface{})

	// With 返回一个带有额外字段的Logger
	With(args ...interface{}) Logger

	// Sync 同步日志缓冲区到输出
	Sync() error

	// GetZapLogger 获取原始的zap日志记录器
	GetZapLogger() *zap.Logger
}

// Nop 返回不输出任何内容的日志记录器
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(string)                  {}
func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Info(string)                   {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warn(string)                   {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Error(string)                  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Fatal(string)                  {}
func (nopLogger) Fatalf(string, ...interface{}) {}
func (nopLogger) With(...interface{}) Logger    { return nopLogger{} }
func (nopLogger) Sync() error                   { return nil }
func (nopLogger) GetZapLogger() *zap.Logger     { return zap.NewNop() }
