// Package storage 提供键值存储接口定义
//
// 🎯 **BadgerStore**：原产地验证状态的持久化镜像底座。
// 内存中的状态是权威来源，存储只用于重启恢复与离线查看。
package storage

import "context"

// BadgerStore BadgerDB 键值存储接口
type BadgerStore interface {
	// Close 关闭数据库，确保待处理事务写入磁盘
	Close() error

	// Get 获取指定键的值
	// 如果键不存在，返回nil值和nil错误
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set 设置键值对
	Set(ctx context.Context, key, value []byte) error

	// Delete 删除指定键，键不存在不返回错误
	Delete(ctx context.Context, key []byte) error

	// PrefixScan 按前缀扫描键值对，返回map的键为键的字符串表示
	PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error)

	// RunInTransaction 在事务中执行操作
	// fn 返回错误时回滚，否则提交
	RunInTransaction(ctx context.Context, fn func(tx BadgerTransaction) error) error
}

// BadgerTransaction 事务内操作
type BadgerTransaction interface {
	// Get 获取指定键的值，键不存在返回nil值和nil错误
	Get(key []byte) ([]byte, error)

	// Set 设置键值对
	Set(key, value []byte) error

	// Delete 删除指定键
	Delete(key []byte) error
}
