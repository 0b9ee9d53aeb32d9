package badger

import (
	"fmt"
	"path/filepath"

	configtypes "github.com/weisyn/originverifier/pkg/types"
	"github.com/weisyn/originverifier/pkg/utils"
)

// BadgerOptions BadgerDB存储配置选项
type BadgerOptions struct {
	// === 基础配置 ===
	Path       string `json:"path"`        // 数据库存储路径
	InMemory   bool   `json:"in_memory"`   // 内存模式，不落盘
	SyncWrites bool   `json:"sync_writes"` // 是否同步写入
	Disabled   bool   `json:"disabled"`    // 关闭持久化镜像

	// === 性能配置 ===
	MemTableSize int64 `json:"mem_table_size"` // 内存表大小
}

// Config BadgerDB配置实现
type Config struct {
	options *BadgerOptions
}

// New 创建BadgerDB配置实现
func New(userConfig interface{}) *Config {
	defaultOptions := createDefaultBadgerOptions()

	if userConfig != nil {
		applyUserConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// NewFromOptions 从BadgerOptions创建配置实现
func NewFromOptions(options *BadgerOptions) *Config {
	if options == nil {
		return New(nil)
	}
	return &Config{
		options: options,
	}
}

// createDefaultBadgerOptions 创建默认BadgerDB配置
func createDefaultBadgerOptions() *BadgerOptions {
	return &BadgerOptions{
		Path:         getDefaultPath(),
		InMemory:     defaultInMemory,
		SyncWrites:   defaultSyncWrites,
		Disabled:     defaultDisabled,
		MemTableSize: defaultMemTableSize,
	}
}

// applyUserConfig 应用用户配置覆盖默认值
//
// 路径构建规则：
// - 如果配置了 storage.data_root，使用 {data_root}/badger/
// - 如果未配置，使用默认值 ./data/badger/
func applyUserConfig(options *BadgerOptions, userConfig interface{}) {
	storageConfig, ok := userConfig.(*configtypes.UserStorageConfig)
	if !ok || storageConfig == nil {
		return
	}
	if storageConfig.DataRoot != nil {
		options.Path = utils.ResolveDataPath(filepath.Join(*storageConfig.DataRoot, "badger"))
	}
	if storageConfig.InMemory != nil {
		options.InMemory = *storageConfig.InMemory
	}
	if storageConfig.SyncWrites != nil {
		options.SyncWrites = *storageConfig.SyncWrites
	}
	if storageConfig.Disabled != nil {
		options.Disabled = *storageConfig.Disabled
	}
	if storageConfig.MemTableSizeMB != nil {
		options.MemTableSize = int64(*storageConfig.MemTableSizeMB) << 20
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.options.MemTableSize < minMemTableSize {
		return fmt.Errorf("mem_table_size 过小: %d < %d", c.options.MemTableSize, minMemTableSize)
	}
	return nil
}

// GetOptions 获取完整的BadgerDB配置选项
func (c *Config) GetOptions() *BadgerOptions {
	return c.options
}

// GetPath 获取数据库路径
func (c *Config) GetPath() string {
	return c.options.Path
}

// IsInMemory 是否为内存模式
func (c *Config) IsInMemory() bool {
	return c.options.InMemory
}

// IsSyncWritesEnabled 是否启用同步写入
func (c *Config) IsSyncWritesEnabled() bool {
	return c.options.SyncWrites
}

// IsDisabled 是否关闭持久化
func (c *Config) IsDisabled() bool {
	return c.options.Disabled
}

// GetMemTableSize 获取内存表大小
func (c *Config) GetMemTableSize() int64 {
	return c.options.MemTableSize
}
