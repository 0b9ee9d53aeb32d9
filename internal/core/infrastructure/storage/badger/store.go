// Package badger 提供基于BadgerDB的存储实现
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	badgerdb "github.com/dgraph-io/badger/v3"
	badgerconfig "github.com/weisyn/originverifier/internal/config/storage/badger"
	log "github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
	interfaces "github.com/weisyn/originverifier/pkg/interfaces/infrastructure/storage"
)

// Store 实现BadgerStore接口
type Store struct {
	db     *badgerdb.DB
	config *badgerconfig.Config
	logger log.Logger

	// 关闭过程中拒绝写入，并等待进行中的写事务退出
	closing int32
	writeWg sync.WaitGroup
}

var _ interfaces.BadgerStore = (*Store)(nil)

// New 创建新的BadgerStore实例
func New(config *badgerconfig.Config, logger log.Logger) (*Store, error) {
	return open(config, logger, false)
}

// OpenReadOnly 以只读方式打开已有数据库（离线查看）
func OpenReadOnly(config *badgerconfig.Config, logger log.Logger) (*Store, error) {
	return open(config, logger, true)
}

func open(config *badgerconfig.Config, logger log.Logger, readOnly bool) (*Store, error) {
	if logger == nil {
		logger = log.Nop()
	}
	if config == nil {
		config = badgerconfig.New(nil)
	}

	var opts badgerdb.Options
	if config.IsInMemory() {
		logger.Infof("初始化内存BadgerDB存储")
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		dataDir := config.GetPath()
		logger.Infof("初始化BadgerDB存储，数据目录: %s", dataDir)
		if !readOnly {
			if err := os.MkdirAll(dataDir, 0700); err != nil {
				return nil, fmt.Errorf("无法创建BadgerDB数据目录: %w", err)
			}
		}
		opts = badgerdb.DefaultOptions(dataDir).
			WithSyncWrites(config.IsSyncWritesEnabled()).
			WithReadOnly(readOnly)
	}

	// 状态镜像数据量小，收紧缓存与 vlog 文件大小
	opts.MemTableSize = config.GetMemTableSize()
	opts.ValueThreshold = valueThreshold(opts.MemTableSize)
	opts.ValueLogFileSize = 64 << 20
	opts.BlockCacheSize = 16 << 20
	opts.IndexCacheSize = 8 << 20
	opts.NumMemtables = 2
	opts.NumCompactors = 2
	opts.Logger = newBadgerLogger(logger)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("打开BadgerDB失败: %w", err)
	}

	return &Store{
		db:     db,
		config: config,
		logger: logger,
	}, nil
}

// valueThreshold 值阈值不得超过单批上限（内存表的15%），取内存表的十分之一且不超过1MB
func valueThreshold(memTableSize int64) int64 {
	threshold := memTableSize / 10
	if threshold > 1<<20 {
		threshold = 1 << 20
	}
	return threshold
}

// Close 关闭存储并释放资源
func (s *Store) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closing, 0, 1) {
		return nil
	}
	s.writeWg.Wait()

	if err := s.db.Close(); err != nil {
		if strings.Contains(err.Error(), "LOCK: no such file or directory") {
			s.logger.Warn("BadgerDB LOCK文件已不存在，这通常是正常的关闭过程")
			return nil
		}
		return fmt.Errorf("关闭BadgerDB失败: %w", err)
	}
	s.logger.Info("BadgerDB存储已关闭")
	return nil
}

func (s *Store) beginWrite() (func(), error) {
	if atomic.LoadInt32(&s.closing) == 1 {
		return nil, fmt.Errorf("badger store is closing")
	}
	s.writeWg.Add(1)
	// double-check，避免在 Add 之后进入 closing
	if atomic.LoadInt32(&s.closing) == 1 {
		s.writeWg.Done()
		return nil, fmt.Errorf("badger store is closing")
	}
	return s.writeWg.Done, nil
}

// Get 获取指定键的值
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	var valCopy []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badgerdb.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		valCopy, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("badger获取键失败: %w", err)
	}
	return valCopy, nil
}

// Set 设置键值对
func (s *Store) Set(ctx context.Context, key, value []byte) error {
	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete 删除指定键的值
func (s *Store) Delete(ctx context.Context, key []byte) error {
	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(key)
	})
}

// PrefixScan 按前缀扫描键值对
func (s *Store) PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error) {
	result := make(map[string][]byte)

	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			valCopy, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			result[string(item.KeyCopy(nil))] = valCopy
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger前缀扫描失败: %w", err)
	}
	return result, nil
}

// RunInTransaction 在单个读写事务中执行 fn，fn 出错或 ctx 取消时整体回滚
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx interfaces.BadgerTransaction) error) error {
	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()

	var writes int
	err = s.db.Update(func(txn *badgerdb.Txn) error {
		tx := &txnAdapter{txn: txn}
		if err := fn(tx); err != nil {
			return fmt.Errorf("事务执行失败: %w", err)
		}
		writes = tx.writes
		return ctx.Err()
	})
	if err != nil {
		return fmt.Errorf("badger事务失败: %w", err)
	}
	s.logger.Debugf("badger事务已提交: writes=%d", writes)
	return nil
}

// badgerLogger 实现BadgerDB的日志接口
type badgerLogger struct {
	logger log.Logger
}

// newBadgerLogger 创建BadgerDB日志适配器
func newBadgerLogger(logger log.Logger) *badgerLogger {
	return &badgerLogger{logger: logger}
}

// Errorf 输出错误日志
func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf("[BadgerDB] "+format, args...)
}

// Warningf 输出警告日志
func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf("[BadgerDB] "+format, args...)
}

// Infof BadgerDB 信息日志较多，降为调试级别
func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debugf("[BadgerDB] "+format, args...)
}

// Debugf 输出调试日志
func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf("[BadgerDB] "+format, args...)
}
