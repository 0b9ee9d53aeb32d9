package badger

import (
	"github.com/weisyn/originverifier/pkg/utils"
)

// getDefaultPath 获取默认数据库路径
func getDefaultPath() string {
	return utils.ResolveDataPath("./data/badger")
}

const (
	// defaultInMemory 默认落盘
	defaultInMemory = false

	// defaultSyncWrites 默认启用同步写入
	// 状态镜像用于重启恢复，写入丢失会导致恢复出的队列与托管余额不一致
	defaultSyncWrites = true

	// defaultDisabled 默认开启持久化镜像
	defaultDisabled = false

	// defaultMemTableSize 默认内存表大小为16MB
	defaultMemTableSize = 16 << 20

	// minMemTableSize 内存表下限1MB，值阈值随内存表按比例缩小
	minMemTableSize = 1 << 20
)
