// Package clock 提供逻辑时钟实现
package clock

import (
	"sync/atomic"

	infraClock "github.com/weisyn/originverifier/pkg/interfaces/infrastructure/clock"
	"github.com/weisyn/originverifier/pkg/types"
)

// LogicalClock 单调递增的逻辑刻度
//
// 只有 tick 驱动调用 Advance，其余组件只读 Current。
type LogicalClock struct {
	current atomic.Uint64
}

var _ infraClock.TickClock = (*LogicalClock)(nil)

// NewLogicalClock 从给定刻度开始计时
func NewLogicalClock(start types.BlockNumber) *LogicalClock {
	c := &LogicalClock{}
	c.current.Store(uint64(start))
	return c
}

// Current 返回当前刻度
func (c *LogicalClock) Current() types.BlockNumber {
	return types.BlockNumber(c.current.Load())
}

// Advance 推进一个刻度并返回新值
func (c *LogicalClock) Advance() types.BlockNumber {
	return types.BlockNumber(c.current.Add(1))
}

// FastForward 将刻度推进到 target（恢复持久化状态时使用），不会回退
func (c *LogicalClock) FastForward(target types.BlockNumber) types.BlockNumber {
	for {
		cur := c.current.Load()
		if uint64(target) <= cur {
			return types.BlockNumber(cur)
		}
		if c.current.CompareAndSwap(cur, uint64(target)) {
			return target
		}
	}
}
