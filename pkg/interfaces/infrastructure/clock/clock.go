// Package clock 提供逻辑时钟接口定义
//
// 🎯 **TickClock**：单调递增的逻辑刻度，用于截止时间与时间戳。
// 核心不读取墙上时间，所有时序判断都基于刻度。
package clock

import "github.com/weisyn/originverifier/pkg/types"

// TickClock 逻辑时钟
type TickClock interface {
	// Current 返回当前刻度
	Current() types.BlockNumber

	// Advance 推进一个刻度并返回新值
	Advance() types.BlockNumber
}
