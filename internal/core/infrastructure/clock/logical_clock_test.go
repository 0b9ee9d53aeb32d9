package clock

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/originverifier/pkg/types"
)

// TestLogicalClock_Advance 测试刻度推进
func TestLogicalClock_Advance(t *testing.T) {
	c := NewLogicalClock(5)
	assert.Equal(t, types.BlockNumber(5), c.Current())
	assert.Equal(t, types.BlockNumber(6), c.Advance())
	assert.Equal(t, types.BlockNumber(6), c.Current())
}

// TestLogicalClock_Concurrent 测试并发推进不丢刻度
func TestLogicalClock_Concurrent(t *testing.T) {
	c := NewLogicalClock(0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Advance()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, types.BlockNumber(800), c.Current())
}

// TestLogicalClock_FastForward 测试快进不回退
func TestLogicalClock_FastForward(t *testing.T) {
	c := NewLogicalClock(10)
	assert.Equal(t, types.BlockNumber(10), c.FastForward(3))
	assert.Equal(t, types.BlockNumber(42), c.FastForward(42))
	assert.Equal(t, types.BlockNumber(42), c.Current())
}

// TestRegisterClockMetrics 测试指标采集
func TestRegisterClockMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewLogicalClock(7)

	require.NoError(t, RegisterClockMetrics(reg, c))
	require.NoError(t, RegisterClockMetrics(reg, c), "重复注册视为成功")

	count, err := testutil.GatherAndCount(reg, "origin_clock_current_tick")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
