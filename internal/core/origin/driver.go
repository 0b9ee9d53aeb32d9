package origin

import (
	"context"
	"sync"
	"time"

	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/clock"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/types"
)

// TickDriver 按固定间隔推进逻辑时钟并驱动调度
type TickDriver struct {
	scheduler originif.Scheduler
	clock     clock.TickClock
	interval  time.Duration
	logger    log.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewTickDriver 创建 tick 驱动
func NewTickDriver(scheduler originif.Scheduler, clk clock.TickClock, interval time.Duration, logger log.Logger) *TickDriver {
	if logger == nil {
		logger = log.Nop()
	}
	return &TickDriver{scheduler: scheduler, clock: clk, interval: interval, logger: logger}
}

// Step 推进一个刻度并执行一次调度
func (d *TickDriver) Step(ctx context.Context) types.TickReport {
	now := d.clock.Advance()
	return d.scheduler.OnTick(ctx, now)
}

// Start 启动后台循环，重复调用无效果
func (d *TickDriver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.stopped = make(chan struct{})

	go func() {
		defer close(d.stopped)
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.Step(ctx)
			}
		}
	}()
	d.logger.Infof("tick 驱动已启动: interval=%s", d.interval)
}

// Stop 停止后台循环并等待当前 tick 结束
func (d *TickDriver) Stop(ctx context.Context) error {
	d.mu.Lock()
	cancel, stopped := d.cancel, d.stopped
	d.cancel = nil
	d.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-stopped:
		d.logger.Info("tick 驱动已停止")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
