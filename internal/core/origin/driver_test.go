package origin

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/originverifier/internal/core/infrastructure/clock"
	"github.com/weisyn/originverifier/internal/core/origin/testutil"
	"github.com/weisyn/originverifier/pkg/types"
)

type recordingScheduler struct {
	mu   sync.Mutex
	nows []types.BlockNumber
}

func (r *recordingScheduler) OnTick(_ context.Context, now types.BlockNumber) types.TickReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nows = append(r.nows, now)
	return types.TickReport{Now: now}
}

func (r *recordingScheduler) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.nows)
}

func TestTickDriver_Step(t *testing.T) {
	sched := &recordingScheduler{}
	clk := clock.NewLogicalClock(5)
	d := NewTickDriver(sched, clk, time.Second, &testutil.MockLogger{})

	report := d.Step(context.Background())
	assert.Equal(t, types.BlockNumber(6), report.Now)
	d.Step(context.Background())
	assert.Equal(t, []types.BlockNumber{6, 7}, sched.nows)
	assert.Equal(t, types.BlockNumber(7), clk.Current())
}

func TestTickDriver_StartStop(t *testing.T) {
	sched := &recordingScheduler{}
	d := NewTickDriver(sched, clock.NewLogicalClock(0), 5*time.Millisecond, nil)

	d.Start()
	d.Start()
	require.Eventually(t, func() bool { return sched.count() >= 3 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
	stopped := sched.count()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, sched.count())

	t.Run("重复停止无效果", func(t *testing.T) {
		require.NoError(t, d.Stop(context.Background()))
	})
}

func TestTickDriver_DrivesService(t *testing.T) {
	env := newTestEnv(t)
	env.registerProduct(t, "P1")
	env.submit(t, "P1", "C1", types.ClaimTypeOriginCountry, testutil.ValidProof)

	d := NewTickDriver(env.svc, clock.NewLogicalClock(env.svc.Now()), time.Second, nil)
	report := d.Step(env.ctx)
	assert.Equal(t, 1, report.Approved)
	assert.True(t, env.originVerified(t, "P1"))
}
