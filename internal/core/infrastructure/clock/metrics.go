package clock

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	infraClock "github.com/weisyn/originverifier/pkg/interfaces/infrastructure/clock"
)

type clockCollector struct {
	clock infraClock.TickClock

	currentTick *prometheus.Desc
}

func (c *clockCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.currentTick
}

func (c *clockCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.currentTick, prometheus.GaugeValue, float64(c.clock.Current()))
}

// RegisterClockMetrics 在注册表中注册时钟指标采集器
// 重复注册（同一进程内多次构建应用）视为成功
func RegisterClockMetrics(reg prometheus.Registerer, clock infraClock.TickClock) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	collector := &clockCollector{
		clock: clock,
		currentTick: prometheus.NewDesc(
			"origin_clock_current_tick",
			"Current logical tick of the origin verification core",
			nil, nil,
		),
	}
	err := reg.Register(collector)
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return nil
	}
	return err
}
