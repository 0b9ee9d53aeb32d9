package origin

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/weisyn/originverifier/pkg/types"
)

// ============================================================================
//                          Prometheus 监控指标
// ============================================================================

const (
	channelLocal      = "local"
	channelCrossChain = "cross_chain"
)

// 操作名（错误指标标签）
const (
	opRegisterProduct  = "register_product"
	opSetProductActive = "set_product_active"
	opSubmit           = "submit"
	opSubmitCrossChain = "submit_cross_chain"
	opResolve          = "resolve"
	opRevoke           = "revoke"
	opSetVerifier      = "set_verifier"
	opUpdateFee        = "update_fee"
)

var (
	// claimsSubmittedTotal 已提交声明数
	claimsSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "origin",
			Subsystem: "claims",
			Name:      "submitted_total",
			Help:      "Total number of submitted claims by type and channel",
		},
		[]string{"type", "channel"},
	)

	// claimsResolvedTotal 进入终态的声明数
	claimsResolvedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "origin",
			Subsystem: "claims",
			Name:      "resolved_total",
			Help:      "Total number of terminal claim transitions by outcome and resolution channel",
		},
		[]string{"outcome", "channel"},
	)

	// claimsRevokedTotal 撤销数
	claimsRevokedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "origin",
		Subsystem: "claims",
		Name:      "revoked_total",
		Help:      "Total number of revoked claims",
	})

	// verificationsTotal 验证器调用次数
	verificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "origin",
			Subsystem: "verifier",
			Name:      "evaluations_total",
			Help:      "Total number of verifier evaluations by verdict",
		},
		[]string{"verdict"},
	)

	// operationErrorsTotal 被拒绝的操作
	operationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "origin",
			Subsystem: "operations",
			Name:      "errors_total",
			Help:      "Total number of rejected operations by operation and error category",
		},
		[]string{"operation", "category"},
	)

	// crossChainMessagesTotal 跨链消息
	crossChainMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "origin",
			Subsystem: "crosschain",
			Name:      "messages_total",
			Help:      "Total number of cross-chain messages by kind and result",
		},
		[]string{"kind", "result"},
	)

	// tickExaminedHistogram 每个 tick 检查的条目数
	tickExaminedHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "origin",
		Subsystem: "scheduler",
		Name:      "tick_examined_entries",
		Help:      "Number of pending entries examined per tick",
		Buckets:   prometheus.LinearBuckets(0, 5, 11),
	})

	// pendingLocalGauge 本地待验证条目
	pendingLocalGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "origin",
		Subsystem: "scheduler",
		Name:      "pending_local",
		Help:      "Current number of local pending entries",
	})

	// pendingCrossChainGauge 跨链待应答条目
	pendingCrossChainGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "origin",
		Subsystem: "scheduler",
		Name:      "pending_cross_chain",
		Help:      "Current number of cross-chain entries awaiting a response",
	})

	// persistenceFailuresTotal 状态镜像写入失败
	persistenceFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "origin",
		Subsystem: "storage",
		Name:      "mirror_failures_total",
		Help:      "Total number of failed state mirror writes",
	})
)

// ============================================================================
//                          指标注册
// ============================================================================

func init() {
	prometheus.MustRegister(
		claimsSubmittedTotal,
		claimsResolvedTotal,
		claimsRevokedTotal,
		verificationsTotal,
		operationErrorsTotal,
		crossChainMessagesTotal,
		tickExaminedHistogram,
		pendingLocalGauge,
		pendingCrossChainGauge,
		persistenceFailuresTotal,
	)
}

// observe 记录被拒绝操作的错误分类
func (s *Service) observe(operation string, errp *error) {
	if errp == nil || *errp == nil {
		return
	}
	category := types.CategoryOf(*errp)
	operationErrorsTotal.WithLabelValues(operation, string(category)).Inc()
	s.logger.Debugf("操作被拒绝: op=%s category=%s err=%v", operation, category, *errp)
}
