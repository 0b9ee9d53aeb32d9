// Package origin 实现原产地声明验证核心
//
// 🎯 **核心职责**
// - 声明登记：提交、人工裁决、撤销
// - 费用结算：提交时预留，首次终态时释放或分账
// - 验证调度：每个 tick 在固定预算内处理待验证条目
// - 跨链关联：发送验证请求，按声明ID匹配对端应答
//
// 🔒 **执行模型**
// 所有操作在同一把锁下串行执行，要么完整生效，要么不产生任何效果。
// 领域事件在锁释放后发布，状态镜像在锁内写入 Badger。
package origin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	originconfig "github.com/weisyn/originverifier/internal/config/origin"
	"github.com/weisyn/originverifier/internal/core/origin/escrow"
	"github.com/weisyn/originverifier/internal/core/origin/guard"
	"github.com/weisyn/originverifier/internal/core/origin/product"
	"github.com/weisyn/originverifier/internal/core/origin/verifier"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/storage"
	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/types"
)

// 跨链声明的费用与超时倍数
const (
	crossChainFeeMultiplier     = 2
	crossChainTimeoutMultiplier = 2
)

// errNoDelivery 未配置投递通道
var errNoDelivery = errors.New("delivery channel not configured")

// Deps 核心协作者，nil 字段按配置创建默认实现
type Deps struct {
	Ledger   originif.Ledger
	Products originif.ProductDirectory
	Guard    originif.VerifierRegistry
	Verifier originif.ClaimVerifier
	Delivery originif.DeliveryChannel
	EventBus event.EventBus
	Store    storage.BadgerStore
	Logger   log.Logger
}

// claimKey 本地声明键
type claimKey struct {
	product types.ProductID
	claim   types.ClaimID
}

// claimBook 单个产品的声明列表（有界、只追加）
type claimBook struct {
	order []types.ClaimID
	byID  map[types.ClaimID]*types.Claim
}

func newClaimBook() *claimBook {
	return &claimBook{byID: make(map[types.ClaimID]*types.Claim)}
}

func (b *claimBook) append(c *types.Claim) {
	b.order = append(b.order, c.ID)
	b.byID[c.ID] = c
}

// Service 原产地验证核心实现
type Service struct {
	mu sync.RWMutex

	opts     *originconfig.OriginOptions
	fees     map[types.ClaimType]types.Balance
	ledger   originif.Ledger
	products originif.ProductDirectory
	guard    originif.VerifierRegistry
	verifier originif.ClaimVerifier
	delivery originif.DeliveryChannel
	eventBus event.EventBus
	store    storage.BadgerStore
	logger   log.Logger

	now          types.BlockNumber
	seq          uint64
	productOrder uint64
	productSeq   map[types.ProductID]uint64
	books        map[types.ProductID]*claimBook
	local        *orderedQueue[claimKey, types.PendingEntry]
	cross        *orderedQueue[types.ClaimID, types.CrossChainEntry]
	crossIssued  map[types.ClaimID]types.ProductID
	revoked      map[types.CredentialID]string
}

var _ originif.Service = (*Service)(nil)

// New 创建原产地验证核心
func New(opts *originconfig.OriginOptions, deps Deps) (*Service, error) {
	if opts == nil {
		opts = originconfig.New(nil).GetOptions()
	}
	cfg := originconfig.NewFromOptions(opts)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("原产地验证配置无效: %w", err)
	}
	fees, err := cfg.FeeTable()
	if err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = log.Nop()
	}
	if deps.Ledger == nil {
		deps.Ledger = escrow.FromConfig(opts.GenesisBalances)
	}
	if deps.Products == nil {
		deps.Products = product.New(cfg.GetAdmin())
	}
	if deps.Guard == nil {
		deps.Guard = guard.New(cfg.GetAdmin(), cfg.Verifiers())
	}
	if deps.Verifier == nil {
		deps.Verifier = verifier.NewReferenceVerifier()
	}

	return &Service{
		opts:        opts,
		fees:        fees,
		ledger:      deps.Ledger,
		products:    deps.Products,
		guard:       deps.Guard,
		verifier:    deps.Verifier,
		delivery:    deps.Delivery,
		eventBus:    deps.EventBus,
		store:       deps.Store,
		logger:      logger,
		books:       make(map[types.ProductID]*claimBook),
		productSeq:  make(map[types.ProductID]uint64),
		local:       newOrderedQueue[claimKey, types.PendingEntry](),
		cross:       newOrderedQueue[types.ClaimID, types.CrossChainEntry](),
		crossIssued: make(map[types.ClaimID]types.ProductID),
		revoked:     make(map[types.CredentialID]string),
	}, nil
}

// ============================================================================
//                              操作作用域
// ============================================================================

type queuedEvent struct {
	eventType event.EventType
	payload   interface{}
}

// opScope 单次操作累积的变更与事件
type opScope struct {
	changes *changeSet
	events  []queuedEvent
}

func (sc *opScope) emit(eventType event.EventType, payload interface{}) {
	sc.events = append(sc.events, queuedEvent{eventType: eventType, payload: payload})
}

// begin 加锁并开启作用域
func (s *Service) begin() *opScope {
	s.mu.Lock()
	return &opScope{changes: newChangeSet()}
}

// end 写入镜像、刷新指标、解锁，然后发布事件
func (s *Service) end(ctx context.Context, sc *opScope) {
	s.flush(ctx, sc.changes)
	pendingLocalGauge.Set(float64(s.local.Len()))
	pendingCrossChainGauge.Set(float64(s.cross.Len()))
	s.mu.Unlock()

	if s.eventBus == nil {
		return
	}
	for _, e := range sc.events {
		s.eventBus.Publish(e.eventType, e.payload)
	}
}

func (s *Service) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// deadline 计算截止刻度（饱和加法）
func deadline(now types.BlockNumber, timeout uint64) types.BlockNumber {
	d := now + types.BlockNumber(timeout)
	if d < now {
		return ^types.BlockNumber(0)
	}
	return d
}

func (s *Service) localDeadline() types.BlockNumber {
	return deadline(s.now, s.opts.VerificationTimeout)
}

func (s *Service) crossChainDeadline() types.BlockNumber {
	t := s.opts.VerificationTimeout * crossChainTimeoutMultiplier
	if t/crossChainTimeoutMultiplier != s.opts.VerificationTimeout {
		t = ^uint64(0)
	}
	return deadline(s.now, t)
}

func (s *Service) claim(productID types.ProductID, claimID types.ClaimID) (*types.Claim, bool) {
	book, ok := s.books[productID]
	if !ok {
		return nil, false
	}
	c, ok := book.byID[claimID]
	return c, ok
}

func crossChainLess(a, b types.CrossChainEntry) bool {
	return a.Deadline < b.Deadline
}
