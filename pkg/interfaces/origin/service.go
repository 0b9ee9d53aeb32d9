package origin

import (
	"context"

	"github.com/weisyn/originverifier/pkg/types"
)

// Registry 声明登记与人工操作
type Registry interface {
	// RegisterProduct 注册产品
	RegisterProduct(ctx context.Context, owner types.AccountID, reg types.ProductRegistration) (*types.Product, error)

	// SetProductActive 启用或停用产品（所有者或管理员）
	SetProductActive(ctx context.Context, caller types.AccountID, id types.ProductID, active bool) error

	// Submit 提交本地声明；req 的 ClaimID 即返回值
	Submit(ctx context.Context, req types.SubmitRequest) (types.ClaimID, error)

	// Resolve 授权验证者人工裁决 Pending 声明
	Resolve(ctx context.Context, productID types.ProductID, claimID types.ClaimID, outcome types.ClaimStatus, resolver types.AccountID) error

	// Revoke 管理员撤销已批准声明
	Revoke(ctx context.Context, productID types.ProductID, claimID types.ClaimID, reason string, caller types.AccountID) error
}

// Scheduler 验证调度
type Scheduler interface {
	// OnTick 在逻辑刻度 now 处理待验证条目，单次最多检查配置上限个条目
	OnTick(ctx context.Context, now types.BlockNumber) types.TickReport
}

// Correlator 跨链关联
type Correlator interface {
	// SubmitCrossChain 提交跨链声明：先发送请求，成功后再预留双倍费用
	SubmitCrossChain(ctx context.Context, counterparty types.CounterpartyID, req types.SubmitRequest) (types.ClaimID, error)

	// HandleMessage 处理来自对端的入站消息
	HandleMessage(ctx context.Context, from types.CounterpartyID, msg *types.CrossChainMessage)
}

// Administration 管理操作
type Administration interface {
	// SetVerifierAuthorization 管理员维护授权验证者
	SetVerifierAuthorization(ctx context.Context, caller, account types.AccountID, authorized bool) error

	// UpdateVerificationFee 管理员更新费用表，只影响之后的提交
	UpdateVerificationFee(ctx context.Context, caller types.AccountID, claimType types.ClaimType, fee types.Balance) error
}

// Query 只读查询，返回值均为副本
type Query interface {
	GetProduct(id types.ProductID) (*types.Product, bool)
	ListProducts() []*types.Product
	GetClaim(productID types.ProductID, claimID types.ClaimID) (*types.Claim, bool)
	ListClaims(productID types.ProductID) []*types.Claim
	PendingEntries() []types.PendingEntry
	CrossChainEntries() []types.CrossChainEntry
	FeeFor(claimType types.ClaimType, crossChain bool) (types.Balance, error)
	Verifiers() []types.AccountID
	IsCredentialRevoked(id types.CredentialID) bool
	Balances(account types.AccountID) (free, reserved types.Balance)
	Now() types.BlockNumber
}

// Service 原产地验证核心
type Service interface {
	Registry
	Scheduler
	Correlator
	Administration
	Query
}
