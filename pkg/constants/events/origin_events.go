// Package events 提供原产地验证核心的领域事件类型常量
//
// 🎯 **事件命名**：domain.category.action
//
// 🏗️ **使用方式**
// ```go
// eventBus.Subscribe(events.EventTypeClaimResolved, func(e *types.ClaimResolvedEvent) { ... })
// ```
package events

import (
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/event"
)

// EventType 全局事件类型别名
type EventType = event.EventType

// 产品事件
const (
	// EventTypeProductRegistered 产品注册完成
	EventTypeProductRegistered EventType = "origin.product.registered"

	// EventTypeProductActivationChanged 产品启用状态变化
	EventTypeProductActivationChanged EventType = "origin.product.activation_changed"

	// EventTypeProductOriginVerified 产品原产地验证标志变化（仅在取值变化时发布）
	EventTypeProductOriginVerified EventType = "origin.product.origin_verified"
)

// 声明生命周期事件
const (
	// EventTypeClaimSubmitted 声明已提交并预留费用
	EventTypeClaimSubmitted EventType = "origin.claim.submitted"

	// EventTypeClaimResolved 声明进入终态（Approved/Rejected/Failed/TimedOut）
	EventTypeClaimResolved EventType = "origin.claim.resolved"

	// EventTypeClaimRevoked 已批准声明被撤销
	EventTypeClaimRevoked EventType = "origin.claim.revoked"

	// EventTypeVerificationTimedOut 声明超时
	EventTypeVerificationTimedOut EventType = "origin.claim.timed_out"

	// EventTypeFeePaid 结算时发生的费用转账
	EventTypeFeePaid EventType = "origin.fee.paid"
)

// 跨链事件
const (
	// EventTypeCrossChainVerificationSent 验证请求已发往对端
	EventTypeCrossChainVerificationSent EventType = "origin.crosschain.sent"

	// EventTypeCrossChainVerificationReceived 收到对端验证应答
	EventTypeCrossChainVerificationReceived EventType = "origin.crosschain.received"

	// EventTypeCredentialRevoked 收到凭证撤销通知
	EventTypeCredentialRevoked EventType = "origin.crosschain.credential_revoked"
)

// 管理事件
const (
	// EventTypeVerifierAuthorizationChanged 验证者授权变化
	EventTypeVerifierAuthorizationChanged EventType = "origin.admin.verifier_authorization"

	// EventTypeVerificationFeeUpdated 费用表更新
	EventTypeVerificationFeeUpdated EventType = "origin.admin.fee_updated"
)
