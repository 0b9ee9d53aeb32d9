// Package origin 提供原产地验证核心及其协作者的接口定义
//
// 📋 **组件关系（自底向上）**
// - Escrow：费用托管（预留、释放、转账）
// - ClaimVerifier：可插拔的纯函数验证器
// - ProductDirectory：产品目录（注册、启停、原产地标志）
// - Guard：授权守卫（人工裁决、撤销、管理权限）
// - DeliveryChannel：跨链消息投递
// - Service：声明登记、调度、跨链关联的统一入口
//
// 🎯 **设计原则**
// - 核心严格串行：所有操作逐个执行，要么完整生效，要么不产生任何效果
// - 协作者只在接口边界被约束，具体实现可替换
package origin

import "github.com/weisyn/originverifier/pkg/types"

// Escrow 费用托管服务
//
// 所有调用同步完成；任何失败都必须在状态变更前中止调用方操作。
type Escrow interface {
	// Reserve 从可用余额中预留 amount，不足时返回 ErrInsufficientBalance
	Reserve(account types.AccountID, amount types.Balance) error

	// Release 将 amount 从预留余额退回可用余额
	Release(account types.AccountID, amount types.Balance)

	// Transfer 从 from 的可用余额转账到 to，不足时返回 ErrInsufficientBalance
	Transfer(from, to types.AccountID, amount types.Balance) error
}

// BalanceReader 余额查询
type BalanceReader interface {
	// Balances 返回账户的可用余额与预留余额
	Balances(account types.AccountID) (free, reserved types.Balance)
}

// Ledger 带查询能力的托管账本
type Ledger interface {
	Escrow
	BalanceReader

	// Accounts 返回全部账户余额快照（用于持久化镜像）
	Accounts() map[types.AccountID]AccountBalance

	// Load 以快照覆盖账本（启动恢复）
	Load(balances map[types.AccountID]AccountBalance)
}

// AccountBalance 账户余额
type AccountBalance struct {
	Free     types.Balance `json:"free"`
	Reserved types.Balance `json:"reserved"`
}
