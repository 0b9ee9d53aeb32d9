package origin

import "github.com/weisyn/originverifier/pkg/types"

// Guard 授权守卫
//
// 所有检查都是纯函数；调用方必须在修改状态前完成检查，
// 失败时返回 ErrNotAuthorizedVerifier 或 ErrRequiresAdminPrivileges。
type Guard interface {
	// Admin 返回指定的管理员账户（同时作为国库账户）
	Admin() types.AccountID

	// CanResolve 调用者是否可以人工裁决该产品的声明
	CanResolve(caller types.AccountID, product *types.Product) bool

	// CanRevoke 调用者是否可以撤销声明（仅管理员）
	CanRevoke(caller types.AccountID) bool

	// CanManageFeeSchedule 调用者是否可以修改费用表（仅管理员）
	CanManageFeeSchedule(caller types.AccountID) bool

	// CanManageVerifiers 调用者是否可以管理验证者（仅管理员）
	CanManageVerifiers(caller types.AccountID) bool

	// IsAuthorizedVerifier 账户是否在授权验证者集合中
	IsAuthorizedVerifier(account types.AccountID) bool
}

// VerifierRegistry 授权验证者集合的维护入口
type VerifierRegistry interface {
	Guard

	// SetAuthorized 加入或移出授权验证者集合
	SetAuthorized(account types.AccountID, authorized bool)

	// Verifiers 返回授权验证者列表（有序）
	Verifiers() []types.AccountID
}
