package types

import (
	"errors"
	"fmt"
)

// ============================================================================
//                              原产地验证错误
// ============================================================================

// 校验类错误：提交时同步拒绝，不改变状态，不触及托管
var (
	// ErrProductNotFound 产品不存在
	ErrProductNotFound = errors.New("product not found")

	// ErrProductNotActive 产品已停用
	ErrProductNotActive = errors.New("product not active")

	// ErrProductAlreadyExists 产品已存在
	ErrProductAlreadyExists = errors.New("product already exists")

	// ErrInvalidClaimData 声明ID或证明为空等无效数据
	ErrInvalidClaimData = errors.New("invalid claim data")

	// ErrProofTooSmall 证明长度小于下限
	ErrProofTooSmall = errors.New("proof too small")

	// ErrProofTooLarge 证明长度超过上限
	ErrProofTooLarge = errors.New("proof too large")

	// ErrMetadataTooLong 元数据超长
	ErrMetadataTooLong = errors.New("metadata too long")

	// ErrClaimIdAlreadyExists 声明ID冲突
	ErrClaimIdAlreadyExists = errors.New("claim id already exists")

	// ErrTooManyClaims 产品声明列表已满
	ErrTooManyClaims = errors.New("too many claims")

	// ErrInvalidOutcome 人工裁决结果不是 Approved/Rejected/Failed
	ErrInvalidOutcome = errors.New("invalid resolution outcome")

	// ErrFeeOverflow 费用计算溢出
	ErrFeeOverflow = errors.New("fee overflow")
)

// 授权类错误
var (
	// ErrNotAuthorizedVerifier 调用者不是授权验证者
	ErrNotAuthorizedVerifier = errors.New("not authorized verifier")

	// ErrRequiresAdminPrivileges 需要管理员权限
	ErrRequiresAdminPrivileges = errors.New("requires admin privileges")

	// ErrNotProductOwner 调用者不是产品所有者
	ErrNotProductOwner = errors.New("not product owner")
)

// 资金类错误
var (
	// ErrVerificationFeesNotPaid 验证费用预留失败
	ErrVerificationFeesNotPaid = errors.New("verification fees not paid")

	// ErrInsufficientBalance 可用余额不足
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// 状态类错误
var (
	// ErrClaimNotFound 声明不存在
	ErrClaimNotFound = errors.New("claim not found")

	// ErrInvalidClaimState 声明当前状态不允许该操作
	ErrInvalidClaimState = errors.New("invalid claim state")
)

// 投递类错误
var (
	// ErrCrossChainError 跨链消息发送失败
	ErrCrossChainError = errors.New("cross-chain error")
)

// ErrorCategory 错误分类（用于指标标签与 API 状态码）
type ErrorCategory string

const (
	ErrorCategoryValidation    ErrorCategory = "validation"
	ErrorCategoryAuthorization ErrorCategory = "authorization"
	ErrorCategoryFunds         ErrorCategory = "funds"
	ErrorCategoryState         ErrorCategory = "state"
	ErrorCategoryDelivery      ErrorCategory = "delivery"
	ErrorCategoryInternal      ErrorCategory = "internal"
)

var categoryTable = []struct {
	category ErrorCategory
	errs     []error
}{
	{ErrorCategoryValidation, []error{
		ErrProductNotFound, ErrProductNotActive, ErrProductAlreadyExists, ErrInvalidClaimData,
		ErrProofTooSmall, ErrProofTooLarge, ErrMetadataTooLong, ErrClaimIdAlreadyExists,
		ErrTooManyClaims, ErrInvalidOutcome, ErrFeeOverflow,
	}},
	{ErrorCategoryAuthorization, []error{ErrNotAuthorizedVerifier, ErrRequiresAdminPrivileges, ErrNotProductOwner}},
	{ErrorCategoryFunds, []error{ErrVerificationFeesNotPaid, ErrInsufficientBalance}},
	{ErrorCategoryState, []error{ErrClaimNotFound, ErrInvalidClaimState}},
	{ErrorCategoryDelivery, []error{ErrCrossChainError}},
}

// CategoryOf 返回错误所属分类，未知错误归为 internal
func CategoryOf(err error) ErrorCategory {
	if err == nil {
		return ""
	}
	for _, row := range categoryTable {
		for _, target := range row.errs {
			if errors.Is(err, target) {
				return row.category
			}
		}
	}
	return ErrorCategoryInternal
}

// WrapCrossChainError 包装跨链发送错误
func WrapCrossChainError(counterparty CounterpartyID, cause error) error {
	return fmt.Errorf("%w: counterparty=%d: %v", ErrCrossChainError, counterparty, cause)
}

// WrapFeesNotPaid 包装费用预留失败
func WrapFeesNotPaid(account AccountID, fee Balance, cause error) error {
	return fmt.Errorf("%w: account=%s fee=%d: %v", ErrVerificationFeesNotPaid, account, fee, cause)
}
