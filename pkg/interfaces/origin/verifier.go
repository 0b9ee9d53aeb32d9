package origin

import "github.com/weisyn/originverifier/pkg/types"

// ClaimVerifier 声明验证器
//
// 必须是纯函数：确定性、无副作用、不做外部调用、必然终止。
// 返回 Indeterminate 时声明保持 Pending，下个 tick 再次评估。
type ClaimVerifier interface {
	Evaluate(claimType types.ClaimType, proof, publicInputs []byte) types.VerificationOutcome
}

// ClaimVerifierFunc 函数适配器
type ClaimVerifierFunc func(claimType types.ClaimType, proof, publicInputs []byte) types.VerificationOutcome

// Evaluate 实现 ClaimVerifier
func (f ClaimVerifierFunc) Evaluate(claimType types.ClaimType, proof, publicInputs []byte) types.VerificationOutcome {
	return f(claimType, proof, publicInputs)
}
