// Package verifier 提供可插拔的声明验证器实现
//
// 🔍 **验证器组成**
// - ReferenceVerifier：基于证明首字节的参考验证器
// - Groth16Verifier：基于 gnark 的 Groth16 (BN254) 证明验证
// - Dispatcher：按声明类型选择验证器
// - CachedVerifier：以 bigcache 缓存确定性结论
//
// 所有验证器都满足纯函数约束：相同输入总是得到相同结论，不做外部调用。
package verifier

import (
	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/types"
)

// 参考验证器识别的证明首字节
const (
	ProofTagValid         byte = 0x01
	ProofTagIndeterminate byte = 0x02
)

// 参考验证器的拒绝原因
const (
	ReasonEmptyProof    = "Empty proof provided"
	ReasonInvalidFormat = "Invalid proof format"
)

// ReferenceVerifier 参考验证器
//
// 0x01 开头且长度大于1 → Valid；0x02 开头且长度大于1 → Indeterminate；
// 空证明及其它格式 → Invalid。
type ReferenceVerifier struct{}

var _ originif.ClaimVerifier = ReferenceVerifier{}

// NewReferenceVerifier 创建参考验证器
func NewReferenceVerifier() ReferenceVerifier {
	return ReferenceVerifier{}
}

// Evaluate 实现 ClaimVerifier
func (ReferenceVerifier) Evaluate(_ types.ClaimType, proof, _ []byte) types.VerificationOutcome {
	if len(proof) == 0 {
		return types.Invalid(ReasonEmptyProof)
	}
	if len(proof) > 1 {
		switch proof[0] {
		case ProofTagValid:
			return types.Valid()
		case ProofTagIndeterminate:
			return types.Indeterminate()
		}
	}
	return types.Invalid(ReasonInvalidFormat)
}
