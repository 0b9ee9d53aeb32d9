package verifier

import (
	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/types"
)

// Dispatcher 按声明类型选择验证器
//
// 未显式注册的类型交给 fallback；Custom 类型先按标签查找，再按种类查找。
type Dispatcher struct {
	fallback originif.ClaimVerifier
	byKind   map[types.ClaimKind]originif.ClaimVerifier
	byTag    map[string]originif.ClaimVerifier
}

var _ originif.ClaimVerifier = (*Dispatcher)(nil)

// NewDispatcher 创建分派验证器
func NewDispatcher(fallback originif.ClaimVerifier) *Dispatcher {
	if fallback == nil {
		fallback = NewReferenceVerifier()
	}
	return &Dispatcher{
		fallback: fallback,
		byKind:   make(map[types.ClaimKind]originif.ClaimVerifier),
		byTag:    make(map[string]originif.ClaimVerifier),
	}
}

// Route 为声明类型指定验证器；Custom(tag) 只影响该标签
func (d *Dispatcher) Route(claimType types.ClaimType, v originif.ClaimVerifier) *Dispatcher {
	if claimType.Kind == types.ClaimKindCustom && claimType.Tag != "" {
		d.byTag[claimType.Tag] = v
		return d
	}
	d.byKind[claimType.Kind] = v
	return d
}

// Select 返回声明类型对应的验证器
func (d *Dispatcher) Select(claimType types.ClaimType) originif.ClaimVerifier {
	switch claimType.Kind {
	case types.ClaimKindOriginCountry,
		types.ClaimKindManufacturing,
		types.ClaimKindShipping,
		types.ClaimKindCustoms,
		types.ClaimKindCertification:
		if v, ok := d.byKind[claimType.Kind]; ok {
			return v
		}
	case types.ClaimKindCustom:
		if v, ok := d.byTag[claimType.Tag]; ok {
			return v
		}
		if v, ok := d.byKind[types.ClaimKindCustom]; ok {
			return v
		}
	default:
		return nil
	}
	return d.fallback
}

// Evaluate 实现 ClaimVerifier
func (d *Dispatcher) Evaluate(claimType types.ClaimType, proof, publicInputs []byte) types.VerificationOutcome {
	v := d.Select(claimType)
	if v == nil {
		return types.Invalid("unsupported claim type")
	}
	return v.Evaluate(claimType, proof, publicInputs)
}
