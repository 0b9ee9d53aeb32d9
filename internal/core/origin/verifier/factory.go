package verifier

import (
	"fmt"
	"sort"

	originconfig "github.com/weisyn/originverifier/internal/config/origin"
	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/originverifier/pkg/types"
)

// Build 按配置组装验证器
//
// - reference：全部类型使用参考验证器
// - groth16：全部类型使用 Groth16 验证器
// - auto：配置了验证密钥的类型使用 Groth16，其余使用参考验证器
//
// ResultCacheMB 大于0时在最外层套一层结果缓存。返回的 closer 可能为 nil。
func Build(opts *originconfig.OriginOptions, logger log.Logger) (originif.ClaimVerifier, func() error, error) {
	if logger == nil {
		logger = log.Nop()
	}

	var (
		built originif.ClaimVerifier
		g16   *Groth16Verifier
	)
	if opts.Verifier == originconfig.VerifierGroth16 || opts.Verifier == originconfig.VerifierAuto {
		g16 = NewGroth16Verifier(logger)
		names := make([]string, 0, len(opts.VerifyingKeys))
		for name := range opts.VerifyingKeys {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			ct, err := types.ParseClaimType(name)
			if err != nil {
				return nil, nil, fmt.Errorf("验证密钥条目 %q 无效: %w", name, err)
			}
			if err := g16.LoadKeyFile(ct, opts.VerifyingKeys[name]); err != nil {
				return nil, nil, err
			}
		}
	}

	switch opts.Verifier {
	case originconfig.VerifierReference, "":
		built = NewReferenceVerifier()
	case originconfig.VerifierGroth16:
		built = g16
	case originconfig.VerifierAuto:
		d := NewDispatcher(NewReferenceVerifier())
		for name := range opts.VerifyingKeys {
			ct, _ := types.ParseClaimType(name)
			d.Route(ct, g16)
		}
		built = d
	default:
		return nil, nil, fmt.Errorf("未知验证器类型: %q", opts.Verifier)
	}

	if opts.ResultCacheMB <= 0 {
		return built, nil, nil
	}
	cached, err := NewCachedVerifier(built, opts.ResultCacheMB, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("创建验证结果缓存失败: %w", err)
	}
	return cached, cached.Close, nil
}
