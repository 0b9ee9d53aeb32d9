package verifier

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	originconfig "github.com/weisyn/originverifier/internal/config/origin"
	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/types"
)

// ============================================================================
// 参考验证器
// ============================================================================

func TestReferenceVerifier(t *testing.T) {
	v := NewReferenceVerifier()
	ct := types.ClaimTypeOriginCountry

	assert.Equal(t, types.Valid(), v.Evaluate(ct, []byte{0x01, 0xAA}, nil))
	assert.Equal(t, types.Indeterminate(), v.Evaluate(ct, []byte{0x02, 0xAA}, nil))
	assert.Equal(t, types.Invalid(ReasonEmptyProof), v.Evaluate(ct, nil, nil))
	assert.Equal(t, types.Invalid(ReasonInvalidFormat), v.Evaluate(ct, []byte{0x01}, nil))
	assert.Equal(t, types.Invalid(ReasonInvalidFormat), v.Evaluate(ct, []byte{0xFF, 0x00}, nil))
}

// ============================================================================
// 分派验证器
// ============================================================================

func TestDispatcher_Select(t *testing.T) {
	always := func(o types.VerificationOutcome) originif.ClaimVerifier {
		return originif.ClaimVerifierFunc(func(types.ClaimType, []byte, []byte) types.VerificationOutcome { return o })
	}

	d := NewDispatcher(nil).
		Route(types.ClaimTypeShipping, always(types.Invalid("shipping"))).
		Route(types.CustomClaimType("halal"), always(types.Invalid("halal"))).
		Route(types.ClaimType{Kind: types.ClaimKindCustom}, always(types.Invalid("custom")))

	t.Run("按种类路由", func(t *testing.T) {
		assert.Equal(t, "shipping", d.Evaluate(types.ClaimTypeShipping, []byte{0x01, 0x01}, nil).Reason)
	})
	t.Run("自定义类型优先按标签路由", func(t *testing.T) {
		assert.Equal(t, "halal", d.Evaluate(types.CustomClaimType("halal"), nil, nil).Reason)
		assert.Equal(t, "custom", d.Evaluate(types.CustomClaimType("kosher"), nil, nil).Reason)
	})
	t.Run("未注册类型使用参考验证器", func(t *testing.T) {
		assert.Equal(t, types.Valid(), d.Evaluate(types.ClaimTypeCustoms, []byte{0x01, 0x01}, nil))
	})
	t.Run("未知种类被拒绝", func(t *testing.T) {
		out := d.Evaluate(types.ClaimType{Kind: 99}, []byte{0x01, 0x01}, nil)
		assert.Equal(t, types.VerdictInvalid, out.Verdict)
	})
}

// ============================================================================
// 缓存验证器
// ============================================================================

type countingVerifier struct {
	calls   int
	outcome types.VerificationOutcome
}

func (c *countingVerifier) Evaluate(types.ClaimType, []byte, []byte) types.VerificationOutcome {
	c.calls++
	return c.outcome
}

func TestCachedVerifier(t *testing.T) {
	t.Run("确定性结论只计算一次", func(t *testing.T) {
		inner := &countingVerifier{outcome: types.Invalid("bad")}
		c, err := NewCachedVerifier(inner, 1, nil)
		require.NoError(t, err)
		defer c.Close()

		for i := 0; i < 3; i++ {
			assert.Equal(t, types.Invalid("bad"), c.Evaluate(types.ClaimTypeCustoms, []byte{9}, []byte{1}))
		}
		assert.Equal(t, 1, inner.calls)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("Indeterminate不缓存", func(t *testing.T) {
		inner := &countingVerifier{outcome: types.Indeterminate()}
		c, err := NewCachedVerifier(inner, 1, nil)
		require.NoError(t, err)
		defer c.Close()

		c.Evaluate(types.ClaimTypeCustoms, []byte{9}, nil)
		c.Evaluate(types.ClaimTypeCustoms, []byte{9}, nil)
		assert.Equal(t, 2, inner.calls)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("声明类型参与缓存键", func(t *testing.T) {
		inner := &countingVerifier{outcome: types.Valid()}
		c, err := NewCachedVerifier(inner, 1, nil)
		require.NoError(t, err)
		defer c.Close()

		c.Evaluate(types.ClaimTypeCustoms, []byte{9}, nil)
		c.Evaluate(types.ClaimTypeShipping, []byte{9}, nil)
		assert.Equal(t, 2, inner.calls)
	})

	t.Run("移动字段边界不能命中缓存", func(t *testing.T) {
		inner := &exactPairVerifier{
			proof:  []byte{0xAA, 0xBB},
			inputs: []byte{0x11, 0x00, 0x22},
		}
		c, err := NewCachedVerifier(inner, 1, nil)
		require.NoError(t, err)
		defer c.Close()

		assert.Equal(t, types.VerdictValid,
			c.Evaluate(types.ClaimTypeOriginCountry, []byte{0xAA, 0xBB}, []byte{0x11, 0x00, 0x22}).Verdict)

		shifted := c.Evaluate(types.ClaimTypeOriginCountry, []byte{0xAA, 0xBB, 0x00, 0x11}, []byte{0x22})
		assert.Equal(t, types.VerdictInvalid, shifted.Verdict)
		assert.Equal(t, 2, c.Len())
	})
}

// exactPairVerifier 只认可一组固定的证明与公开输入
type exactPairVerifier struct {
	proof  []byte
	inputs []byte
}

func (v *exactPairVerifier) Evaluate(_ types.ClaimType, proof, publicInputs []byte) types.VerificationOutcome {
	if bytes.Equal(proof, v.proof) && bytes.Equal(publicInputs, v.inputs) {
		return types.Valid()
	}
	return types.Invalid("proof mismatch")
}

// ============================================================================
// Groth16 验证器
// ============================================================================

// equalityCircuit 测试电路：私有 X 等于公开 Y
type equalityCircuit struct {
	X frontend.Variable
	Y frontend.Variable `gnark:",public"`
}

func (c *equalityCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(c.X, c.Y)
	return nil
}

type groth16Fixture struct {
	vk          groth16.VerifyingKey
	proof       []byte
	publicBytes []byte
}

func newGroth16Fixture(t *testing.T) groth16Fixture {
	t.Helper()
	field := ecc.BN254.ScalarField()

	ccs, err := frontend.Compile(field, r1cs.NewBuilder, &equalityCircuit{})
	require.NoError(t, err)
	pk, vk, err := groth16.Setup(ccs)
	require.NoError(t, err)

	fullWitness, err := frontend.NewWitness(&equalityCircuit{X: 42, Y: 42}, field)
	require.NoError(t, err)
	proof, err := groth16.Prove(ccs, pk, fullWitness)
	require.NoError(t, err)

	var proofBuf bytes.Buffer
	_, err = proof.WriteTo(&proofBuf)
	require.NoError(t, err)

	publicWitness, err := fullWitness.Public()
	require.NoError(t, err)
	publicBytes, err := publicWitness.MarshalBinary()
	require.NoError(t, err)

	return groth16Fixture{vk: vk, proof: proofBuf.Bytes(), publicBytes: publicBytes}
}

func TestGroth16Verifier(t *testing.T) {
	fx := newGroth16Fixture(t)
	v := NewGroth16Verifier(nil)
	ct := types.ClaimTypeManufacturing

	t.Run("未注册密钥时返回Indeterminate", func(t *testing.T) {
		assert.Equal(t, types.Indeterminate(), v.Evaluate(ct, fx.proof, fx.publicBytes))
	})

	v.RegisterKey(ct, fx.vk)
	require.True(t, v.HasKey(ct))

	t.Run("有效证明通过", func(t *testing.T) {
		assert.Equal(t, types.Valid(), v.Evaluate(ct, fx.proof, fx.publicBytes))
	})

	t.Run("公开输入不匹配时拒绝", func(t *testing.T) {
		wrong, err := frontend.NewWitness(&equalityCircuit{Y: 43}, ecc.BN254.ScalarField(), frontend.PublicOnly())
		require.NoError(t, err)
		wrongBytes, err := wrong.MarshalBinary()
		require.NoError(t, err)

		out := v.Evaluate(ct, fx.proof, wrongBytes)
		assert.Equal(t, types.VerdictInvalid, out.Verdict)
	})

	t.Run("畸形证明被拒绝", func(t *testing.T) {
		out := v.Evaluate(ct, []byte{0x01, 0x02, 0x03}, fx.publicBytes)
		assert.Equal(t, types.VerdictInvalid, out.Verdict)
	})
}

func TestBuild(t *testing.T) {
	t.Run("默认构建参考验证器并套缓存", func(t *testing.T) {
		opts := originconfig.New(nil).GetOptions()
		v, closer, err := Build(opts, nil)
		require.NoError(t, err)
		require.NotNil(t, closer)
		defer closer()

		_, ok := v.(*CachedVerifier)
		assert.True(t, ok)
		assert.Equal(t, types.Valid(), v.Evaluate(types.ClaimTypeCustoms, []byte{0x01, 0x01}, nil))
	})

	t.Run("auto模式按密钥文件路由到Groth16", func(t *testing.T) {
		fx := newGroth16Fixture(t)
		var vkBuf bytes.Buffer
		_, err := fx.vk.WriteTo(&vkBuf)
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "manufacturing.vk")
		require.NoError(t, os.WriteFile(path, vkBuf.Bytes(), 0o600))

		opts := originconfig.New(nil).GetOptions()
		opts.Verifier = originconfig.VerifierAuto
		opts.ResultCacheMB = 0
		opts.VerifyingKeys = map[string]string{"manufacturing": path}

		v, closer, err := Build(opts, nil)
		require.NoError(t, err)
		assert.Nil(t, closer)

		assert.Equal(t, types.Valid(), v.Evaluate(types.ClaimTypeManufacturing, fx.proof, fx.publicBytes))
		assert.Equal(t, types.Valid(), v.Evaluate(types.ClaimTypeShipping, []byte{0x01, 0x01}, nil))
	})

	t.Run("未知验证器类型报错", func(t *testing.T) {
		opts := originconfig.New(nil).GetOptions()
		opts.Verifier = "oracle"
		_, _, err := Build(opts, nil)
		require.Error(t, err)
	})
}
