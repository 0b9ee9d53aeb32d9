package verifier

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	gnarklogger "github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"

	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/originverifier/pkg/types"
)

// gnark 的全局日志器不是并发安全的替换点，验证期间串行化
var gnarkLoggerMu sync.Mutex

// Groth16Verifier Groth16 证明验证器
//
// 🎯 **载荷约定**
// - proof：gnark Groth16 证明（BN254，WriteTo 编码）
// - publicInputs：gnark 公开 witness 的二进制编码（MarshalBinary）
//
// 声明类型没有注册验证密钥时返回 Indeterminate，密钥可以稍后注册。
type Groth16Verifier struct {
	curve  ecc.ID
	logger log.Logger

	mu   sync.RWMutex
	keys map[types.ClaimType]groth16.VerifyingKey
}

var _ originif.ClaimVerifier = (*Groth16Verifier)(nil)

// NewGroth16Verifier 创建 BN254 Groth16 验证器
func NewGroth16Verifier(logger log.Logger) *Groth16Verifier {
	if logger == nil {
		logger = log.Nop()
	}
	return &Groth16Verifier{
		curve:  ecc.BN254,
		logger: logger,
		keys:   make(map[types.ClaimType]groth16.VerifyingKey),
	}
}

// RegisterKey 为声明类型注册验证密钥
func (v *Groth16Verifier) RegisterKey(claimType types.ClaimType, vk groth16.VerifyingKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keys[claimType] = vk
}

// RegisterKeyBytes 从序列化字节注册验证密钥
func (v *Groth16Verifier) RegisterKeyBytes(claimType types.ClaimType, data []byte) error {
	vk := groth16.NewVerifyingKey(v.curve)
	if _, err := vk.ReadFrom(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("反序列化验证密钥失败: type=%s: %w", claimType, err)
	}
	v.RegisterKey(claimType, vk)
	return nil
}

// LoadKeyFile 从文件加载验证密钥
func (v *Groth16Verifier) LoadKeyFile(claimType types.ClaimType, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取验证密钥文件失败: %s: %w", path, err)
	}
	if err := v.RegisterKeyBytes(claimType, data); err != nil {
		return err
	}
	v.logger.Infof("已加载验证密钥: type=%s path=%s", claimType, path)
	return nil
}

// HasKey 是否已为声明类型注册验证密钥
func (v *Groth16Verifier) HasKey(claimType types.ClaimType) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.keys[claimType]
	return ok
}

// Evaluate 实现 ClaimVerifier
func (v *Groth16Verifier) Evaluate(claimType types.ClaimType, proof, publicInputs []byte) types.VerificationOutcome {
	v.mu.RLock()
	vk, ok := v.keys[claimType]
	v.mu.RUnlock()
	if !ok {
		return types.Indeterminate()
	}
	if len(proof) == 0 {
		return types.Invalid(ReasonEmptyProof)
	}

	gnarkLoggerMu.Lock()
	oldGnarkLogger := gnarklogger.Logger()
	gnarklogger.Set(zerolog.New(io.Discard).Level(zerolog.Disabled))
	defer func() {
		gnarklogger.Set(oldGnarkLogger)
		gnarkLoggerMu.Unlock()
	}()

	proofObj := groth16.NewProof(v.curve)
	if _, err := proofObj.ReadFrom(bytes.NewReader(proof)); err != nil {
		return types.Invalid("malformed groth16 proof")
	}

	publicWitness, err := witness.New(v.curve.ScalarField())
	if err != nil {
		return types.Invalid("witness allocation failed")
	}
	if err := publicWitness.UnmarshalBinary(publicInputs); err != nil {
		return types.Invalid("malformed public inputs")
	}

	if err := groth16.Verify(proofObj, vk, publicWitness); err != nil {
		v.logger.Debugf("Groth16 验证未通过: type=%s err=%v", claimType, err)
		return types.Invalid("groth16 verification failed")
	}
	return types.Valid()
}
