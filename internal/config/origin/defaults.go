package origin

import "time"

// 验证器类型
const (
	VerifierReference = "reference"
	VerifierGroth16   = "groth16"
	VerifierAuto      = "auto" // 有验证密钥的类型走 Groth16，其余走参考验证器
)

const (
	// === 权限 ===

	// defaultAdminAccount 默认管理员账户
	defaultAdminAccount = "admin"

	// === 容量与时限 ===

	// defaultMaxClaimsPerProduct 每个产品最多保留10条声明
	defaultMaxClaimsPerProduct = 10

	// defaultVerificationTimeout 本地声明10个tick后超时，跨链声明为其2倍
	defaultVerificationTimeout = 10

	// defaultMaxVerificationsPerTick 每tick最多处理10个待验证条目
	defaultMaxVerificationsPerTick = 10

	// === 载荷限制 ===

	defaultMinProofSize      = 1
	defaultMaxProofSize      = 10 * 1024
	defaultMaxMetadataLength = 1024

	// === 验证器 ===

	defaultVerifier = VerifierReference

	// defaultResultCacheMB 结果缓存上限16MB
	defaultResultCacheMB = 16

	// defaultCustomFee Custom(tag) 类型的默认费用
	defaultCustomFee = 100

	// === 运行 ===

	// defaultTickInterval tick驱动间隔
	defaultTickInterval = 6 * time.Second
)

// defaultFeeSchedule 默认费用表
var defaultFeeSchedule = map[string]uint64{
	"origin_country": 100,
	"manufacturing":  150,
	"shipping":       200,
	"customs":        250,
	"certification":  300,
}
