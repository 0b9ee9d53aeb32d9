package origin

import (
	"fmt"
	"sort"
	"time"

	"github.com/weisyn/originverifier/pkg/types"
)

// OriginOptions 原产地验证核心配置选项
type OriginOptions struct {
	// === 权限配置 ===
	AdminAccount        string   `json:"admin_account"`        // 管理员（兼国库）账户
	AuthorizedVerifiers []string `json:"authorized_verifiers"` // 初始授权验证者

	// === 费用配置 ===
	FeeSchedule      map[string]uint64 `json:"fee_schedule"`       // 声明类型名 -> 费用
	DefaultCustomFee uint64            `json:"default_custom_fee"` // Custom(tag) 类型未单独配置时的费用

	// === 容量与时限 ===
	MaxClaimsPerProduct     int    `json:"max_claims_per_product"`     // 每个产品的声明容量 N
	VerificationTimeout     uint64 `json:"verification_timeout"`       // 本地声明超时（tick 数）
	MaxVerificationsPerTick int    `json:"max_verifications_per_tick"` // 每 tick 处理上限 L

	// === 载荷限制 ===
	MinProofSize      int `json:"min_proof_size"`
	MaxProofSize      int `json:"max_proof_size"`
	MaxMetadataLength int `json:"max_metadata_length"`

	// === 验证器配置 ===
	Verifier      string            `json:"verifier"`        // reference | groth16 | auto
	VerifyingKeys map[string]string `json:"verifying_keys"`  // 声明类型名 -> Groth16 验证密钥文件路径
	ResultCacheMB int               `json:"result_cache_mb"` // 验证结果缓存大小，0 表示不缓存

	// === 运行配置 ===
	TickInterval    time.Duration     `json:"tick_interval"`    // tick 驱动间隔
	GenesisBalances map[string]uint64 `json:"genesis_balances"` // 初始账户余额
}

// Config 原产地验证配置实现
type Config struct {
	options *OriginOptions
}

// New 创建原产地验证配置实现
func New(userConfig interface{}) *Config {
	defaultOptions := createDefaultOriginOptions()
	if userConfig != nil {
		applyUserOriginConfig(defaultOptions, userConfig)
	}
	return &Config{options: defaultOptions}
}

// NewFromOptions 从已解析的选项创建配置
func NewFromOptions(options *OriginOptions) *Config {
	if options == nil {
		return New(nil)
	}
	return &Config{options: options}
}

// createDefaultOriginOptions 创建默认配置
func createDefaultOriginOptions() *OriginOptions {
	fees := make(map[string]uint64, len(defaultFeeSchedule))
	for k, v := range defaultFeeSchedule {
		fees[k] = v
	}
	return &OriginOptions{
		AdminAccount:            defaultAdminAccount,
		AuthorizedVerifiers:     nil,
		FeeSchedule:             fees,
		DefaultCustomFee:        defaultCustomFee,
		MaxClaimsPerProduct:     defaultMaxClaimsPerProduct,
		VerificationTimeout:     defaultVerificationTimeout,
		MaxVerificationsPerTick: defaultMaxVerificationsPerTick,
		MinProofSize:            defaultMinProofSize,
		MaxProofSize:            defaultMaxProofSize,
		MaxMetadataLength:       defaultMaxMetadataLength,
		Verifier:                defaultVerifier,
		VerifyingKeys:           map[string]string{},
		ResultCacheMB:           defaultResultCacheMB,
		TickInterval:            defaultTickInterval,
		GenesisBalances:         map[string]uint64{},
	}
}

// applyUserOriginConfig 应用用户配置覆盖默认值
// 费用表按条目合并，未出现的类型保留默认费用
func applyUserOriginConfig(options *OriginOptions, userConfig interface{}) {
	cfg, ok := userConfig.(*types.UserOriginConfig)
	if !ok || cfg == nil {
		return
	}
	if cfg.AdminAccount != nil {
		options.AdminAccount = *cfg.AdminAccount
	}
	if len(cfg.AuthorizedVerifiers) > 0 {
		options.AuthorizedVerifiers = append([]string(nil), cfg.AuthorizedVerifiers...)
	}
	for k, v := range cfg.FeeSchedule {
		options.FeeSchedule[k] = v
	}
	if cfg.DefaultCustomFee != nil {
		options.DefaultCustomFee = *cfg.DefaultCustomFee
	}
	if cfg.MaxClaimsPerProduct != nil {
		options.MaxClaimsPerProduct = *cfg.MaxClaimsPerProduct
	}
	if cfg.VerificationTimeout != nil {
		options.VerificationTimeout = *cfg.VerificationTimeout
	}
	if cfg.MaxVerificationsPerTick != nil {
		options.MaxVerificationsPerTick = *cfg.MaxVerificationsPerTick
	}
	if cfg.MinProofSize != nil {
		options.MinProofSize = *cfg.MinProofSize
	}
	if cfg.MaxProofSize != nil {
		options.MaxProofSize = *cfg.MaxProofSize
	}
	if cfg.MaxMetadataLength != nil {
		options.MaxMetadataLength = *cfg.MaxMetadataLength
	}
	if cfg.Verifier != nil {
		options.Verifier = *cfg.Verifier
	}
	for k, v := range cfg.VerifyingKeys {
		options.VerifyingKeys[k] = v
	}
	if cfg.ResultCacheMB != nil {
		options.ResultCacheMB = *cfg.ResultCacheMB
	}
	if cfg.TickInterval != nil {
		if d, err := time.ParseDuration(*cfg.TickInterval); err == nil && d > 0 {
			options.TickInterval = d
		}
	}
	for k, v := range cfg.GenesisBalances {
		options.GenesisBalances[k] = v
	}
}

// GetOptions 获取完整配置选项
func (c *Config) GetOptions() *OriginOptions {
	return c.options
}

// Validate 校验配置取值
func (c *Config) Validate() error {
	o := c.options
	if o.AdminAccount == "" {
		return fmt.Errorf("admin_account 不能为空")
	}
	if o.MaxClaimsPerProduct <= 0 {
		return fmt.Errorf("max_claims_per_product 必须大于0: %d", o.MaxClaimsPerProduct)
	}
	if o.VerificationTimeout == 0 {
		return fmt.Errorf("verification_timeout 必须大于0")
	}
	if o.MaxVerificationsPerTick <= 0 {
		return fmt.Errorf("max_verifications_per_tick 必须大于0: %d", o.MaxVerificationsPerTick)
	}
	if o.MinProofSize < 1 || o.MaxProofSize < o.MinProofSize {
		return fmt.Errorf("证明长度范围无效: [%d, %d]", o.MinProofSize, o.MaxProofSize)
	}
	if o.MaxMetadataLength < 0 {
		return fmt.Errorf("max_metadata_length 不能为负数")
	}
	switch o.Verifier {
	case VerifierReference, VerifierGroth16, VerifierAuto:
	default:
		return fmt.Errorf("未知验证器类型: %q", o.Verifier)
	}
	if _, err := c.FeeTable(); err != nil {
		return err
	}
	return nil
}

// FeeTable 将费用表解析为声明类型映射
func (c *Config) FeeTable() (map[types.ClaimType]types.Balance, error) {
	table := make(map[types.ClaimType]types.Balance, len(c.options.FeeSchedule))
	for name, fee := range c.options.FeeSchedule {
		ct, err := types.ParseClaimType(name)
		if err != nil {
			return nil, fmt.Errorf("费用表条目 %q 无效: %w", name, err)
		}
		table[ct] = types.Balance(fee)
	}
	return table, nil
}

// Verifiers 返回授权验证者账户列表（去重、排序）
func (c *Config) Verifiers() []types.AccountID {
	seen := make(map[string]struct{}, len(c.options.AuthorizedVerifiers))
	out := make([]types.AccountID, 0, len(c.options.AuthorizedVerifiers))
	for _, v := range c.options.AuthorizedVerifiers {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, types.AccountID(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GetAdmin 获取管理员账户
func (c *Config) GetAdmin() types.AccountID {
	return types.AccountID(c.options.AdminAccount)
}

// GetTickInterval 获取 tick 间隔
func (c *Config) GetTickInterval() time.Duration {
	return c.options.TickInterval
}
