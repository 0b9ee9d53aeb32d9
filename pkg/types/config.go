// Package types provides configuration type definitions.
package types

// AppConfig 应用程序根配置
// 只包含配置文件解析所需的结构，指针字段为 nil 表示使用默认值
// 默认值和完整配置结构在 internal/config/*/defaults.go 和 internal/config/*/config.go 中定义
type AppConfig struct {
	// 应用程序基本信息
	AppName *string `json:"app_name,omitempty" mapstructure:"app_name"` // 应用名称
	DataDir *string `json:"data_dir,omitempty" mapstructure:"data_dir"` // 数据目录路径

	// 日志配置
	Log *UserLogConfig `json:"log,omitempty" mapstructure:"log"`

	// 事件配置
	Event *UserEventConfig `json:"event,omitempty" mapstructure:"event"`

	// 存储配置
	Storage *UserStorageConfig `json:"storage,omitempty" mapstructure:"storage"`

	// API服务配置
	API *UserAPIConfig `json:"api,omitempty" mapstructure:"api"`

	// 原产地验证核心配置
	Origin *UserOriginConfig `json:"origin,omitempty" mapstructure:"origin"`

	// 跨链投递配置
	Delivery *UserDeliveryConfig `json:"delivery,omitempty" mapstructure:"delivery"`
}

// UserLogConfig 用户日志配置
type UserLogConfig struct {
	Level     *string `json:"level,omitempty" mapstructure:"level"`         // 日志级别
	FilePath  *string `json:"file_path,omitempty" mapstructure:"file_path"` // 日志文件路径
	ToConsole *bool   `json:"to_console,omitempty" mapstructure:"to_console"`
	Format    *string `json:"format,omitempty" mapstructure:"format"` // console | json（控制台输出编码）
	MaxSizeMB *int    `json:"max_size_mb,omitempty" mapstructure:"max_size_mb"`
}

// UserEventConfig 用户事件配置
type UserEventConfig struct {
	Enabled *bool `json:"enabled,omitempty" mapstructure:"enabled"`
}

// UserStorageConfig 用户存储配置
type UserStorageConfig struct {
	DataRoot   *string `json:"data_root,omitempty" mapstructure:"data_root"`     // 存储根目录，Badger 位于 {data_root}/badger
	InMemory   *bool   `json:"in_memory,omitempty" mapstructure:"in_memory"`     // 使用内存模式（不落盘）
	SyncWrites *bool   `json:"sync_writes,omitempty" mapstructure:"sync_writes"` // 同步写入
	Disabled   *bool   `json:"disabled,omitempty" mapstructure:"disabled"`       // 关闭持久化镜像

	MemTableSizeMB *int `json:"mem_table_size_mb,omitempty" mapstructure:"mem_table_size_mb"` // 内存表大小（MB）
}

// UserAPIConfig 用户API配置
type UserAPIConfig struct {
	Enabled                *bool    `json:"enabled,omitempty" mapstructure:"enabled"`
	Host                   *string  `json:"host,omitempty" mapstructure:"host"`
	Port                   *int     `json:"port,omitempty" mapstructure:"port"`
	WriteRequestsPerSecond *float64 `json:"write_requests_per_second,omitempty" mapstructure:"write_requests_per_second"`
}

// UserOriginConfig 用户原产地验证配置
type UserOriginConfig struct {
	AdminAccount            *string           `json:"admin_account,omitempty" mapstructure:"admin_account"`
	AuthorizedVerifiers     []string          `json:"authorized_verifiers,omitempty" mapstructure:"authorized_verifiers"`
	FeeSchedule             map[string]uint64 `json:"fee_schedule,omitempty" mapstructure:"fee_schedule"`
	DefaultCustomFee        *uint64           `json:"default_custom_fee,omitempty" mapstructure:"default_custom_fee"`
	MaxClaimsPerProduct     *int              `json:"max_claims_per_product,omitempty" mapstructure:"max_claims_per_product"`
	VerificationTimeout     *uint64           `json:"verification_timeout,omitempty" mapstructure:"verification_timeout"`
	MaxVerificationsPerTick *int              `json:"max_verifications_per_tick,omitempty" mapstructure:"max_verifications_per_tick"`
	MinProofSize            *int              `json:"min_proof_size,omitempty" mapstructure:"min_proof_size"`
	MaxProofSize            *int              `json:"max_proof_size,omitempty" mapstructure:"max_proof_size"`
	MaxMetadataLength       *int              `json:"max_metadata_length,omitempty" mapstructure:"max_metadata_length"`
	Verifier                *string           `json:"verifier,omitempty" mapstructure:"verifier"`
	VerifyingKeys           map[string]string `json:"verifying_keys,omitempty" mapstructure:"verifying_keys"`
	ResultCacheMB           *int              `json:"result_cache_mb,omitempty" mapstructure:"result_cache_mb"`
	TickInterval            *string           `json:"tick_interval,omitempty" mapstructure:"tick_interval"`
	GenesisBalances         map[string]uint64 `json:"genesis_balances,omitempty" mapstructure:"genesis_balances"`
}

// UserDeliveryConfig 用户跨链投递配置
type UserDeliveryConfig struct {
	Transport     *string `json:"transport,omitempty" mapstructure:"transport"` // memory | redis
	LocalID       *uint32 `json:"local_id,omitempty" mapstructure:"local_id"`   // 本链对端标识
	RedisAddr     *string `json:"redis_addr,omitempty" mapstructure:"redis_addr"`
	RedisPassword *string `json:"redis_password,omitempty" mapstructure:"redis_password"`
	RedisDB       *int    `json:"redis_db,omitempty" mapstructure:"redis_db"`
	ChannelPrefix *string `json:"channel_prefix,omitempty" mapstructure:"channel_prefix"`
}

// BoolPtr 创建bool指针，用于明确表示用户设置了该值
func BoolPtr(v bool) *bool {
	return &v
}

// IntPtr 创建int指针，用于明确表示用户设置了该值
func IntPtr(v int) *int {
	return &v
}

// StringPtr 创建string指针，用于明确表示用户设置了该值
func StringPtr(v string) *string {
	return &v
}

// UInt64Ptr 创建uint64指针，用于明确表示用户设置了该值
func UInt64Ptr(v uint64) *uint64 {
	return &v
}
