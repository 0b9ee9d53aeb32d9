package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/weisyn/originverifier/pkg/types"
)

// EnvPrefix 环境变量前缀，如 ORIGIN_API_PORT 覆盖 api.port
const EnvPrefix = "ORIGIN"

// envKeys 允许通过环境变量覆盖的标量配置项
var envKeys = []string{
	"app_name",
	"data_dir",
	"log.level",
	"log.file_path",
	"log.to_console",
	"log.format",
	"event.enabled",
	"storage.data_root",
	"storage.in_memory",
	"storage.sync_writes",
	"storage.disabled",
	"storage.mem_table_size_mb",
	"api.enabled",
	"api.host",
	"api.port",
	"api.write_requests_per_second",
	"origin.admin_account",
	"origin.default_custom_fee",
	"origin.max_claims_per_product",
	"origin.verification_timeout",
	"origin.max_verifications_per_tick",
	"origin.min_proof_size",
	"origin.max_proof_size",
	"origin.max_metadata_length",
	"origin.verifier",
	"origin.result_cache_mb",
	"origin.tick_interval",
	"delivery.transport",
	"delivery.local_id",
	"delivery.redis_addr",
	"delivery.redis_password",
	"delivery.redis_db",
	"delivery.channel_prefix",
}

// LoadAppConfig 读取配置文件并应用 ORIGIN_* 环境变量覆盖
//
// path 为空时只读取环境变量；文件格式由扩展名决定（json/yaml/toml）。
func LoadAppConfig(path string) (*types.AppConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("绑定环境变量 %s 失败: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("配置文件不存在: %s", path)
			}
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg types.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	return &cfg, nil
}
