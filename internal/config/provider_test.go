package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/originverifier/pkg/types"
)

// TestProvider_Defaults 测试未配置时的默认值
func TestProvider_Defaults(t *testing.T) {
	provider := NewProvider(nil)

	origin := provider.GetOrigin()
	require.NotNil(t, origin)
	assert.Equal(t, 10, origin.MaxClaimsPerProduct)
	assert.Equal(t, uint64(10), origin.VerificationTimeout)
	assert.Equal(t, 10, origin.MaxVerificationsPerTick)
	assert.Equal(t, uint64(100), origin.FeeSchedule["origin_country"])
	assert.Equal(t, "reference", origin.Verifier)

	assert.Equal(t, "memory", provider.GetDelivery().Transport)
	assert.True(t, provider.GetEvent().Enabled)
	assert.Equal(t, "originverifier", provider.GetAppName())

	require.NoError(t, ValidateConfig(provider))
}

// TestProvider_UserOverrides 测试用户配置覆盖
func TestProvider_UserOverrides(t *testing.T) {
	dir := t.TempDir()
	cfg := &types.AppConfig{
		DataDir: types.StringPtr(dir),
		Origin: &types.UserOriginConfig{
			AdminAccount:            types.StringPtr("root"),
			FeeSchedule:             map[string]uint64{"shipping": 7, "custom:halal": 9},
			MaxVerificationsPerTick: types.IntPtr(3),
			TickInterval:            types.StringPtr("250ms"),
		},
		Storage: &types.UserStorageConfig{InMemory: types.BoolPtr(true)},
	}
	provider := NewProvider(cfg)

	t.Run("费用表按条目合并", func(t *testing.T) {
		origin := provider.GetOrigin()
		assert.Equal(t, "root", origin.AdminAccount)
		assert.Equal(t, uint64(7), origin.FeeSchedule["shipping"])
		assert.Equal(t, uint64(9), origin.FeeSchedule["custom:halal"])
		assert.Equal(t, uint64(150), origin.FeeSchedule["manufacturing"])
		assert.Equal(t, 3, origin.MaxVerificationsPerTick)
		assert.Equal(t, "250ms", origin.TickInterval.String())
	})

	t.Run("badger路径落在数据目录下", func(t *testing.T) {
		badger := provider.GetBadger()
		assert.Equal(t, filepath.Join(dir, "badger"), badger.Path)
		assert.True(t, badger.InMemory)
	})
}

// TestValidateConfig 测试配置校验
func TestValidateConfig(t *testing.T) {
	t.Run("非法验证器类型", func(t *testing.T) {
		cfg := &types.AppConfig{Origin: &types.UserOriginConfig{Verifier: types.StringPtr("magic")}}
		err := ValidateConfig(NewProvider(cfg))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "origin")
	})

	t.Run("非法费用表类型名", func(t *testing.T) {
		cfg := &types.AppConfig{Origin: &types.UserOriginConfig{FeeSchedule: map[string]uint64{"bogus": 1}}}
		require.Error(t, ValidateConfig(NewProvider(cfg)))
	})

	t.Run("内存表过小", func(t *testing.T) {
		cfg := &types.AppConfig{Storage: &types.UserStorageConfig{InMemory: types.BoolPtr(true)}}
		require.NoError(t, ValidateConfig(NewProvider(cfg)))

		cfg.Storage.MemTableSizeMB = types.IntPtr(0)
		err := ValidateConfig(NewProvider(cfg))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage")
	})

	t.Run("未知投递传输", func(t *testing.T) {
		cfg := &types.AppConfig{Delivery: &types.UserDeliveryConfig{Transport: types.StringPtr("carrier-pigeon")}}
		err := ValidateConfig(NewProvider(cfg))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "delivery")
	})

	t.Run("零容量", func(t *testing.T) {
		cfg := &types.AppConfig{Origin: &types.UserOriginConfig{MaxClaimsPerProduct: types.IntPtr(0)}}
		require.Error(t, ValidateConfig(NewProvider(cfg)))
	})
}
