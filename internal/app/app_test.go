package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/weisyn/originverifier/pkg/types"
)

func TestBootstrap_ValidateGraph(t *testing.T) {
	cfg := &types.AppConfig{
		Storage: &types.UserStorageConfig{InMemory: types.BoolPtr(true)},
	}

	t.Run("完整装配", func(t *testing.T) {
		b := NewBootstrap(newOptions(WithAppConfig(cfg)))
		require.NoError(t, fx.ValidateApp(b.Options()))
	})

	t.Run("关闭API", func(t *testing.T) {
		b := NewBootstrap(newOptions(WithAppConfig(cfg), WithoutAPI()))
		assert.Empty(t, b.SetupApplicationLayer())
		require.NoError(t, fx.ValidateApp(b.Options()))
	})
}

func TestOptions_Defaults(t *testing.T) {
	opts := newOptions(WithConfigFile("node.yaml"))
	assert.True(t, opts.enableAPI)
	assert.Equal(t, "node.yaml", opts.configFilePath)
	assert.NotNil(t, opts.GetAppConfig())
}

func TestLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.yaml")
	content := `
app_name: origin-test
api:
  port: 9100
origin:
  admin_account: admin
  authorized_verifiers: [bob, carol]
  max_verifications_per_tick: 5
  fee_schedule:
    origin_country: 120
delivery:
  transport: memory
  local_id: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Run("读取文件", func(t *testing.T) {
		cfg, err := LoadAppConfig(path)
		require.NoError(t, err)
		require.NotNil(t, cfg.AppName)
		assert.Equal(t, "origin-test", *cfg.AppName)
		require.NotNil(t, cfg.API)
		assert.Equal(t, 9100, *cfg.API.Port)
		require.NotNil(t, cfg.Origin)
		assert.Equal(t, "admin", *cfg.Origin.AdminAccount)
		assert.Equal(t, []string{"bob", "carol"}, cfg.Origin.AuthorizedVerifiers)
		assert.Equal(t, 5, *cfg.Origin.MaxVerificationsPerTick)
		assert.Equal(t, uint64(120), cfg.Origin.FeeSchedule["origin_country"])
		assert.Equal(t, uint32(7), *cfg.Delivery.LocalID)
	})

	t.Run("环境变量覆盖", func(t *testing.T) {
		t.Setenv("ORIGIN_API_PORT", "9200")
		t.Setenv("ORIGIN_ORIGIN_VERIFICATION_TIMEOUT", "25")
		cfg, err := LoadAppConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 9200, *cfg.API.Port)
		require.NotNil(t, cfg.Origin.VerificationTimeout)
		assert.Equal(t, uint64(25), *cfg.Origin.VerificationTimeout)
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, err := LoadAppConfig(filepath.Join(dir, "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("无文件时仅读环境变量", func(t *testing.T) {
		t.Setenv("ORIGIN_DATA_DIR", "/tmp/origin")
		cfg, err := LoadAppConfig("")
		require.NoError(t, err)
		require.NotNil(t, cfg.DataDir)
		assert.Equal(t, "/tmp/origin", *cfg.DataDir)
	})
}
