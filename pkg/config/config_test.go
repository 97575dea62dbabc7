package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/stackboot/pkg/retry"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, DefaultStorageHome, cfg.StorageHome)
	assert.Equal(t, filepath.Join(DefaultStorageHome, "etc"), cfg.StorageConfDir)
	assert.Equal(t, DefaultStorageDataDir, cfg.StorageDataDir)
	assert.Equal(t, []string{DefaultWarehouseDir, DefaultEventLogDir}, cfg.SharedDirs)
	assert.Equal(t, "storage-master:8020", cfg.StorageMaster().Addr())
	assert.Equal(t, "resource-master:8032", cfg.ResourceMaster().Addr())
	assert.Equal(t, "metadata-service:9083", cfg.MetadataService().Addr())
	assert.Equal(t, "compute-master:7077", cfg.ComputeMaster().Addr())
	assert.Equal(t, "db:5432", cfg.Database().Addr())
	assert.Equal(t, DefaultDatabaseURL, cfg.DatabaseURL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STORAGE_HOME", "/srv/storage")
	t.Setenv("STORAGE_MASTER_HOST", "nn1.cluster.internal")
	t.Setenv("STORAGE_MASTER_PORT", "9820")
	t.Setenv("PROBE_ATTEMPTS", "7")
	t.Setenv("PROBE_DELAY_SECONDS", "3")

	cfg := FromEnv()

	assert.Equal(t, "/srv/storage", cfg.StorageHome)
	// Conf dir default follows the overridden home
	assert.Equal(t, "/srv/storage/etc", cfg.StorageConfDir)
	assert.Equal(t, "nn1.cluster.internal:9820", cfg.StorageMaster().Addr())

	policy := cfg.ProbePolicy()
	assert.Equal(t, 7, policy.MaxAttempts)
	assert.Equal(t, 3*time.Second, policy.Delay)
	assert.Equal(t, retry.StrategyFixed, policy.Strategy)
}

func TestFromEnv_BadIntFallsBack(t *testing.T) {
	t.Setenv("STORAGE_MASTER_PORT", "not-a-port")

	cfg := FromEnv()
	assert.Equal(t, 8020, cfg.StorageMasterPort)
}

func TestMigratePolicy_Exponential(t *testing.T) {
	cfg := FromEnv()
	policy := cfg.MigratePolicy()

	assert.Equal(t, retry.StrategyExponential, policy.Strategy)
	assert.Equal(t, 5, policy.MaxAttempts)
}

func TestLoad_YAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stackboot.yaml")
	content := []byte("storage_master_host: nn.override\nprobe_attempts: 9\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	t.Setenv("STACKBOOT_CONFIG", path)
	t.Setenv("STORAGE_MASTER_PORT", "9820")

	cfg, err := Load()
	require.NoError(t, err)

	// YAML wins over env for fields it names
	assert.Equal(t, "nn.override", cfg.StorageMasterHost)
	assert.Equal(t, 9, cfg.ProbeAttempts)
	// Fields absent from YAML keep their env-derived values
	assert.Equal(t, 9820, cfg.StorageMasterPort)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("STACKBOOT_CONFIG", "/nonexistent/stackboot.yaml")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_NoConfigFileSet(t *testing.T) {
	t.Setenv("STACKBOOT_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultStorageHome, cfg.StorageHome)
}
