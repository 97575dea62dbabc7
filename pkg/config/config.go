package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cuemby/stackboot/pkg/probe"
	"github.com/cuemby/stackboot/pkg/retry"
)

// Defaults for install roots and shared paths. Images bake the daemons into
// these locations; deployments override via environment.
const (
	DefaultStorageHome   = "/opt/storage"
	DefaultResourceHome  = "/opt/resource"
	DefaultMetastoreHome = "/opt/metastore"
	DefaultQueryHome     = "/opt/query"
	DefaultComputeHome   = "/opt/compute"

	DefaultStorageDataDir = "/data/storage"
	DefaultWarehouseDir   = "/shared/warehouse"
	DefaultEventLogDir    = "/shared/eventlog"

	DefaultDatabaseURL = "postgresql://metastore:metastore@db:5432/metastore?sslmode=disable"
)

// Config carries everything a role recipe needs: daemon install roots,
// configuration directories, data paths, and the network endpoints of
// upstream dependencies. Values come from the environment with defaults;
// an optional YAML file overrides both.
type Config struct {
	// Install roots and conf dirs per component
	StorageHome      string `yaml:"storage_home"`
	StorageConfDir   string `yaml:"storage_conf_dir"`
	ResourceHome     string `yaml:"resource_home"`
	ResourceConfDir  string `yaml:"resource_conf_dir"`
	MetastoreHome    string `yaml:"metastore_home"`
	MetastoreConfDir string `yaml:"metastore_conf_dir"`
	QueryHome        string `yaml:"query_home"`
	ComputeHome      string `yaml:"compute_home"`

	// StorageDataDir is the storage daemon's data path; the format
	// sentinel lives underneath it
	StorageDataDir string `yaml:"storage_data_dir"`

	// SharedDirs are created world-writable for cross-role writers
	SharedDirs []string `yaml:"shared_dirs"`

	// Upstream dependency endpoints, resolved via platform DNS
	StorageMasterHost   string `yaml:"storage_master_host"`
	StorageMasterPort   int    `yaml:"storage_master_port"`
	ResourceMasterHost  string `yaml:"resource_master_host"`
	ResourceMasterPort  int    `yaml:"resource_master_port"`
	MetadataServiceHost string `yaml:"metadata_service_host"`
	MetadataServicePort int    `yaml:"metadata_service_port"`
	ComputeMasterHost   string `yaml:"compute_master_host"`
	ComputeMasterPort   int    `yaml:"compute_master_port"`
	DatabaseHost        string `yaml:"database_host"`
	DatabasePort        int    `yaml:"database_port"`

	// DatabaseURL is the relational store DSN used by the schema probe
	DatabaseURL string `yaml:"database_url"`

	// Retry budgets
	ProbeAttempts   int `yaml:"probe_attempts"`
	ProbeDelaySec   int `yaml:"probe_delay_seconds"`
	MigrateAttempts int `yaml:"migrate_attempts"`
	MigrateDelaySec int `yaml:"migrate_delay_seconds"`
}

// FromEnv builds a Config from the environment, applying defaults for
// anything unset. Values are read, not validated; call sites check
// existence where they need it.
func FromEnv() *Config {
	storageHome := getenv("STORAGE_HOME", DefaultStorageHome)
	resourceHome := getenv("RESOURCE_HOME", DefaultResourceHome)
	metastoreHome := getenv("METASTORE_HOME", DefaultMetastoreHome)

	return &Config{
		StorageHome:      storageHome,
		StorageConfDir:   getenv("STORAGE_CONF_DIR", filepath.Join(storageHome, "etc")),
		ResourceHome:     resourceHome,
		ResourceConfDir:  getenv("RESOURCE_CONF_DIR", filepath.Join(resourceHome, "etc")),
		MetastoreHome:    metastoreHome,
		MetastoreConfDir: getenv("METASTORE_CONF_DIR", filepath.Join(metastoreHome, "etc")),
		QueryHome:        getenv("QUERY_HOME", DefaultQueryHome),
		ComputeHome:      getenv("COMPUTE_HOME", DefaultComputeHome),

		StorageDataDir: getenv("STORAGE_DATA_DIR", DefaultStorageDataDir),
		SharedDirs: []string{
			getenv("WAREHOUSE_DIR", DefaultWarehouseDir),
			getenv("EVENTLOG_DIR", DefaultEventLogDir),
		},

		StorageMasterHost:   getenv("STORAGE_MASTER_HOST", "storage-master"),
		StorageMasterPort:   getenvInt("STORAGE_MASTER_PORT", 8020),
		ResourceMasterHost:  getenv("RESOURCE_MASTER_HOST", "resource-master"),
		ResourceMasterPort:  getenvInt("RESOURCE_MASTER_PORT", 8032),
		MetadataServiceHost: getenv("METADATA_SERVICE_HOST", "metadata-service"),
		MetadataServicePort: getenvInt("METADATA_SERVICE_PORT", 9083),
		ComputeMasterHost:   getenv("COMPUTE_MASTER_HOST", "compute-master"),
		ComputeMasterPort:   getenvInt("COMPUTE_MASTER_PORT", 7077),
		DatabaseHost:        getenv("DB_HOST", "db"),
		DatabasePort:        getenvInt("DB_PORT", 5432),

		DatabaseURL: getenv("DB_URL", DefaultDatabaseURL),

		ProbeAttempts:   getenvInt("PROBE_ATTEMPTS", 60),
		ProbeDelaySec:   getenvInt("PROBE_DELAY_SECONDS", 2),
		MigrateAttempts: getenvInt("MIGRATE_ATTEMPTS", 5),
		MigrateDelaySec: getenvInt("MIGRATE_DELAY_SECONDS", 2),
	}
}

// Load builds a Config from the environment and, if STACKBOOT_CONFIG names
// a YAML file, applies its fields on top. Unset YAML fields keep their
// environment-derived values.
func Load() (*Config, error) {
	cfg := FromEnv()

	path := os.Getenv("STACKBOOT_CONFIG")
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// StorageMaster returns the storage master's client RPC endpoint
func (c *Config) StorageMaster() probe.Endpoint {
	return probe.Endpoint{Host: c.StorageMasterHost, Port: c.StorageMasterPort}
}

// ResourceMaster returns the resource manager's scheduler endpoint
func (c *Config) ResourceMaster() probe.Endpoint {
	return probe.Endpoint{Host: c.ResourceMasterHost, Port: c.ResourceMasterPort}
}

// MetadataService returns the metadata catalog's thrift endpoint
func (c *Config) MetadataService() probe.Endpoint {
	return probe.Endpoint{Host: c.MetadataServiceHost, Port: c.MetadataServicePort}
}

// ComputeMaster returns the compute master's cluster endpoint
func (c *Config) ComputeMaster() probe.Endpoint {
	return probe.Endpoint{Host: c.ComputeMasterHost, Port: c.ComputeMasterPort}
}

// Database returns the relational store endpoint
func (c *Config) Database() probe.Endpoint {
	return probe.Endpoint{Host: c.DatabaseHost, Port: c.DatabasePort}
}

// ProbePolicy is the retry budget for dependency readiness waits
func (c *Config) ProbePolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.ProbeAttempts,
		Delay:       time.Duration(c.ProbeDelaySec) * time.Second,
		Strategy:    retry.StrategyFixed,
	}
}

// MigratePolicy is the retry budget for schema migration attempts
func (c *Config) MigratePolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.MigrateAttempts,
		Delay:       time.Duration(c.MigrateDelaySec) * time.Second,
		Strategy:    retry.StrategyExponential,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
