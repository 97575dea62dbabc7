package role

import (
	"path/filepath"

	"github.com/cuemby/stackboot/pkg/config"
	"github.com/cuemby/stackboot/pkg/probe"
)

// Recipe is a role's startup routine: guarded initializers, then readiness
// waits on upstream dependencies, then exactly one daemon launch. The order
// of waits is insignificant but all must succeed.
type Recipe struct {
	// Init steps run first, in order
	Init []InitStep

	// Waits declares the endpoints that must be reachable before launch
	// (nil for roles with no upstream dependencies)
	Waits func(cfg *config.Config) []probe.Endpoint

	// Command builds the daemon's argv from configuration
	Command func(cfg *config.Config) []string
}

// recipes is the per-role startup table. Adding a role means adding one
// entry here; nothing is duplicated per role.
var recipes = map[Role]Recipe{
	StorageMaster: {
		Init: []InitStep{InitFormatStorage},
		Command: func(cfg *config.Config) []string {
			return []string{bin(cfg.StorageHome, "storaged"), "master", "--conf", cfg.StorageConfDir}
		},
	},
	StorageWorker: {
		Waits: func(cfg *config.Config) []probe.Endpoint {
			return []probe.Endpoint{cfg.StorageMaster()}
		},
		Command: func(cfg *config.Config) []string {
			return []string{bin(cfg.StorageHome, "storaged"), "worker", "--conf", cfg.StorageConfDir}
		},
	},
	ResourceMaster: {
		Command: func(cfg *config.Config) []string {
			return []string{bin(cfg.ResourceHome, "resourced"), "master", "--conf", cfg.ResourceConfDir}
		},
	},
	ResourceWorker: {
		Waits: func(cfg *config.Config) []probe.Endpoint {
			return []probe.Endpoint{cfg.ResourceMaster(), cfg.StorageMaster()}
		},
		Command: func(cfg *config.Config) []string {
			return []string{bin(cfg.ResourceHome, "resourced"), "worker", "--conf", cfg.ResourceConfDir}
		},
	},
	MetadataService: {
		Init: []InitStep{InitMigrateSchema},
		Waits: func(cfg *config.Config) []probe.Endpoint {
			return []probe.Endpoint{cfg.Database()}
		},
		Command: func(cfg *config.Config) []string {
			return []string{bin(cfg.MetastoreHome, "metastored"), "--conf", cfg.MetastoreConfDir}
		},
	},
	QueryServer: {
		Init: []InitStep{InitEnsureSharedDirs},
		Waits: func(cfg *config.Config) []probe.Endpoint {
			return []probe.Endpoint{cfg.StorageMaster(), cfg.MetadataService()}
		},
		Command: func(cfg *config.Config) []string {
			return []string{bin(cfg.QueryHome, "queryd")}
		},
	},
	ComputeMaster: {
		Init: []InitStep{InitEnsureSharedDirs},
		Command: func(cfg *config.Config) []string {
			return []string{bin(cfg.ComputeHome, "computed"), "master"}
		},
	},
	ComputeWorker: {
		Init: []InitStep{InitEnsureSharedDirs},
		Waits: func(cfg *config.Config) []probe.Endpoint {
			return []probe.Endpoint{cfg.ComputeMaster()}
		},
		Command: func(cfg *config.Config) []string {
			return []string{bin(cfg.ComputeHome, "computed"), "worker", cfg.ComputeMaster().Addr()}
		},
	},
	ComputeHistory: {
		Init: []InitStep{InitEnsureSharedDirs},
		Command: func(cfg *config.Config) []string {
			return []string{bin(cfg.ComputeHome, "computed"), "history"}
		},
	},
}

// Lookup returns a role's recipe, reporting whether the identifier is in
// the closed set
func Lookup(r Role) (Recipe, bool) {
	recipe, ok := recipes[r]
	return recipe, ok
}

func bin(home, name string) string {
	return filepath.Join(home, "bin", name)
}
