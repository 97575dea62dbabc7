/*
Package config resolves the orchestrator's runtime configuration from the
container environment.

Everything a startup recipe needs — daemon install roots, configuration
directories, the storage data path, shared directory locations, upstream
dependency endpoints, and retry budgets — is environment-supplied by the
scheduler, with defaults matching the stock images. An optional YAML file
(STACKBOOT_CONFIG) overrides individual fields for deployments that prefer
mounted config over long env lists.

# Resolution Order

	defaults  ◀──  environment variables  ◀──  STACKBOOT_CONFIG yaml

Later sources win per field. YAML fields left unset keep the
environment-derived value, so the file only needs to name what it changes.

# Environment Variables

Install roots and conf dirs:

	STORAGE_HOME, STORAGE_CONF_DIR, RESOURCE_HOME, RESOURCE_CONF_DIR,
	METASTORE_HOME, METASTORE_CONF_DIR, QUERY_HOME, COMPUTE_HOME

Paths:

	STORAGE_DATA_DIR, WAREHOUSE_DIR, EVENTLOG_DIR

Dependency endpoints (hosts are platform DNS service names):

	STORAGE_MASTER_HOST/PORT, RESOURCE_MASTER_HOST/PORT,
	METADATA_SERVICE_HOST/PORT, COMPUTE_MASTER_HOST/PORT,
	DB_HOST, DB_PORT, DB_URL

Retry budgets:

	PROBE_ATTEMPTS, PROBE_DELAY_SECONDS,
	MIGRATE_ATTEMPTS, MIGRATE_DELAY_SECONDS

# Usage

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	err = probe.WaitForPort(ctx, cfg.StorageMaster(), cfg.ProbePolicy())

Values are read, not validated: a missing install root surfaces as a launch
failure of the daemon itself, which is a clearer signal than a speculative
pre-check here.
*/
package config
