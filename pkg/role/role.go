package role

// Role is the fixed identity a container is started with. The set is
// closed; any other startup argument takes the fallback execution path.
type Role string

const (
	StorageMaster   Role = "storage-master"
	StorageWorker   Role = "storage-worker"
	ResourceMaster  Role = "resource-master"
	ResourceWorker  Role = "resource-worker"
	MetadataService Role = "metadata-service"
	QueryServer     Role = "query-server"
	ComputeMaster   Role = "compute-master"
	ComputeWorker   Role = "compute-worker"
	ComputeHistory  Role = "compute-history"
)

// All returns the closed role set
func All() []Role {
	return []Role{
		StorageMaster,
		StorageWorker,
		ResourceMaster,
		ResourceWorker,
		MetadataService,
		QueryServer,
		ComputeMaster,
		ComputeWorker,
		ComputeHistory,
	}
}

// InitStep identifies one guarded initializer action in a recipe
type InitStep string

const (
	InitFormatStorage    InitStep = "format-storage"
	InitMigrateSchema    InitStep = "migrate-schema"
	InitEnsureSharedDirs InitStep = "ensure-shared-dirs"
)

// Phase tracks the container's position in the startup state machine.
// Initializing may jump straight to Exited on unrecoverable setup failure;
// Waiting may do the same on dependency timeout. Terminating is entered only
// via an external signal, surfaced by the supervisor's forward path.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseInitializing Phase = "initializing"
	PhaseWaiting      Phase = "waiting"
	PhaseRunning      Phase = "running"
	PhaseTerminating  Phase = "terminating"
	PhaseExited       Phase = "exited"
)
