package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cuemby/stackboot/pkg/config"
	"github.com/cuemby/stackboot/pkg/log"
	"github.com/cuemby/stackboot/pkg/role"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(role.ExitInitFailure)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stackboot ROLE [ARGS...]",
	Short: "Stackboot - container entrypoint for the data stack cluster",
	Long: `Stackboot is the startup orchestrator run as every container's
entrypoint. Given a role it performs one-time idempotent initialization,
waits for upstream dependencies to become reachable, launches the role's
daemon as a supervised foreground process, and forwards termination
signals for graceful shutdown.

Known roles: storage-master, storage-worker, resource-master,
resource-worker, metadata-service, query-server, compute-master,
compute-worker, compute-history.

Any other first argument is executed directly with the remaining
arguments (debugging escape hatch).`,
	Version: Version,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		log.Init(log.FromEnv())
		log.WithBootID(uuid.NewString())

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Termination signals cancel this context so a SIGTERM during
		// initialization or a dependency wait exits cleanly instead of
		// dying to the runtime default. Once the daemon is launched the
		// supervisor forwards the same signals to it.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
		defer stop()

		d := role.NewDispatcher(cfg)
		code, err := d.Dispatch(ctx, args[0], args[1:])
		if err != nil {
			log.Errorf("startup failed", err)
		}
		os.Exit(code)
		return nil
	},
}

func init() {
	// Set version template
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Stackboot version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	// Stop flag parsing at the first positional so fallback commands keep
	// their own flags
	rootCmd.Flags().SetInterspersed(false)
}
