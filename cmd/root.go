package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entitydiff/entitydiff/cmd/diff"
	"github.com/entitydiff/entitydiff/cmd/snapshot"
	"github.com/entitydiff/entitydiff/internal/logger"
	"github.com/entitydiff/entitydiff/internal/version"
)

var Debug bool

var RootCmd = &cobra.Command{
	Use:   "entitydiff",
	Short: "Persistence schema snapshot comparison tool",
	Long: fmt.Sprintf(`entitydiff compares two snapshots of a persistence schema and reports what changed
between them, flagging changes that may lose data.

Version: %s

Commands:
  diff      Compare two schema snapshots
  snapshot  Manage snapshots in the snapshot store
  version   Show version information

Use "entitydiff [command] --help" for more information about a command.`, version.String()),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Setup(os.Stderr, Debug)
	},
}

func init() {
	// snapshot defines its own persistent pre-run; keep the root one running too
	cobra.EnableTraverseRunHooks = true

	RootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "Enable debug logging")
	RootCmd.AddCommand(diff.DiffCmd)
	RootCmd.AddCommand(snapshot.SnapshotCmd)
	RootCmd.AddCommand(VersionCmd)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
