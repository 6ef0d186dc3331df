package snapshot

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/entitydiff/entitydiff/cmd/util"
	"github.com/entitydiff/entitydiff/internal/fingerprint"
	"github.com/entitydiff/entitydiff/internal/loader"
	"github.com/entitydiff/entitydiff/internal/logger"
	"github.com/entitydiff/entitydiff/internal/model"
	"github.com/entitydiff/entitydiff/internal/store"
)

var (
	databaseURL  string
	snapshotFile string
	versionLabel string
	showFormat   string
	forceSave    bool
)

var SnapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage schema snapshots in the snapshot store",
	Long: `Save, list, show and delete schema snapshots kept in PostgreSQL. Stored snapshots can be
compared with "entitydiff diff --old-version V1 --new-version V2".`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		util.ApplyEnvVars(cmd, util.EnvBinding{Flag: "database-url", EnvVar: util.EnvDatabaseURL, Target: &databaseURL})
		if databaseURL == "" {
			return util.ErrMissingDatabaseURL
		}
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:          "save",
	Short:        "Store a snapshot file under its version label",
	RunE:         runSave,
	SilenceUsage: true,
}

var listCmd = &cobra.Command{
	Use:          "list",
	Short:        "List stored snapshots",
	RunE:         runList,
	SilenceUsage: true,
}

var showCmd = &cobra.Command{
	Use:          "show",
	Short:        "Print a stored snapshot",
	RunE:         runShow,
	SilenceUsage: true,
}

var deleteCmd = &cobra.Command{
	Use:          "delete",
	Short:        "Delete a stored snapshot",
	RunE:         runDelete,
	SilenceUsage: true,
}

func init() {
	SnapshotCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Snapshot store connection URL (env: "+util.EnvDatabaseURL+")")

	saveCmd.Flags().StringVar(&snapshotFile, "file", "", "Path to the snapshot file (.json, .yaml, .yml) (required)")
	saveCmd.Flags().StringVar(&versionLabel, "version", "", "Version label, overriding the one in the file")
	saveCmd.Flags().BoolVar(&forceSave, "force", false, "Replace a stored snapshot with the same version but different content")
	saveCmd.MarkFlagRequired("file")

	showCmd.Flags().StringVar(&versionLabel, "version", "", "Version label of the snapshot (required)")
	showCmd.Flags().StringVar(&showFormat, "format", string(loader.FormatJSON), "Output format: json or yaml")
	showCmd.MarkFlagRequired("version")

	deleteCmd.Flags().StringVar(&versionLabel, "version", "", "Version label of the snapshot (required)")
	deleteCmd.MarkFlagRequired("version")

	SnapshotCmd.AddCommand(saveCmd, listCmd, showCmd, deleteCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	schema, err := loader.LoadFile(snapshotFile)
	if err != nil {
		return err
	}
	if versionLabel != "" {
		schema.Version = versionLabel
	}

	st, err := util.OpenStore(cmd.Context(), databaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	if !forceSave {
		if err := checkUnchanged(cmd.Context(), st, schema); err != nil {
			return err
		}
	}

	rec, err := st.Save(cmd.Context(), schema)
	if err != nil {
		return err
	}
	logger.Get().Debug("Saved snapshot", "version", rec.Version, "fingerprint", rec.Fingerprint)

	fmt.Fprintf(cmd.OutOrStdout(), "Saved snapshot %s (%d entities, fingerprint %s)\n", rec.Version, rec.EntityCount, rec.Fingerprint)
	return nil
}

// checkUnchanged refuses to overwrite a stored snapshot whose content differs from schema
func checkUnchanged(ctx context.Context, st *store.Store, schema *model.SchemaModel) error {
	existing, err := st.Load(ctx, schema.Version)
	if errors.Is(err, store.ErrSnapshotNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	stored, err := fingerprint.ComputeFingerprint(existing)
	if err != nil {
		return err
	}
	incoming, err := fingerprint.ComputeFingerprint(schema)
	if err != nil {
		return err
	}
	logger.Get().Debug("Snapshot already stored", "version", schema.Version, "stored", stored.String(), "incoming", incoming.String())

	if err := fingerprint.Compare(stored, incoming); err != nil {
		return fmt.Errorf("snapshot %s already exists with different content (use --force to replace it): %w", schema.Version, err)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	st, err := util.OpenStore(cmd.Context(), databaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No snapshots stored.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tENTITIES\tFINGERPRINT\tUPDATED")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", rec.Version, rec.EntityCount, rec.Fingerprint, rec.UpdatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func runShow(cmd *cobra.Command, args []string) error {
	format := loader.Format(showFormat)
	if format != loader.FormatJSON && format != loader.FormatYAML {
		return fmt.Errorf("%w: %q", loader.ErrUnsupportedFormat, showFormat)
	}

	st, err := util.OpenStore(cmd.Context(), databaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	schema, err := st.Load(cmd.Context(), versionLabel)
	if err != nil {
		return err
	}
	return loader.Encode(cmd.OutOrStdout(), schema, format)
}

func runDelete(cmd *cobra.Command, args []string) error {
	st, err := util.OpenStore(cmd.Context(), databaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(cmd.Context(), versionLabel); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %s\n", versionLabel)
	return nil
}
