package diff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/entitydiff/entitydiff/cmd/util"
	"github.com/entitydiff/entitydiff/internal/casefold"
	"github.com/entitydiff/entitydiff/internal/checkclause"
	"github.com/entitydiff/entitydiff/internal/diff"
	"github.com/entitydiff/entitydiff/internal/ignore"
	"github.com/entitydiff/entitydiff/internal/loader"
	"github.com/entitydiff/entitydiff/internal/logger"
	"github.com/entitydiff/entitydiff/internal/model"
	"github.com/entitydiff/entitydiff/internal/report"
	"github.com/entitydiff/entitydiff/internal/store"
)

// errDangerousChanges is returned under --fail-on-warnings when the diff may lose data
var errDangerousChanges = errors.New("dangerous changes detected")

var (
	oldFile        string
	newFile        string
	oldVersion     string
	newVersion     string
	databaseURL    string
	columnStrategy string
	caseMode       string
	ignoreFile     string
	outputHuman    string
	outputJSON     string
	noColor        bool
	failOnWarnings bool
)

var DiffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare two schema snapshots",
	Long: `Compare two schema snapshots and report added, dropped, renamed and modified entities,
columns, indexes, constraints, relationships, sequences and table generators.

Each side is read either from a JSON/YAML file (--old, --new) or from the snapshot store by
version label (--old-version, --new-version).`,
	RunE:         runDiff,
	SilenceUsage: true,
	PreRunE: util.PreRunEWithEnvVars(validateSources,
		util.EnvBinding{Flag: "database-url", EnvVar: util.EnvDatabaseURL, Target: &databaseURL},
		util.EnvBinding{Flag: "case", EnvVar: util.EnvCaseMode, Target: &caseMode},
		util.EnvBinding{Flag: "column-strategy", EnvVar: util.EnvColumnStrategy, Target: &columnStrategy},
	),
}

func init() {
	// Snapshot sources
	DiffCmd.Flags().StringVar(&oldFile, "old", "", "Path to the old snapshot file (.json, .yaml, .yml)")
	DiffCmd.Flags().StringVar(&newFile, "new", "", "Path to the new snapshot file (.json, .yaml, .yml)")
	DiffCmd.Flags().StringVar(&oldVersion, "old-version", "", "Load the old snapshot from the store by version label")
	DiffCmd.Flags().StringVar(&newVersion, "new-version", "", "Load the new snapshot from the store by version label")
	DiffCmd.Flags().StringVar(&databaseURL, "database-url", "", "Snapshot store connection URL (env: "+util.EnvDatabaseURL+")")

	// Comparison options
	DiffCmd.Flags().StringVar(&columnStrategy, "column-strategy", string(diff.ColumnStrategyRenameAware), "Column matching strategy: rename-aware or simple (env: "+util.EnvColumnStrategy+")")
	DiffCmd.Flags().StringVar(&caseMode, "case", string(casefold.Lower), "Identifier case folding: lower, upper or preserve (env: "+util.EnvCaseMode+")")
	DiffCmd.Flags().StringVar(&ignoreFile, "ignore-file", ignore.IgnoreFileName, "Path to the ignore file")

	// Output flags
	DiffCmd.Flags().StringVar(&outputHuman, "output-human", "", "Output human-readable format to stdout or file path")
	DiffCmd.Flags().StringVar(&outputJSON, "output-json", "", "Output JSON format to stdout or file path")
	DiffCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	DiffCmd.Flags().BoolVar(&failOnWarnings, "fail-on-warnings", false, "Exit with an error when dangerous changes are detected")

	DiffCmd.MarkFlagsMutuallyExclusive("old", "old-version")
	DiffCmd.MarkFlagsMutuallyExclusive("new", "new-version")
}

func validateSources(cmd *cobra.Command) error {
	if oldFile == "" && oldVersion == "" {
		return fmt.Errorf("old snapshot is required (use --old or --old-version)")
	}
	if newFile == "" && newVersion == "" {
		return fmt.Errorf("new snapshot is required (use --new or --new-version)")
	}
	if (oldVersion != "" || newVersion != "") && databaseURL == "" {
		return util.ErrMissingDatabaseURL
	}
	return nil
}

func runDiff(cmd *cobra.Command, args []string) error {
	strategy, err := diff.ParseColumnStrategy(columnStrategy)
	if err != nil {
		return err
	}
	mode, err := casefold.ParseMode(caseMode)
	if err != nil {
		return err
	}

	outputs, err := determineOutputs()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	oldSchema, newSchema, err := loadSnapshots(ctx)
	if err != nil {
		return err
	}

	ignoreConfig, err := ignore.LoadIgnoreFileFromPath(ignoreFile)
	if err != nil {
		return fmt.Errorf("failed to load ignore file: %w", err)
	}
	oldSchema = ignoreConfig.Apply(oldSchema)
	newSchema = ignoreConfig.Apply(newSchema)

	logger.Get().Debug("Comparing snapshots",
		"old", snapshotLabel(oldSchema, oldFile),
		"new", snapshotLabel(newSchema, newFile),
		"column_strategy", strategy,
		"case", mode,
	)

	result := diff.Diff(oldSchema, newSchema,
		diff.WithColumnStrategy(strategy),
		diff.WithCaseNormalizer(mode),
		diff.WithCheckClauseComparer(checkclause.Equivalent),
	)
	r := report.NewReport(result, snapshotLabel(oldSchema, oldFile), snapshotLabel(newSchema, newFile))

	for _, output := range outputs {
		if err := processOutput(r, output, cmd); err != nil {
			return err
		}
	}

	if failOnWarnings && result.HasDangerousChanges() {
		return errDangerousChanges
	}
	return nil
}

// loadSnapshots reads both sides concurrently, opening the store only when a version is requested
func loadSnapshots(ctx context.Context) (*model.SchemaModel, *model.SchemaModel, error) {
	var st *store.Store
	if oldVersion != "" || newVersion != "" {
		var err error
		st, err = util.OpenStore(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}
		defer st.Close()
	}

	var oldSchema, newSchema *model.SchemaModel
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := loadSnapshot(gctx, st, oldFile, oldVersion)
		if err != nil {
			return fmt.Errorf("old snapshot: %w", err)
		}
		oldSchema = s
		return nil
	})
	g.Go(func() error {
		s, err := loadSnapshot(gctx, st, newFile, newVersion)
		if err != nil {
			return fmt.Errorf("new snapshot: %w", err)
		}
		newSchema = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return oldSchema, newSchema, nil
}

func loadSnapshot(ctx context.Context, st *store.Store, file, version string) (*model.SchemaModel, error) {
	if version != "" {
		return st.Load(ctx, version)
	}
	return loader.LoadFile(file)
}

// snapshotLabel prefers the snapshot's own version label and falls back to the file name
func snapshotLabel(s *model.SchemaModel, file string) string {
	if s != nil && s.Version != "" {
		return s.Version
	}
	if file != "" {
		return filepath.Base(file)
	}
	return ""
}

// outputSpec represents a single output specification
type outputSpec struct {
	format string
	target string
}

// determineOutputs parses the output flags and returns the list of outputs to generate
func determineOutputs() ([]outputSpec, error) {
	var outputs []outputSpec
	stdoutCount := 0

	if outputHuman != "" {
		if outputHuman == "stdout" {
			stdoutCount++
		}
		outputs = append(outputs, outputSpec{format: "human", target: outputHuman})
	}
	if outputJSON != "" {
		if outputJSON == "stdout" {
			stdoutCount++
		}
		outputs = append(outputs, outputSpec{format: "json", target: outputJSON})
	}

	if stdoutCount > 1 {
		return nil, fmt.Errorf("only one output format can use stdout")
	}

	// Default behavior: if no outputs specified, output human to stdout
	if len(outputs) == 0 {
		outputs = append(outputs, outputSpec{format: "human", target: "stdout"})
	}

	return outputs, nil
}

// processOutput writes the report in the specified format to the target destination
func processOutput(r *report.Report, output outputSpec, cmd *cobra.Command) error {
	var content string

	switch output.format {
	case "human":
		// Colored output only when writing to stdout, unless explicitly disabled
		content = r.HumanColored(output.target == "stdout" && !noColor)
	case "json":
		jsonOutput, err := r.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to generate JSON output: %w", err)
		}
		content = jsonOutput + "\n"
	default:
		return fmt.Errorf("unknown output format: %s", output.format)
	}

	if output.target == "stdout" {
		_, err := io.WriteString(cmd.OutOrStdout(), content)
		return err
	}
	if err := os.WriteFile(output.target, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s output to %s: %w", output.format, output.target, err)
	}
	return nil
}
