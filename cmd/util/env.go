package util

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

const (
	EnvDatabaseURL    = "ENTITYDIFF_DATABASE_URL"
	EnvCaseMode       = "ENTITYDIFF_CASE_MODE"
	EnvColumnStrategy = "ENTITYDIFF_COLUMN_STRATEGY"
	EnvMaxConns       = "ENTITYDIFF_MAX_CONNS"
)

// GetEnvWithDefault returns the value of an environment variable or a default value if not set
func GetEnvWithDefault(envVar, defaultValue string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvIntWithDefault returns the value of an environment variable as int or a default value if not set
func GetEnvIntWithDefault(envVar string, defaultValue int) int {
	if value := os.Getenv(envVar); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// EnvBinding ties a string flag to the environment variable that fills it when the flag is
// not given on the command line
type EnvBinding struct {
	Flag   string
	EnvVar string
	Target *string
}

// ApplyEnvVars fills every bound flag that was not explicitly set from its environment variable
func ApplyEnvVars(cmd *cobra.Command, bindings ...EnvBinding) {
	for _, b := range bindings {
		if cmd.Flags().Changed(b.Flag) {
			continue
		}
		if value := GetEnvWithDefault(b.EnvVar, ""); value != "" {
			*b.Target = value
		}
	}
}

// PreRunEWithEnvVars creates a PreRunE function that applies the environment bindings and then
// runs the optional validation
func PreRunEWithEnvVars(validate func(*cobra.Command) error, bindings ...EnvBinding) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ApplyEnvVars(cmd, bindings...)
		if validate != nil {
			return validate(cmd)
		}
		return nil
	}
}
