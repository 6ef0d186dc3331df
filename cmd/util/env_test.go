package util

import (
	"errors"
	"os"
	"testing"

	"github.com/spf13/cobra"
)

func TestGetEnvWithDefault(t *testing.T) {
	// Test with existing env var
	t.Setenv("TEST_STRING", "test-value")
	if GetEnvWithDefault("TEST_STRING", "default") != "test-value" {
		t.Errorf("Expected GetEnvWithDefault to return 'test-value', got '%s'", GetEnvWithDefault("TEST_STRING", "default"))
	}

	// Test with missing env var
	os.Unsetenv("MISSING_VAR")
	if GetEnvWithDefault("MISSING_VAR", "default") != "default" {
		t.Errorf("Expected GetEnvWithDefault to return 'default', got '%s'", GetEnvWithDefault("MISSING_VAR", "default"))
	}

	// Test with empty env var (should return default)
	t.Setenv("EMPTY_VAR", "")
	if GetEnvWithDefault("EMPTY_VAR", "default") != "default" {
		t.Errorf("Expected GetEnvWithDefault to return 'default' for empty var, got '%s'", GetEnvWithDefault("EMPTY_VAR", "default"))
	}
}

func TestGetEnvIntWithDefault(t *testing.T) {
	t.Setenv("TEST_INT", "12345")
	if got := GetEnvIntWithDefault("TEST_INT", 0); got != 12345 {
		t.Errorf("Expected 12345, got %d", got)
	}

	t.Setenv("TEST_INVALID_INT", "not-a-number")
	if got := GetEnvIntWithDefault("TEST_INVALID_INT", 999); got != 999 {
		t.Errorf("Expected default 999, got %d", got)
	}

	os.Unsetenv("MISSING_INT_VAR")
	if got := GetEnvIntWithDefault("MISSING_INT_VAR", 777); got != 777 {
		t.Errorf("Expected default 777, got %d", got)
	}
}

func newBoundCommand(target *string) *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.Flags().StringVar(target, "case", "lower", "")
	return cmd
}

func TestPreRunEWithEnvVars(t *testing.T) {
	t.Setenv(EnvCaseMode, "upper")

	t.Run("env fills unset flag", func(t *testing.T) {
		var mode string
		cmd := newBoundCommand(&mode)
		cmd.PreRunE = PreRunEWithEnvVars(nil, EnvBinding{Flag: "case", EnvVar: EnvCaseMode, Target: &mode})
		cmd.SetArgs([]string{})
		if err := cmd.Execute(); err != nil {
			t.Fatal(err)
		}
		if mode != "upper" {
			t.Errorf("mode = %q, want upper", mode)
		}
	})

	t.Run("explicit flag wins", func(t *testing.T) {
		var mode string
		cmd := newBoundCommand(&mode)
		cmd.PreRunE = PreRunEWithEnvVars(nil, EnvBinding{Flag: "case", EnvVar: EnvCaseMode, Target: &mode})
		cmd.SetArgs([]string{"--case", "preserve"})
		if err := cmd.Execute(); err != nil {
			t.Fatal(err)
		}
		if mode != "preserve" {
			t.Errorf("mode = %q, want preserve", mode)
		}
	})

	t.Run("validation runs after binding", func(t *testing.T) {
		var mode string
		errInvalid := errors.New("invalid")
		cmd := newBoundCommand(&mode)
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		cmd.PreRunE = PreRunEWithEnvVars(func(*cobra.Command) error {
			if mode == "upper" {
				return errInvalid
			}
			return nil
		}, EnvBinding{Flag: "case", EnvVar: EnvCaseMode, Target: &mode})
		cmd.SetArgs([]string{})
		if err := cmd.Execute(); !errors.Is(err, errInvalid) {
			t.Errorf("err = %v, want errInvalid", err)
		}
	})
}
