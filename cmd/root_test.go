package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	RootCmd.SetErr(&buf)
	RootCmd.SetArgs([]string{"--help"})

	if err := RootCmd.Execute(); err != nil {
		t.Errorf("root command with --help failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "entitydiff compares two snapshots of a persistence schema") {
		t.Errorf("expected help output to contain description, got: %s", output)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	commands := RootCmd.Commands()

	expectedCommands := []string{"version", "diff", "snapshot"}
	commandNames := make([]string, len(commands))
	for i, cmd := range commands {
		commandNames[i] = cmd.Name()
	}

	for _, expected := range expectedCommands {
		found := false
		for _, actual := range commandNames {
			if actual == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %s not found in: %v", expected, commandNames)
		}
	}
}

func TestSnapshotSubcommands(t *testing.T) {
	var snapshotNames []string
	for _, c := range RootCmd.Commands() {
		if c.Name() != "snapshot" {
			continue
		}
		for _, sub := range c.Commands() {
			snapshotNames = append(snapshotNames, sub.Name())
		}
	}

	for _, want := range []string{"save", "list", "show", "delete"} {
		found := false
		for _, name := range snapshotNames {
			if name == want {
				found = true
			}
		}
		if !found {
			t.Errorf("snapshot subcommand %s not found in: %v", want, snapshotNames)
		}
	}
}
