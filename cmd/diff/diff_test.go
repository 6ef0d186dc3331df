package diff

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/entitydiff/entitydiff/internal/diff"
)

const oldSnapshot = `{
  "version": "v1",
  "entities": {
    "User": {
      "tableName": "users",
      "columns": {
        "id": {"javaType": "Long", "primaryKey": true},
        "age": {"javaType": "Long", "nullable": true}
      }
    }
  }
}`

const newSnapshot = `{
  "version": "v2",
  "entities": {
    "User": {
      "tableName": "users",
      "columns": {
        "id": {"javaType": "Long", "primaryKey": true},
        "age": {"javaType": "Integer", "nullable": true}
      }
    }
  }
}`

const newSnapshotYAML = `
version: v2
entities:
  User:
    tableName: users
    columns:
      id:
        javaType: Long
        primaryKey: true
      age:
        javaType: Integer
        nullable: true
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// resetFlags restores the package-level flag variables between executions
func resetFlags(dir string) {
	oldFile, newFile = "", ""
	oldVersion, newVersion = "", ""
	databaseURL = ""
	columnStrategy = string(diff.ColumnStrategyRenameAware)
	caseMode = "lower"
	ignoreFile = filepath.Join(dir, "missing-ignore")
	outputHuman, outputJSON = "", ""
	noColor = false
	failOnWarnings = false
}

func runDiffCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	DiffCmd.SetOut(&buf)
	DiffCmd.SetErr(&bytes.Buffer{})
	DiffCmd.SetArgs(args)
	err := DiffCmd.Execute()
	return buf.String(), err
}

func TestDiffCommand_HumanOutput(t *testing.T) {
	dir := t.TempDir()
	resetFlags(dir)
	oldPath := writeFile(t, dir, "old.json", oldSnapshot)
	newPath := writeFile(t, dir, "new.yaml", newSnapshotYAML)

	out, err := runDiffCommand(t, "--old", oldPath, "--new", newPath, "--no-color", "--ignore-file", ignoreFile)
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}

	for _, want := range []string{
		"Comparing v1 -> v2",
		"column age",
		"Dangerous type conversion in column age: Long -> Integer may lose data",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDiffCommand_NoChanges(t *testing.T) {
	dir := t.TempDir()
	resetFlags(dir)
	path := writeFile(t, dir, "old.json", oldSnapshot)

	out, err := runDiffCommand(t, "--old", path, "--new", path, "--ignore-file", ignoreFile)
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	if !strings.Contains(out, "No changes detected.") {
		t.Errorf("expected no changes, got:\n%s", out)
	}
}

func TestDiffCommand_JSONToFile(t *testing.T) {
	dir := t.TempDir()
	resetFlags(dir)
	oldPath := writeFile(t, dir, "old.json", oldSnapshot)
	newPath := writeFile(t, dir, "new.json", newSnapshot)
	jsonPath := filepath.Join(dir, "report.json")

	out, err := runDiffCommand(t, "--old", oldPath, "--new", newPath,
		"--output-json", jsonPath, "--output-human", "stdout", "--no-color", "--ignore-file", ignoreFile)
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	if !strings.Contains(out, "Warnings:") {
		t.Errorf("human output should go to stdout:\n%s", out)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("JSON report not written: %v", err)
	}
	var doc struct {
		OldVersion string   `json:"old_version"`
		NewVersion string   `json:"new_version"`
		Dangerous  bool     `json:"dangerous"`
		Warnings   []string `json:"warnings"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON report: %v", err)
	}
	if doc.OldVersion != "v1" || doc.NewVersion != "v2" {
		t.Errorf("versions = %q -> %q", doc.OldVersion, doc.NewVersion)
	}
	if !doc.Dangerous || len(doc.Warnings) != 1 {
		t.Errorf("dangerous = %t, warnings = %v", doc.Dangerous, doc.Warnings)
	}
}

func TestDiffCommand_FailOnWarnings(t *testing.T) {
	dir := t.TempDir()
	resetFlags(dir)
	oldPath := writeFile(t, dir, "old.json", oldSnapshot)
	newPath := writeFile(t, dir, "new.json", newSnapshot)

	_, err := runDiffCommand(t, "--old", oldPath, "--new", newPath, "--fail-on-warnings", "--ignore-file", ignoreFile)
	if !errors.Is(err, errDangerousChanges) {
		t.Errorf("err = %v, want errDangerousChanges", err)
	}
}

func TestDiffCommand_FailOnWarningsIgnoresSafeChanges(t *testing.T) {
	dir := t.TempDir()
	resetFlags(dir)
	narrowPath := writeFile(t, dir, "integer.json", newSnapshot)
	widePath := writeFile(t, dir, "long.json", oldSnapshot)
	jsonPath := filepath.Join(dir, "report.json")

	// Integer -> Long only widens
	out, err := runDiffCommand(t, "--old", narrowPath, "--new", widePath, "--fail-on-warnings", "--no-color",
		"--output-human", "stdout", "--output-json", jsonPath, "--ignore-file", ignoreFile)
	if err != nil {
		t.Fatalf("a safe widening should not fail the diff: %v", err)
	}
	if !strings.Contains(out, "Safe type conversion in column age: Integer -> Long") {
		t.Errorf("output missing the safe conversion warning:\n%s", out)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("JSON report not written: %v", err)
	}
	var doc struct {
		Dangerous bool     `json:"dangerous"`
		Warnings  []string `json:"warnings"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON report: %v", err)
	}
	if doc.Dangerous || len(doc.Warnings) != 1 {
		t.Errorf("dangerous = %t, warnings = %v", doc.Dangerous, doc.Warnings)
	}
}

func TestDiffCommand_IgnoreFile(t *testing.T) {
	dir := t.TempDir()
	resetFlags(dir)
	oldPath := writeFile(t, dir, "old.json", oldSnapshot)
	newPath := writeFile(t, dir, "new.json", newSnapshot)
	ignorePath := writeFile(t, dir, ".entitydiffignore", "[entities]\npatterns = [\"User\"]\n")

	out, err := runDiffCommand(t, "--old", oldPath, "--new", newPath, "--fail-on-warnings", "--ignore-file", ignorePath)
	if err != nil {
		t.Fatalf("ignored entity should not fail the diff: %v", err)
	}
	if !strings.Contains(out, "No changes detected.") {
		t.Errorf("expected no changes, got:\n%s", out)
	}
}

func TestDiffCommand_InvalidOptions(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.json", oldSnapshot)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown column strategy", []string{"--old", oldPath, "--new", oldPath, "--column-strategy", "fuzzy"}},
		{"unknown case mode", []string{"--old", oldPath, "--new", oldPath, "--case", "title"}},
		{"two stdout outputs", []string{"--old", oldPath, "--new", oldPath, "--output-human", "stdout", "--output-json", "stdout"}},
		{"missing new snapshot", []string{"--old", oldPath}},
		{"version without store", []string{"--old", oldPath, "--new-version", "v2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(dir)
			if _, err := runDiffCommand(t, append(tt.args, "--ignore-file", ignoreFile)...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDetermineOutputs(t *testing.T) {
	resetFlags(t.TempDir())
	outputs, err := determineOutputs()
	if err != nil {
		t.Fatal(err)
	}
	if len(outputs) != 1 || outputs[0].format != "human" || outputs[0].target != "stdout" {
		t.Errorf("default outputs = %+v", outputs)
	}

	outputJSON = "report.json"
	outputs, err = determineOutputs()
	if err != nil {
		t.Fatal(err)
	}
	if len(outputs) != 1 || outputs[0].format != "json" {
		t.Errorf("json-only outputs = %+v", outputs)
	}
}
