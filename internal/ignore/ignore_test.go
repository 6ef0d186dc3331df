package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/entitydiff/entitydiff/internal/model"
)

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		value    string
		expected bool
	}{
		{"empty patterns", []string{}, "User", false},
		{"exact match", []string{"AuditLog"}, "AuditLog", true},
		{"no match", []string{"AuditLog"}, "User", false},
		{"wildcard prefix", []string{"Temp*"}, "TempUser", true},
		{"wildcard suffix", []string{"*History"}, "OrderHistory", true},
		{"second pattern matches", []string{"Temp*", "*History"}, "OrderHistory", true},
		{"negation wins", []string{"*History", "!OrderHistory"}, "OrderHistory", false},
		{"negation only", []string{"!User"}, "Order", false},
		{"invalid pattern literal", []string{"[abc"}, "[abc", true},
		{"empty value", []string{"*"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldIgnore(tt.value, tt.patterns); got != tt.expected {
				t.Errorf("shouldIgnore(%q, %v) = %t, want %t", tt.value, tt.patterns, got, tt.expected)
			}
		})
	}
}

func TestIgnoreConfig_Apply(t *testing.T) {
	s := model.NewSchemaModel("v1")
	s.Entities["User"] = &model.EntityModel{EntityName: "User", TableName: "users"}
	s.Entities["UserAudit"] = &model.EntityModel{EntityName: "UserAudit", TableName: "users_aud"}
	s.Entities["Flyway"] = &model.EntityModel{EntityName: "Flyway", TableName: "flyway_schema_history"}
	s.Sequences["user_seq"] = &model.SequenceModel{Name: "user_seq"}
	s.Sequences["tmp_seq"] = &model.SequenceModel{Name: "tmp_seq"}
	s.TableGenerators["legacy_gen"] = &model.TableGeneratorModel{Name: "legacy_gen"}

	cfg := &IgnoreConfig{
		Entities:        []string{"*Audit"},
		Tables:          []string{"flyway_*"},
		Sequences:       []string{"tmp_*"},
		TableGenerators: []string{"legacy_*"},
	}
	filtered := cfg.Apply(s)

	if diff := cmp.Diff([]string{"User"}, filtered.EntityNames()); diff != "" {
		t.Errorf("entities (-want +got):\n%s", diff)
	}
	if _, ok := filtered.Sequences["tmp_seq"]; ok || len(filtered.Sequences) != 1 {
		t.Errorf("sequences = %v", filtered.Sequences)
	}
	if len(filtered.TableGenerators) != 0 {
		t.Errorf("generators = %v", filtered.TableGenerators)
	}
	if len(s.Entities) != 3 {
		t.Error("Apply must not modify its input")
	}

	var nilConfig *IgnoreConfig
	if nilConfig.Apply(s) != s {
		t.Error("nil config should return the snapshot unchanged")
	}
}

func TestLoadIgnoreFileFromPath(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadIgnoreFileFromPath(filepath.Join(dir, "missing"))
	if err != nil || cfg != nil {
		t.Fatalf("missing file: got %v, %v; want nil, nil", cfg, err)
	}

	path := filepath.Join(dir, IgnoreFileName)
	content := `
[entities]
patterns = ["*Audit", "!ImportantAudit"]

[tables]
patterns = ["flyway_*"]

[sequences]
patterns = ["tmp_*"]

[table_generators]
patterns = ["legacy_*"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err = LoadIgnoreFileFromPath(path)
	if err != nil {
		t.Fatalf("LoadIgnoreFileFromPath: %v", err)
	}
	want := &IgnoreConfig{
		Entities:        []string{"*Audit", "!ImportantAudit"},
		Tables:          []string{"flyway_*"},
		Sequences:       []string{"tmp_*"},
		TableGenerators: []string{"legacy_*"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}

	if err := os.WriteFile(path, []byte("[entities\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadIgnoreFileFromPath(path); err == nil {
		t.Error("expected a parse error")
	}
}
