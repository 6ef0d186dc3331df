package diff

import (
	"testing"

	"github.com/entitydiff/entitydiff/internal/model"
)

func TestColumnDiffer_RenameAware(t *testing.T) {
	tests := []struct {
		name        string
		old         []*model.ColumnModel
		new         []*model.ColumnModel
		wantRenamed int
		wantDropped int
		wantAdded   int
		wantDetail  string
	}{
		{
			name:        "identical attributes under a new key",
			old:         []*model.ColumnModel{column("email", "String")},
			new:         []*model.ColumnModel{column("email_address", "String")},
			wantRenamed: 1,
			wantDetail:  "Column renamed from email to email_address",
		},
		{
			name:        "attribute differs alongside the key",
			old:         []*model.ColumnModel{column("email", "String")},
			new:         []*model.ColumnModel{{ColumnName: "email_address", TableName: "users", JavaType: "String", Nullable: false}},
			wantDropped: 1,
			wantAdded:   1,
		},
		{
			name:        "case-only rename is still a rename",
			old:         []*model.ColumnModel{column("Email", "String")},
			new:         []*model.ColumnModel{column("email", "String")},
			wantRenamed: 1,
			wantDetail:  "Column renamed from Email to email",
		},
		{
			name:        "two candidates pair deterministically",
			old:         []*model.ColumnModel{column("a_old", "String"), column("b_old", "String")},
			new:         []*model.ColumnModel{column("a_new", "String"), column("b_new", "String")},
			wantRenamed: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := runComponent(NewColumnDiffer(), entity("User", "users", tt.old...), entity("User", "users", tt.new...))

			if got := countColumnDiffs(m.ColumnDiffs, ChangeRenamed); got != tt.wantRenamed {
				t.Errorf("renamed = %d, want %d", got, tt.wantRenamed)
			}
			if got := countColumnDiffs(m.ColumnDiffs, ChangeDropped); got != tt.wantDropped {
				t.Errorf("dropped = %d, want %d", got, tt.wantDropped)
			}
			if got := countColumnDiffs(m.ColumnDiffs, ChangeAdded); got != tt.wantAdded {
				t.Errorf("added = %d, want %d", got, tt.wantAdded)
			}
			if got := countColumnDiffs(m.ColumnDiffs, ChangeModified); got != 0 {
				t.Errorf("modified = %d, want 0", got)
			}
			if tt.wantDetail != "" && m.ColumnDiffs[0].ChangeDetail != tt.wantDetail {
				t.Errorf("ChangeDetail = %q, want %q", m.ColumnDiffs[0].ChangeDetail, tt.wantDetail)
			}
		})
	}
}

func TestColumnDiffer_RenamePairingIsLexical(t *testing.T) {
	old := entity("User", "users", column("a_old", "String"), column("b_old", "String"))
	new := entity("User", "users", column("a_new", "String"), column("b_new", "String"))

	for i := 0; i < 20; i++ {
		m := runComponent(NewColumnDiffer(), old, new)
		if len(m.ColumnDiffs) != 2 {
			t.Fatalf("got %d diffs, want 2", len(m.ColumnDiffs))
		}
		if m.ColumnDiffs[0].ChangeDetail != "Column renamed from a_old to a_new" ||
			m.ColumnDiffs[1].ChangeDetail != "Column renamed from b_old to b_new" {
			t.Fatalf("unexpected pairing: %q, %q", m.ColumnDiffs[0].ChangeDetail, m.ColumnDiffs[1].ChangeDetail)
		}
	}
}

func TestSimpleColumnDiffer_NeverRenames(t *testing.T) {
	tests := []struct {
		name string
		old  *model.ColumnModel
		new  *model.ColumnModel
	}{
		{"different key", column("email", "String"), column("email_address", "String")},
		{"case-only difference", column("Email", "String"), column("email", "String")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := runComponent(NewSimpleColumnDiffer(), entity("User", "users", tt.old), entity("User", "users", tt.new))
			if got := countColumnDiffs(m.ColumnDiffs, ChangeRenamed); got != 0 {
				t.Errorf("renamed = %d, want 0", got)
			}
			if countColumnDiffs(m.ColumnDiffs, ChangeDropped) != 1 || countColumnDiffs(m.ColumnDiffs, ChangeAdded) != 1 {
				t.Errorf("want one DROPPED and one ADDED, got %+v", m.ColumnDiffs)
			}
		})
	}
}

func TestColumnDiffer_ModifiedDetail(t *testing.T) {
	old := &model.ColumnModel{ColumnName: "price", JavaType: "BigDecimal", Nullable: true, Precision: 10, Scale: 2}
	new := &model.ColumnModel{ColumnName: "price", JavaType: "BigDecimal", Nullable: false, Precision: 12, Scale: 2,
		DefaultValue: strPtr("0"), Comment: strPtr("unit price")}

	for _, differ := range []*ColumnDiffer{NewColumnDiffer(), NewSimpleColumnDiffer()} {
		t.Run(string(differ.Strategy()), func(t *testing.T) {
			m := runComponent(differ, entity("Item", "items", old), entity("Item", "items", new))
			if len(m.ColumnDiffs) != 1 || m.ColumnDiffs[0].Type != ChangeModified {
				t.Fatalf("want one MODIFIED diff, got %+v", m.ColumnDiffs)
			}
			want := "nullable changed from true to false; precision changed from 10 to 12; default changed from null to 0; comment changed from null to unit price"
			if got := m.ColumnDiffs[0].ChangeDetail; got != want {
				t.Errorf("ChangeDetail =\n%q\nwant\n%q", got, want)
			}
			requireWarning(t, m.Warnings, "changed from nullable to NOT NULL")
		})
	}
}

func TestColumnDiffer_AllAttributes(t *testing.T) {
	old := &model.ColumnModel{ColumnName: "c", JavaType: "int", Length: 10, Precision: 5, Scale: 2,
		EnumValues: []string{"A"}, TemporalType: model.TemporalDate, ConversionClass: strPtr("a.Conv"),
		FetchType: model.FetchLazy, GenerationStrategy: model.GenerationIdentity}
	new := &model.ColumnModel{ColumnName: "c", JavaType: "long", Nullable: true, Length: 20, Precision: 6, Scale: 3,
		EnumValues: []string{"A", "B"}, EnumStringMapping: true, TemporalType: model.TemporalTimestamp,
		FetchType: model.FetchEager, PrimaryKey: true, Lob: true}

	changes := compareColumnAttributes(old, new)
	want := []string{
		"type changed from int to long",
		"nullable changed from false to true",
		"length changed from 10 to 20",
		"precision changed from 5 to 6",
		"scale changed from 2 to 3",
		"enumValues changed from [A] to [A, B]",
		"enumStringMapping changed from false to true",
		"temporalType changed from DATE to TIMESTAMP",
		"converter changed from a.Conv to null",
		"fetchType changed from LAZY to EAGER",
		"isPrimaryKey changed from false to true",
		"generationStrategy changed from IDENTITY to null",
		"isLob changed from false to true",
	}
	if len(changes.changes) != len(want) {
		t.Fatalf("got %d changes %q, want %d", len(changes.changes), changes.changes, len(want))
	}
	for i := range want {
		if changes.changes[i] != want[i] {
			t.Errorf("change[%d] = %q, want %q", i, changes.changes[i], want[i])
		}
	}
}

func TestColumnDiffer_NoChange(t *testing.T) {
	cols := []*model.ColumnModel{column("id", "Long"), column("email", "String")}
	m := runComponent(NewColumnDiffer(), entity("User", "users", cols...), entity("User", "users", cols...))
	if !m.IsEmpty() {
		t.Errorf("identical columns produced diffs: %+v warnings %q", m.ColumnDiffs, m.Warnings)
	}
}

func TestParseColumnStrategy(t *testing.T) {
	for in, want := range map[string]ColumnStrategy{"": ColumnStrategyRenameAware, "rename-aware": ColumnStrategyRenameAware, "SIMPLE": ColumnStrategySimple} {
		got, err := ParseColumnStrategy(in)
		if err != nil || got != want {
			t.Errorf("ParseColumnStrategy(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseColumnStrategy("fuzzy"); err == nil {
		t.Error("ParseColumnStrategy(fuzzy) expected error")
	}
}
