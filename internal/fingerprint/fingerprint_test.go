package fingerprint

import (
	"testing"

	"github.com/entitydiff/entitydiff/internal/model"
)

func usersEntity(entityName, tableName string) *model.EntityModel {
	return &model.EntityModel{
		EntityName: entityName,
		TableName:  tableName,
		Columns: map[string]*model.ColumnModel{
			"id":    {ColumnName: "id", TableName: tableName, JavaType: "Long", PrimaryKey: true},
			"email": {ColumnName: "email", TableName: tableName, JavaType: "String", Nullable: true, Length: 255},
		},
	}
}

func TestComputeFingerprint(t *testing.T) {
	schema := model.NewSchemaModel("v1")
	schema.Entities["User"] = usersEntity("User", "users")

	fp, err := ComputeFingerprint(schema)
	if err != nil {
		t.Fatalf("ComputeFingerprint failed: %v", err)
	}
	if fp.Hash == "" {
		t.Error("Fingerprint hash is empty")
	}

	relabeled := model.NewSchemaModel("v2")
	relabeled.Entities["User"] = usersEntity("User", "users")
	fp2, err := ComputeFingerprint(relabeled)
	if err != nil {
		t.Fatalf("ComputeFingerprint failed: %v", err)
	}
	if err := Compare(fp, fp2); err != nil {
		t.Errorf("version tag should not affect fingerprint: %v", err)
	}

	changed := model.NewSchemaModel("v1")
	changed.Entities["User"] = usersEntity("User", "users")
	changed.Entities["User"].Columns["email"].Nullable = false
	fp3, err := ComputeFingerprint(changed)
	if err != nil {
		t.Fatalf("ComputeFingerprint failed: %v", err)
	}
	if fp.Hash == fp3.Hash {
		t.Error("content change should change fingerprint")
	}
}

func TestComputeFingerprint_Nil(t *testing.T) {
	fp, err := ComputeFingerprint(nil)
	if err != nil {
		t.Fatalf("ComputeFingerprint(nil) failed: %v", err)
	}
	empty, _ := ComputeFingerprint(model.NewSchemaModel("x"))
	if fp.Hash != empty.Hash {
		t.Error("nil snapshot should hash like an empty snapshot")
	}
}

func TestEntityFingerprint(t *testing.T) {
	old := usersEntity("OldUser", "old_users")
	renamed := usersEntity("NewUser", "new_users")

	if EntityFingerprint(old) != EntityFingerprint(renamed) {
		t.Error("entity and table names must not contribute to the fingerprint")
	}

	// non-essential attributes are ignored
	renamed.Columns["email"].Length = 100
	if EntityFingerprint(old) != EntityFingerprint(renamed) {
		t.Error("length must not contribute to the fingerprint")
	}

	renamed.Columns["email"].JavaType = "Integer"
	if EntityFingerprint(old) == EntityFingerprint(renamed) {
		t.Error("type change must change the fingerprint")
	}

	if got := EntityFingerprint(&model.EntityModel{EntityName: "Empty"}); got != "" {
		t.Errorf("column-less entity fingerprint = %q, want empty", got)
	}
}

func TestString(t *testing.T) {
	fp := &SchemaFingerprint{Hash: "0123456789abcdef"}
	if got := fp.String(); got != "Schema fingerprint: 01234567" {
		t.Errorf("String() = %q", got)
	}
}
