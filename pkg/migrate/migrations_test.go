package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Zwubman/team-work-supply-tracker/pkg/migrate"
)

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestInitSchemaMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE users",
		"email TEXT NOT NULL UNIQUE",
		"CREATE TABLE items",
		"sku TEXT NOT NULL UNIQUE",
		"CHECK (quantity >= 0)",
		"CHECK (threshold >= 1)",
		"CREATE TABLE movements",
		"movement_type movement_type_enum NOT NULL",
		"CREATE TABLE supplies",
		"status supply_status_enum NOT NULL DEFAULT 'pending'",
		"DROP TABLE IF EXISTS supplies",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()

	path, err := migrate.CreateSQLMigration(dir, "Add Supplier Index!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_supplier_index.sql") {
		t.Fatalf("unexpected migration filename %q", path)
	}

	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("validate created migration: %v", err)
	}
}
