package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/divinobizcochito/storefront-backend/pkg/migrate"
)

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestInitialSchemaContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_initial_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no initial schema migration found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE productos",
		"CHECK (precio >= 0)",
		"CREATE INDEX idx_productos_ventas ON productos (ventas DESC)",
		"CREATE TABLE payment_sessions",
		"buy_order          text NOT NULL UNIQUE",
		"CREATE TABLE pedidos",
		"REFERENCES users(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS payment_sessions",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
