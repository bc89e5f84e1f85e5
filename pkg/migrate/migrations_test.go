package migrate

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob %s: %v", suffix, err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected exactly one %s migration, got %v", suffix, matches)
	}
	b, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read %s: %v", matches[0], err)
	}
	return string(b)
}

func TestMigrationsDirValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
	if err := ValidateDir(DefaultDir); err != nil {
		t.Fatalf("ValidateDir(embedded): %v", err)
	}
}

func TestEmbeddedMigrationsMatchDisk(t *testing.T) {
	embedded, err := fs.Glob(embeddedMigrations, "migrations/*.sql")
	if err != nil {
		t.Fatalf("glob embedded: %v", err)
	}
	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob disk: %v", err)
	}
	if len(embedded) == 0 || len(embedded) != len(onDisk) {
		t.Fatalf("embedded %d migrations, disk has %d", len(embedded), len(onDisk))
	}
}

func TestMigrationOrderCreatesParentsFirst(t *testing.T) {
	order := []string{
		"enable_postgis",
		"create_users_table",
		"create_stores_table",
		"create_user_stores_table",
		"create_products_table",
		"create_store_products_table",
	}
	entries, err := os.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(names) != len(order) {
		t.Fatalf("expected %d migrations, got %v", len(order), names)
	}
	for i, suffix := range order {
		if !strings.HasSuffix(names[i], "_"+suffix+".sql") {
			t.Fatalf("migration %d: expected %s, got %s", i, suffix, names[i])
		}
	}
}

func TestStoresMigrationIndexesGeography(t *testing.T) {
	sql := readMigration(t, "create_stores_table")
	for _, want := range []string{
		"location geography(Point, 4326) NOT NULL",
		"USING GIST (location)",
		"stores_lat_lng_idx",
		"REFERENCES users(id) ON DELETE CASCADE",
		"latitude BETWEEN -90 AND 90",
		"longitude BETWEEN -180 AND 180",
	} {
		if !strings.Contains(sql, want) {
			t.Fatalf("stores migration missing %q", want)
		}
	}
}

func TestAssociationMigrationsEnforceUniqueness(t *testing.T) {
	tests := []struct {
		suffix     string
		constraint *regexp.Regexp
	}{
		{"create_users_table", regexp.MustCompile(`users_external_auth_id_key UNIQUE \(external_auth_id\)`)},
		{"create_user_stores_table", regexp.MustCompile(`user_stores_user_id_store_id_key UNIQUE \(user_id, store_id\)`)},
		{"create_store_products_table", regexp.MustCompile(`store_products_store_id_product_id_key UNIQUE \(store_id, product_id\)`)},
	}
	for _, tt := range tests {
		t.Run(tt.suffix, func(t *testing.T) {
			if !tt.constraint.MatchString(readMigration(t, tt.suffix)) {
				t.Fatalf("%s missing %s", tt.suffix, tt.constraint)
			}
		})
	}
}

func TestProductsMigrationDefaultsStatus(t *testing.T) {
	sql := readMigration(t, "create_products_table")
	if !strings.Contains(sql, "status text NOT NULL DEFAULT 'ACTIVE'") {
		t.Fatal("products.status should default to ACTIVE")
	}
	if strings.Contains(sql, "CHECK (status") {
		t.Fatal("products.status must stay an open set")
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Store Hours!")
	if err != nil {
		t.Fatalf("CreateSQLMigration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_store_hours.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "add_store_hours migration") {
		t.Fatalf("template should name the migration, got:\n%s", body)
	}

	if _, err := CreateSQLMigration(dir, "!!!"); err == nil {
		t.Fatal("expected error for empty sanitized name")
	}
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"bad filename", map[string]string{"add_things.sql": "-- +goose Up\n-- +goose Down\n"}},
		{"missing down", map[string]string{"20250101000000_x.sql": "-- +goose Up\nSELECT 1;\n"}},
		{"duplicate version", map[string]string{
			"20250101000000_a.sql": "-- +goose Up\n-- +goose Down\n",
			"20250101000000_b.sql": "-- +goose Up\n-- +goose Down\n",
		}},
		{"empty", map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, body := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			if err := ValidateDir(dir); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestMigrateToVersionRejectsBadVersion(t *testing.T) {
	if err := MigrateToVersion(t.Context(), nil, DefaultDir, "latest"); err == nil {
		t.Fatal("expected parse error")
	}
	if err := MigrateToVersion(t.Context(), nil, DefaultDir, ""); err == nil {
		t.Fatal("expected required error")
	}
}
