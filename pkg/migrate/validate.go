package migrate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/pressly/goose/v3"
)

var migrationName = regexp.MustCompile(`^\d{14}_[a-z0-9_]+\.sql$`)

// ValidateDir checks every SQL migration in dir is named
// YYYYMMDDHHMMSS_slug.sql, has a unique version and carries both goose
// sections. DefaultDir is checked against the embedded copy.
func ValidateDir(dir string) error {
	if dir == "" {
		return errors.New("dir is required")
	}
	fsys, root := fs.FS(os.DirFS(dir)), "."
	if dir == DefaultDir {
		fsys, root = embeddedMigrations, embeddedDir
	}

	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}

	versions := make(map[int64]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		if !migrationName.MatchString(name) {
			return fmt.Errorf("invalid migration filename %q (want YYYYMMDDHHMMSS_name.sql)", name)
		}
		version, err := goose.NumericComponent(name)
		if err != nil {
			return fmt.Errorf("migration %q: %w", name, err)
		}
		if prev, dup := versions[version]; dup {
			return fmt.Errorf("migrations %q and %q share version %d", prev, name, version)
		}
		versions[version] = name

		body, err := fs.ReadFile(fsys, path.Join(root, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		for _, section := range []string{"-- +goose Up", "-- +goose Down"} {
			if !strings.Contains(string(body), section) {
				return fmt.Errorf("migration %q has no %q section", name, section)
			}
		}
	}

	if len(versions) == 0 {
		return fmt.Errorf("no migrations found in %s", dir)
	}
	return nil
}
