package database

import (
	"math"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/gradhub/thesisdesk/core"
)

// goose refuses to run a directory holding two files with the same version
// prefix, which would brick Migrate and the admin migrate command.
func Test_migrationsDir_versionsAreUnique(t *testing.T) {
	dir := migrationsDir(core.Conf)

	migrations, err := goose.CollectMigrations(dir, 0, math.MaxInt64)
	if err != nil {
		t.Fatalf("CollectMigrations() failed: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("no migrations found")
	}

	prev := int64(0)
	for _, m := range migrations {
		if m.Version <= prev {
			t.Errorf("migration version %d (%s) not strictly greater than %d", m.Version, m.Source, prev)
		}
		prev = m.Version
	}
}
