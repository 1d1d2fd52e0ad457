package migrations

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindLatestMigrationVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000001_create_games.up.sql",
		"000001_create_games.down.sql",
		"000003_leaderboard_index.up.sql",
		"README.md",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("--"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "000009_dir"), 0755); err != nil {
		t.Fatal(err)
	}

	if got := findLatestMigrationVersion(dir); got != 3 {
		t.Errorf("latest = %d, want 3", got)
	}
}

func TestFindLatestMigrationVersionMissingDir(t *testing.T) {
	if got := findLatestMigrationVersion(filepath.Join(t.TempDir(), "missing")); got != 0 {
		t.Errorf("latest = %d, want 0", got)
	}
}

func TestShippedMigrationsPair(t *testing.T) {
	dir := filepath.Join("..", "..", DefaultDir)
	if findLatestMigrationVersion(dir) < 1 {
		t.Fatal("no migrations found in repo")
	}
	ups, _ := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	downs, _ := filepath.Glob(filepath.Join(dir, "*.down.sql"))
	if len(ups) != len(downs) {
		t.Errorf("%d up files but %d down files", len(ups), len(downs))
	}
}

func TestRunMigrationsRequiresURL(t *testing.T) {
	if err := RunMigrations("", ""); err == nil {
		t.Error("expected error for empty URL")
	}
}
