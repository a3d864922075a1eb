package migrations_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/Spok95/pocket-bot/migrations"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) != 4 {
		t.Fatalf("got %d migrations, want 4", len(files))
	}
	for _, f := range files {
		raw, err := fs.ReadFile(migrations.FS, f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		body := string(raw)
		if !strings.Contains(body, "-- +goose Up") || !strings.Contains(body, "-- +goose Down") {
			t.Fatalf("%s: missing goose annotations", f)
		}
	}
}

func TestGpsPointsCascade(t *testing.T) {
	raw, err := fs.ReadFile(migrations.FS, "00003_routes.sql")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(raw), "REFERENCES routes(id) ON DELETE CASCADE") {
		t.Fatal("gps_points must cascade on route delete")
	}
}
