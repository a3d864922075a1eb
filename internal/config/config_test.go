package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Spok95/pocket-bot/internal/config"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	p := writeYAML(t, "postgres:\n  dsn: postgres://x\n")

	c, err := config.Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Postgres.DSN != "postgres://x" {
		t.Fatalf("dsn = %q", c.Postgres.DSN)
	}
	if c.Trivia.Amount != 10 || c.Trivia.SwapAttempts != 5 {
		t.Fatalf("trivia defaults = %+v", c.Trivia)
	}
	if c.Trivia.Timeout != 10*time.Second || c.Trivia.SwapBackoff != 5*time.Second || c.Trivia.SwapTimeout != 30*time.Second {
		t.Fatalf("timeouts = %v, %v, %v", c.Trivia.Timeout, c.Trivia.SwapBackoff, c.Trivia.SwapTimeout)
	}
	if c.HTTP.Addr != ":8080" {
		t.Fatalf("addr = %q", c.HTTP.Addr)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	p := writeYAML(t, "postgres:\n  dsn: postgres://file\n")
	t.Setenv("APP_POSTGRES_DSN", "postgres://env")

	c, err := config.Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Postgres.DSN != "postgres://env" {
		t.Fatalf("dsn = %q, want env value", c.Postgres.DSN)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestLocation(t *testing.T) {
	var c config.Config
	if c.Location() != time.UTC {
		t.Fatal("empty timezone must be UTC")
	}
	c.App.Timezone = "Not/AZone"
	if c.Location() != time.UTC {
		t.Fatal("invalid timezone must fall back to UTC")
	}
}
