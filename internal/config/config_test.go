package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eventlistener.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[engine]
tick_rate = "50ms"

[logging]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.TickRate != 50*time.Millisecond {
		t.Errorf("tick_rate = %s", cfg.Engine.TickRate)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Demo.MaxDamage != 20 {
		t.Errorf("default max_damage lost: %d", cfg.Demo.MaxDamage)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"debug\"\n")
	t.Setenv("EVENTLISTENER_LOG_LEVEL", "warn")
	t.Setenv("EVENTLISTENER_ENGINE_TICK_RATE", "1s")
	t.Setenv("EVENTLISTENER_DEMO_SEED", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %s", cfg.Logging.Level)
	}
	if cfg.Engine.TickRate != time.Second {
		t.Errorf("tick_rate = %s", cfg.Engine.TickRate)
	}
	if cfg.Demo.Seed != 7 {
		t.Errorf("seed = %d", cfg.Demo.Seed)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file accepted")
	}
	if _, err := Load(writeConfig(t, "[engine\n")); err == nil {
		t.Error("broken toml accepted")
	}
	if _, err := Load(writeConfig(t, "[engine]\ntick_rate = \"0s\"\n")); err == nil {
		t.Error("zero tick rate accepted")
	}
	if _, err := Load(writeConfig(t, "[database]\nenabled = true\ndsn = \"\"\n")); err == nil {
		t.Error("enabled database without dsn accepted")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("EVENTLISTENER_DB_ENABLED", "true")
	t.Setenv("EVENTLISTENER_DB_DSN", "postgres://x@y/z")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Database.Enabled || cfg.Database.DSN != "postgres://x@y/z" {
		t.Errorf("database = %+v", cfg.Database)
	}
}
