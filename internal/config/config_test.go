package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DATA_BACKEND", "LEDGER_FILE", "SQLITE_DB_PATH", "LEDGER_OWNERS", "LEDGER_STRICT_LOAD"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	if cfg.Port != "8081" {
		t.Errorf("expected default port 8081, got %s", cfg.Port)
	}
	if cfg.DataBackend != "json" {
		t.Errorf("expected default backend json, got %s", cfg.DataBackend)
	}
	if cfg.LedgerFile != "./data/expenses.json" {
		t.Errorf("expected default ledger file, got %s", cfg.LedgerFile)
	}
	if cfg.SQLiteDBPath != "./data/ledger.db" {
		t.Errorf("expected default sqlite path, got %s", cfg.SQLiteDBPath)
	}
	if cfg.Owners != nil {
		t.Errorf("expected no owners by default, got %v", cfg.Owners)
	}
	if !cfg.StrictLoad {
		t.Error("expected strict load enabled by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("LEDGER_OWNERS", "ann, bob , ")
	t.Setenv("LEDGER_STRICT_LOAD", "false")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Port)
	}
	if cfg.DataBackend != "sqlite" {
		t.Errorf("expected sqlite backend, got %s", cfg.DataBackend)
	}
	if len(cfg.Owners) != 2 || cfg.Owners[0] != "ann" || cfg.Owners[1] != "bob" {
		t.Errorf("expected trimmed owner list [ann bob], got %v", cfg.Owners)
	}
	if cfg.StrictLoad {
		t.Error("expected strict load disabled")
	}
	if !cfg.OwnerFeatureEnabled() {
		t.Error("expected owner feature enabled with non-empty list")
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	valid := func() *Config {
		return &Config{
			Port:         "8081",
			DataBackend:  "json",
			LedgerFile:   filepath.Join(dir, "expenses.json"),
			SQLiteDBPath: filepath.Join(dir, "ledger.db"),
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantMsg string
	}{
		{"non-numeric port", func(c *Config) { c.Port = "abc" }, "invalid port"},
		{"port too small", func(c *Config) { c.Port = "0" }, "invalid port"},
		{"port too large", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"unknown backend", func(c *Config) { c.DataBackend = "postgres" }, "invalid data backend"},
		{"empty ledger file", func(c *Config) { c.LedgerFile = "" }, "ledger file path cannot be empty"},
		{"blank owner", func(c *Config) { c.Owners = []string{"ann", "  "} }, "owner names cannot be blank"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation to fail")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("expected error containing %q, got %v", tc.wantMsg, err)
			}
		})
	}
}

func TestValidateCollectsMultipleErrors(t *testing.T) {
	cfg := &Config{Port: "abc", DataBackend: "postgres"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	msg := err.Error()
	if !strings.Contains(msg, "invalid port") || !strings.Contains(msg, "invalid data backend") {
		t.Errorf("expected both errors reported, got %v", err)
	}
}

func TestValidateSQLiteBackend(t *testing.T) {
	cfg := &Config{Port: "8081", DataBackend: "sqlite", SQLiteDBPath: ""}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "SQLite database path cannot be empty") {
		t.Errorf("expected sqlite path error, got %v", err)
	}
}
