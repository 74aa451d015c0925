package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `server:
  listen: ":9090"
formatter:
  splitter: ", "
  rules_dir: /srv/address-formatting
db_creds:
  host: localhost
  port: "5432"
  username: forge
  password: secret
  database: addresses
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected no error, but got %v", err)
	}
	if cfg.Server.Listen != ":9090" {
		t.Errorf("expected listen :9090, got %q", cfg.Server.Listen)
	}
	if cfg.Formatter.Splitter != ", " || cfg.Formatter.RulesDir != "/srv/address-formatting" {
		t.Errorf("unexpected formatter section: %+v", cfg.Formatter)
	}
	if cfg.DBCreds.Host != "localhost" || cfg.DBCreds.Port != "5432" ||
		cfg.DBCreds.Username != "forge" || cfg.DBCreds.Password != "secret" ||
		cfg.DBCreds.Database != "addresses" {
		t.Errorf("unexpected db_creds section: %+v", cfg.DBCreds)
	}
}

func TestLoadConfigDefaultListen(t *testing.T) {
	path := writeConfig(t, "formatter:\n  splitter: \" | \"\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected no error, but got %v", err)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("expected default listen :8080, got %q", cfg.Server.Listen)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
