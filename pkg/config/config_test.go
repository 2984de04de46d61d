package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTestConfig creates a config.yaml in a temp dir and chdirs into it so
// Load() picks it up.
func writeTestConfig(t *testing.T, yamlContent string) {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})
}

func TestLoad_Defaults(t *testing.T) {
	writeTestConfig(t, "env: \"test\"\n")

	// Clear env vars that might interfere with test
	os.Unsetenv("SAKENOWA_BASE_URL")
	os.Unsetenv("SAKENOWA_TIMEOUT_SECONDS")
	os.Unsetenv("SAKENOWA_BATCH_SIZE")
	os.Unsetenv("PGHOST")
	os.Unsetenv("BASE_URL")
	os.Unsetenv("PORT")

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Sakenowa.BaseURL != "https://muro.sakenowa.com/api" {
		t.Errorf("expected default sakenowa base URL, got %s", cfg.Sakenowa.BaseURL)
	}
	if cfg.Sakenowa.TimeoutSeconds != 60 {
		t.Errorf("expected default timeout 60s, got %d", cfg.Sakenowa.TimeoutSeconds)
	}
	if cfg.Sakenowa.BatchSize != 100 {
		t.Errorf("expected default batch size 100, got %d", cfg.Sakenowa.BatchSize)
	}
	if cfg.Sakenowa.FullRefresh {
		t.Error("expected full refresh disabled by default")
	}
	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}
	if cfg.BaseURL != "http://localhost:3000" {
		t.Errorf("expected BaseURL auto-derived from port, got %s", cfg.BaseURL)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	writeTestConfig(t, `
port: "3000"
env: "test"
database:
  host: "db.example.com"
  port: 5432
  user: "testuser"
  database: "testdb"
sakenowa:
  base_url: "https://yaml.example.com/api"
  timeout_seconds: 30
`)

	os.Unsetenv("BASE_URL")
	t.Setenv("PORT", "4000")
	t.Setenv("SAKENOWA_BASE_URL", "https://env.example.com/api")

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "4000" {
		t.Errorf("expected Port=4000 (from env), got %s", cfg.Port)
	}
	if cfg.Sakenowa.BaseURL != "https://env.example.com/api" {
		t.Errorf("expected env to override sakenowa base URL, got %s", cfg.Sakenowa.BaseURL)
	}
	if cfg.Sakenowa.TimeoutSeconds != 30 {
		t.Errorf("expected timeout 30s from YAML, got %d", cfg.Sakenowa.TimeoutSeconds)
	}
	if cfg.Database.Host != "db.example.com" {
		t.Errorf("expected database host from YAML, got %s", cfg.Database.Host)
	}
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	writeTestConfig(t, `
sakenowa:
  timeout_seconds: -5
`)
	os.Unsetenv("SAKENOWA_TIMEOUT_SECONDS")

	if _, err := Load("dev"); err == nil {
		t.Fatal("expected Load() to fail for a negative timeout")
	}
}

func TestSakenowaConfig_Timeout(t *testing.T) {
	cfg := SakenowaConfig{TimeoutSeconds: 60}
	if cfg.Timeout().Seconds() != 60 {
		t.Errorf("expected 60s, got %v", cfg.Timeout())
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "sakenavi",
		Password: "secret",
		Database: "sakenavi",
		SSLMode:  "disable",
	}
	want := "host=localhost port=5432 user=sakenavi password=secret dbname=sakenavi sslmode=disable"
	if got := cfg.ConnectionString(); got != want {
		t.Errorf("unexpected connection string:\n got %s\nwant %s", got, want)
	}
}
