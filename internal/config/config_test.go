package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MOMU_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()

	if cfg.BaseURL != "https://momu.com.br/api" {
		t.Fatalf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}
	if cfg.DeviceModel == "" {
		t.Fatalf("expected a default device model")
	}
	if cfg.CredentialDir == "" {
		t.Fatalf("expected a default credential dir")
	}
	if cfg.RedisAddr != "" || cfg.MetricsAddr != "" {
		t.Fatalf("redis and metrics are opt-in, got %q / %q", cfg.RedisAddr, cfg.MetricsAddr)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `base_url: https://staging.momu.com.br/api
http_timeout: 30s
device_model: test-device
redis_addr: 127.0.0.1:6379
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MOMU_CONFIG", path)

	cfg := Load()

	if cfg.BaseURL != "https://staging.momu.com.br/api" {
		t.Fatalf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}
	if cfg.DeviceModel != "test-device" {
		t.Fatalf("unexpected device model %q", cfg.DeviceModel)
	}
	if cfg.RedisAddr != "127.0.0.1:6379" {
		t.Fatalf("unexpected redis addr %q", cfg.RedisAddr)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("base_url: https://from-file\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MOMU_CONFIG", path)
	t.Setenv("MOMU_BASE_URL", "https://from-env")
	t.Setenv("MOMU_HTTP_TIMEOUT", "5s")

	cfg := Load()

	if cfg.BaseURL != "https://from-env" {
		t.Fatalf("env should win over file, got %q", cfg.BaseURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}
}

func TestTimeoutSecondsFallback(t *testing.T) {
	t.Setenv("MOMU_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("MOMU_HTTP_TIMEOUT_SECONDS", "45")

	cfg := Load()
	if cfg.HTTPTimeout != 45*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}
}

func TestMalformedFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MOMU_CONFIG", path)

	cfg := Load()
	if cfg.BaseURL != "https://momu.com.br/api" {
		t.Fatalf("expected default base url, got %q", cfg.BaseURL)
	}
}
