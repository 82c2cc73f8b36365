// Package config loads runtime settings. Precedence: environment variable,
// then the optional YAML config file, then the built-in default.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	BaseURL       string
	HTTPTimeout   time.Duration
	DeviceModel   string
	CredentialDir string
	RedisAddr     string
	MetricsAddr   string
}

// fileConfig mirrors ~/.momu/config.yaml.
type fileConfig struct {
	BaseURL       string `yaml:"base_url"`
	HTTPTimeout   string `yaml:"http_timeout"`
	DeviceModel   string `yaml:"device_model"`
	CredentialDir string `yaml:"credential_dir"`
	RedisAddr     string `yaml:"redis_addr"`
	MetricsAddr   string `yaml:"metrics_addr"`
}

func Load() Config {
	file := loadFile()
	return Config{
		BaseURL:       getenv("MOMU_BASE_URL", file.BaseURL, "https://momu.com.br/api"),
		HTTPTimeout:   getenvDuration("MOMU_HTTP_TIMEOUT", file.HTTPTimeout, 15*time.Second),
		DeviceModel:   getenv("MOMU_DEVICE_MODEL", file.DeviceModel, defaultDeviceModel()),
		CredentialDir: getenv("MOMU_CREDENTIAL_DIR", file.CredentialDir, defaultCredentialDir()),
		RedisAddr:     getenv("MOMU_REDIS_ADDR", file.RedisAddr, ""),
		MetricsAddr:   getenv("MOMU_METRICS_ADDR", file.MetricsAddr, ""),
	}
}

func loadFile() fileConfig {
	path := os.Getenv("MOMU_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fileConfig{}
		}
		path = filepath.Join(home, ".momu", "config.yaml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}
	}
	return cfg
}

func defaultCredentialDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".momu"
	}
	return filepath.Join(home, ".momu")
}

func defaultDeviceModel() string {
	host, err := os.Hostname()
	if err != nil {
		return runtime.GOOS
	}
	return runtime.GOOS + "/" + host
}

func getenv(key, fromFile, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if fromFile != "" {
		return fromFile
	}
	return fallback
}

func getenvDuration(key, fromFile string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	if fromFile != "" {
		if parsed, err := time.ParseDuration(fromFile); err == nil {
			return parsed
		}
	}
	return fallback
}
