package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetenv(t *testing.T) {
	// Test with empty environment variable
	os.Unsetenv("TEST_GETENV")
	result := getenv("TEST_GETENV", "default")
	if result != "default" {
		t.Errorf("Expected default value 'default', got '%s'", result)
	}

	// Test with set environment variable
	os.Setenv("TEST_GETENV", "test-value")
	result = getenv("TEST_GETENV", "default")
	if result != "test-value" {
		t.Errorf("Expected 'test-value', got '%s'", result)
	}

	// Clean up
	os.Unsetenv("TEST_GETENV")
}

func TestGetenvInt(t *testing.T) {
	// Test with empty environment variable
	os.Unsetenv("TEST_GETENV_INT")
	result := getenvInt("TEST_GETENV_INT", 42)
	if result != 42 {
		t.Errorf("Expected default value 42, got %d", result)
	}

	// Test with valid integer
	os.Setenv("TEST_GETENV_INT", "100")
	result = getenvInt("TEST_GETENV_INT", 42)
	if result != 100 {
		t.Errorf("Expected 100, got %d", result)
	}

	// Test with invalid integer
	os.Setenv("TEST_GETENV_INT", "not-an-int")
	result = getenvInt("TEST_GETENV_INT", 42)
	if result != 42 {
		t.Errorf("Expected default value 42, got %d", result)
	}

	// Clean up
	os.Unsetenv("TEST_GETENV_INT")
}

func TestGetenvBool(t *testing.T) {
	// Test with empty environment variable
	os.Unsetenv("TEST_GETENV_BOOL")
	result := getenvBool("TEST_GETENV_BOOL", true)
	if result != true {
		t.Errorf("Expected default value true, got %v", result)
	}

	// Test with valid boolean (true)
	os.Setenv("TEST_GETENV_BOOL", "true")
	result = getenvBool("TEST_GETENV_BOOL", false)
	if result != true {
		t.Errorf("Expected true, got %v", result)
	}

	// Test with valid boolean (false)
	os.Setenv("TEST_GETENV_BOOL", "false")
	result = getenvBool("TEST_GETENV_BOOL", true)
	if result != false {
		t.Errorf("Expected false, got %v", result)
	}

	// Test with invalid boolean
	os.Setenv("TEST_GETENV_BOOL", "not-a-bool")
	result = getenvBool("TEST_GETENV_BOOL", true)
	if result != true {
		t.Errorf("Expected default value true, got %v", result)
	}

	// Clean up
	os.Unsetenv("TEST_GETENV_BOOL")
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SFTP_HOST", "SFTP_PORT", "SFTP_USER", "SFTP_PASS", "SFTP_DIR",
		"SFTP_KNOWN_HOSTS", "SFTP_INSECURE_IGNORE_HOSTKEY",
		"GTA_LOG_LEVEL", "GTA_LOG_FORMAT", "GTA_CATALOG_URL",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gtacatalog.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[catalog]
subjects = ["comp", " math "]
default_subject = "comp"
sources = ["raw/*.json", "https://example.test/catalog.json"]

[terms]
"202610" = "Winter Quarter 2026"

[identity]
display_name_policy = "Official"

[sftp]
host = "sftp.test"
`)
	t.Setenv("SFTP_PORT", "2222")
	t.Setenv("SFTP_PASS", "sftp-pass")
	t.Setenv("GTA_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Catalog.DefaultSubject != "COMP" {
		t.Errorf("Expected DefaultSubject 'COMP', got '%s'", cfg.Catalog.DefaultSubject)
	}
	if strings.Join(cfg.Catalog.Subjects, ",") != "COMP,MATH" {
		t.Errorf("Expected subjects COMP,MATH, got %v", cfg.Catalog.Subjects)
	}
	if cfg.Catalog.Sources[0] != filepath.Clean("raw/*.json") || cfg.Catalog.Sources[1] != "https://example.test/catalog.json" {
		t.Errorf("Expected sources to be kept, got %v", cfg.Catalog.Sources)
	}
	if cfg.Terms["202610"] != "Winter Quarter 2026" {
		t.Errorf("Expected term label, got %v", cfg.Terms)
	}
	if cfg.Identity.DisplayNamePolicy != "official" {
		t.Errorf("Expected policy 'official', got '%s'", cfg.Identity.DisplayNamePolicy)
	}
	if cfg.SFTP.Host != "sftp.test" || cfg.SFTP.Port != 2222 || cfg.SFTP.Pass != "sftp-pass" {
		t.Errorf("Expected sftp settings from file and env, got %+v", cfg.SFTP)
	}
	if cfg.SFTP.Dir != "/inbound" {
		t.Errorf("Expected default SFTP dir '/inbound', got '%s'", cfg.SFTP.Dir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level 'debug', got '%s'", cfg.Logging.Level)
	}
	if len(cfg.GTA.CourseTypes) != 4 {
		t.Errorf("Expected default course types, got %v", cfg.GTA.CourseTypes)
	}
}

func TestLoadCatalogURLFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GTA_CATALOG_URL", "https://example.test/live.json")

	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(cfg.Catalog.Sources) != 1 || cfg.Catalog.Sources[0] != "https://example.test/live.json" {
		t.Errorf("Expected env URL to replace sources, got %v", cfg.Catalog.Sources)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected an error for a missing explicit config file")
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	clearEnv(t)
	if _, err := Load(writeConfig(t, "[catalog\n")); err == nil {
		t.Error("Expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown policy", func(c *Config) { c.Identity.DisplayNamePolicy = "alphabetical" }},
		{"bad timezone", func(c *Config) { c.Schedule.Timezone = "Mars/Olympus" }},
		{"bad port", func(c *Config) { c.SFTP.Port = 70000 }},
		{"empty term code", func(c *Config) { c.Terms[" "] = "Winter" }},
		{"no sources", func(c *Config) { c.Catalog.Sources = nil }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"sftp without host", func(c *Config) { c.SFTP.Enabled = true }},
		{"sftp without known hosts", func(c *Config) {
			c.SFTP.Enabled, c.SFTP.Host, c.SFTP.User = true, "h", "u"
		}},
		{"archive quality", func(c *Config) { c.Archive.Quality = 12 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "conf", "gtacatalog.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := CreateSample(path); err == nil {
		t.Error("Expected an error when the sample already exists")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected the sample to load, got %v", err)
	}
	if cfg.Terms["202630"] != "Spring Quarter 2026" {
		t.Errorf("Expected sample terms, got %v", cfg.Terms)
	}
}
