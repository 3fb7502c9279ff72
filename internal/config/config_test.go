package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestApplyDefaults(t *testing.T) {
	t.Run("Config struct defaults", func(t *testing.T) {
		config := &Config{}
		applyDefaults(config)

		if config.Site.Name != "DIU CSE Alumni" {
			t.Errorf("Expected site name 'DIU CSE Alumni', got %q", config.Site.Name)
		}
		if config.Server.Host != "0.0.0.0" {
			t.Errorf("Expected host '0.0.0.0', got %q", config.Server.Host)
		}
		if config.Server.Port != "12600" {
			t.Errorf("Expected port '12600', got %q", config.Server.Port)
		}
		if config.Server.ReadTimeout != 15*time.Second {
			t.Errorf("Expected read timeout 15s, got %v", config.Server.ReadTimeout)
		}
		if config.Auth.APIURL != "http://localhost:3000" {
			t.Errorf("Expected auth api url, got %q", config.Auth.APIURL)
		}
		if config.Auth.Timeout != 10*time.Second {
			t.Errorf("Expected auth timeout 10s, got %v", config.Auth.Timeout)
		}
		if config.Auth.TokenKey != "token" {
			t.Errorf("Expected token key 'token', got %q", config.Auth.TokenKey)
		}
		if config.Upload.MaxBytes != 10485760 {
			t.Errorf("Expected max upload 10485760, got %d", config.Upload.MaxBytes)
		}
		if config.Theme.Default != LightTheme {
			t.Errorf("Expected theme %q, got %q", LightTheme, config.Theme.Default)
		}
		if config.Dashboard.TotalUsers != 1234 || config.Dashboard.AlumniListed != 567 || config.Dashboard.EventsUpcoming != 3 {
			t.Errorf("Unexpected dashboard defaults: %+v", config.Dashboard)
		}
		if config.Session.IdleTimeout != 24*time.Hour || config.Session.SweepInterval != 10*time.Minute {
			t.Errorf("Unexpected session defaults: %+v", config.Session)
		}
		if !config.Compression.Enabled {
			t.Error("Expected compression to be enabled by default")
		}
		if config.Logging.Level != "info" || config.Logging.Format != "console" {
			t.Errorf("Unexpected logging defaults: %+v", config.Logging)
		}
	})

	t.Run("Custom struct with various field types", func(t *testing.T) {
		type TestStruct struct {
			StringField   string        `default:"test-string"`
			BoolField     bool          `default:"true"`
			IntField      int           `default:"42"`
			Float64Field  float64       `default:"3.14"`
			SliceField    []string      `default:"a, b ,c"`
			DurationField time.Duration `default:"1m30s"`
			NoDefault     string
		}

		test := &TestStruct{}
		applyDefaults(test)

		if test.StringField != "test-string" {
			t.Errorf("Expected string field 'test-string', got %q", test.StringField)
		}
		if !test.BoolField {
			t.Error("Expected bool field to be true")
		}
		if test.IntField != 42 {
			t.Errorf("Expected int field 42, got %d", test.IntField)
		}
		if test.Float64Field != 3.14 {
			t.Errorf("Expected float64 field 3.14, got %f", test.Float64Field)
		}
		if !reflect.DeepEqual(test.SliceField, []string{"a", "b", "c"}) {
			t.Errorf("Expected slice [a b c], got %v", test.SliceField)
		}
		if test.DurationField != 90*time.Second {
			t.Errorf("Expected duration 90s, got %v", test.DurationField)
		}
		if test.NoDefault != "" {
			t.Errorf("Expected no default field to be empty, got %q", test.NoDefault)
		}
	})

	t.Run("Invalid default values", func(t *testing.T) {
		type InvalidStruct struct {
			BadBool     bool          `default:"not-a-bool"`
			BadInt      int           `default:"not-an-int"`
			BadDuration time.Duration `default:"soon"`
		}

		test := &InvalidStruct{}
		applyDefaults(test)

		if test.BadBool || test.BadInt != 0 || test.BadDuration != 0 {
			t.Errorf("Expected zero values for invalid defaults, got %+v", test)
		}
	})

	t.Run("Non-struct input", func(t *testing.T) {
		stringVar := "test"
		applyDefaults(&stringVar)
		applyDefaults(stringVar)
		applyDefaults(42)
		applyDefaults(nil)
	})
}

func TestLoadConfig(t *testing.T) {
	SetLogger(zerolog.New(os.Stdout).Level(zerolog.ErrorLevel))

	t.Run("Load non-existent config file", func(t *testing.T) {
		originalAppConfig := AppConfig
		defer func() { AppConfig = originalAppConfig }()

		if err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
			t.Errorf("Expected no error for non-existent config file, got %v", err)
		}
		if AppConfig == nil || AppConfig.Site.Name != "DIU CSE Alumni" {
			t.Fatalf("Expected AppConfig to be set with defaults, got %+v", AppConfig)
		}
	})

	t.Run("Partial config keeps defaults", func(t *testing.T) {
		originalAppConfig := AppConfig
		defer func() { AppConfig = originalAppConfig }()

		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
site:
  name: "Test Admin"
auth:
  api_url: "https://api.example.org"
  timeout: 3s
dashboard:
  total_users: 10
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("Failed to write config content: %v", err)
		}

		if err := LoadConfig(path); err != nil {
			t.Fatalf("Expected no error loading partial config, got %v", err)
		}
		if AppConfig.Site.Name != "Test Admin" {
			t.Errorf("Expected site name 'Test Admin', got %q", AppConfig.Site.Name)
		}
		if AppConfig.Auth.APIURL != "https://api.example.org" {
			t.Errorf("Expected overridden api url, got %q", AppConfig.Auth.APIURL)
		}
		if AppConfig.Auth.Timeout != 3*time.Second {
			t.Errorf("Expected 3s timeout, got %v", AppConfig.Auth.Timeout)
		}
		if AppConfig.Dashboard.TotalUsers != 10 {
			t.Errorf("Expected total users 10, got %d", AppConfig.Dashboard.TotalUsers)
		}
		if AppConfig.Dashboard.AlumniListed != 567 {
			t.Errorf("Expected default alumni listed, got %d", AppConfig.Dashboard.AlumniListed)
		}
		if AppConfig.Auth.TokenKey != "token" {
			t.Errorf("Expected default token key, got %q", AppConfig.Auth.TokenKey)
		}
	})

	t.Run("Load invalid YAML file", func(t *testing.T) {
		originalAppConfig := AppConfig
		defer func() { AppConfig = originalAppConfig }()

		path := filepath.Join(t.TempDir(), "invalid.yaml")
		if err := os.WriteFile(path, []byte("site:\n  name: \"x\"\n  invalid yaml syntax [\n"), 0o600); err != nil {
			t.Fatalf("Failed to write config content: %v", err)
		}

		err := LoadConfig(path)
		if err == nil {
			t.Fatal("Expected error loading invalid config file")
		}
		if !strings.Contains(err.Error(), "failed to parse config file") {
			t.Errorf("Expected parse error, got %v", err)
		}
	})
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("AUTH_API_URL", "http://auth.internal:3000")
	t.Setenv("DATABASE_PATH", "/tmp/admin-test.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("PORT", "")

	cfg := &Config{}
	ApplyDefaults(cfg)
	ApplyEnv(cfg)

	if cfg.Auth.APIURL != "http://auth.internal:3000" {
		t.Errorf("Expected env api url, got %q", cfg.Auth.APIURL)
	}
	if cfg.Storage.DatabasePath != "/tmp/admin-test.db" {
		t.Errorf("Expected env database path, got %q", cfg.Storage.DatabasePath)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected env log level, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected env log format, got %q", cfg.Logging.Format)
	}
	if cfg.Server.Port != "12600" {
		t.Errorf("Expected default port to survive empty env, got %q", cfg.Server.Port)
	}
}
