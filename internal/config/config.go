package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Site        SiteConfig        `yaml:"site"`
	Server      ServerConfig      `yaml:"server"`
	Auth        AuthConfig        `yaml:"auth"`
	Session     SessionConfig     `yaml:"session"`
	Storage     StorageConfig     `yaml:"storage"`
	Upload      UploadConfig      `yaml:"upload"`
	Theme       ThemeConfig       `yaml:"theme"`
	Dashboard   DashboardConfig   `yaml:"dashboard"`
	Compression CompressionConfig `yaml:"compression"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"console"`
}

type SiteConfig struct {
	Name    string `yaml:"name" default:"DIU CSE Alumni"`
	Tagline string `yaml:"tagline" default:"Manage your alumni platform efficiently from this dashboard."`
}

type ServerConfig struct {
	Host        string        `yaml:"host" default:"0.0.0.0"`
	Port        string        `yaml:"port" default:"12600"`
	ReadTimeout time.Duration `yaml:"read_timeout" default:"15s"`
}

// AuthConfig points at the alumni API that owns the login and
// password-reset endpoints.
type AuthConfig struct {
	APIURL   string        `yaml:"api_url" default:"http://localhost:3000"`
	Timeout  time.Duration `yaml:"timeout" default:"10s"`
	TokenKey string        `yaml:"token_key" default:"token"`
}

// SessionConfig bounds how long an unused browser workspace is kept.
type SessionConfig struct {
	IdleTimeout   time.Duration `yaml:"idle_timeout" default:"24h"`
	SweepInterval time.Duration `yaml:"sweep_interval" default:"10m"`
}

type StorageConfig struct {
	DatabasePath string `yaml:"database_path" default:"./admin.db"`
}

type UploadConfig struct {
	MaxBytes int `yaml:"max_bytes" default:"10485760"`
}

type ThemeConfig struct {
	Default            string       `yaml:"default" default:"light-theme"`
	AllowSwitching     bool         `yaml:"allow_switching" default:"true"`
	SyntaxHighlighting SyntaxConfig `yaml:"syntax_highlighting"`
}

type SyntaxConfig struct {
	DefaultDark  string `yaml:"default_dark" default:"gruvbox"`
	DefaultLight string `yaml:"default_light" default:"catppuccin-latte"`
}

// DashboardConfig holds the figures shown on the home screen stat cards.
type DashboardConfig struct {
	TotalUsers     int `yaml:"total_users" default:"1234"`
	AlumniListed   int `yaml:"alumni_listed" default:"567"`
	EventsUpcoming int `yaml:"events_upcoming" default:"3"`
}

type CompressionConfig struct {
	Enabled bool `yaml:"enabled" default:"true"`
}

var AppConfig *Config

func LoadConfig(path string) error {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	// Try to read and parse the config file
	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just use defaults
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
		AppConfig = config
		return nil
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	AppConfig = config
	return nil
}

// ApplyEnv overrides deployment specific values from the environment.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("AUTH_API_URL"); v != "" {
		cfg.Auth.APIURL = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Storage.DatabasePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

var durationType = reflect.TypeOf(time.Duration(0))

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		if field.Type() == durationType {
			if val, err := time.ParseDuration(defaultValue); err == nil {
				field.SetInt(int64(val))
			}
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
