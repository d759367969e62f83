package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfig []byte

var validate = validator.New()

// BackendConfig describes where the analysis backend lives.
type BackendConfig struct {
	BaseURL     string `yaml:"base_url" env:"RHETORIC_BACKEND_BASE_URL" validate:"required,url"`
	AnalyzePath string `yaml:"analyze_path" env:"RHETORIC_BACKEND_ANALYZE_PATH" validate:"required,startswith=/"`
	// Timeout is empty by default: the request gets no deadline beyond the transport's own.
	Timeout string `yaml:"timeout" env:"RHETORIC_BACKEND_TIMEOUT"`
}

// AnalyzeURL returns the full endpoint the upload is posted to.
func (b *BackendConfig) AnalyzeURL() string {
	return strings.TrimRight(b.BaseURL, "/") + b.AnalyzePath
}

// GetTimeout returns the parsed request timeout, or 0 when none is configured.
func (b *BackendConfig) GetTimeout() time.Duration {
	if b.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(b.Timeout)
	if err != nil {
		return 0
	}
	return d
}

type PlayerConfig struct {
	EmbedBaseURL string `yaml:"embed_base_url" env:"RHETORIC_PLAYER_EMBED_BASE_URL" validate:"required,url"`
}

type UIConfig struct {
	Language string `yaml:"language" env:"RHETORIC_UI_LANGUAGE"`
}

// DefaultSessionTTL is how long an idle browser session keeps its view.
const DefaultSessionTTL = 1 * time.Hour

// DefaultMaxUploadMB caps the size of a selected video.
const DefaultMaxUploadMB = 512

type Config struct {
	Log struct {
		Level string `yaml:"level" env:"RHETORIC_LOG_LEVEL"`
	} `yaml:"log"`
	Server struct {
		ListenPort  string `yaml:"listen_port" env:"RHETORIC_SERVER_PORT" validate:"required,numeric"`
		SessionTTL  string `yaml:"session_ttl" env:"RHETORIC_SERVER_SESSION_TTL"`
		MaxUploadMB int    `yaml:"max_upload_mb" env:"RHETORIC_SERVER_MAX_UPLOAD_MB"`
	} `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Player  PlayerConfig  `yaml:"player"`
	UI      UIConfig      `yaml:"ui"`
}

// GetSessionTTL returns the parsed session TTL.
// Falls back to DefaultSessionTTL if not configured or invalid.
func (c *Config) GetSessionTTL() time.Duration {
	if c.Server.SessionTTL == "" {
		return DefaultSessionTTL
	}
	d, err := time.ParseDuration(c.Server.SessionTTL)
	if err != nil || d <= 0 {
		return DefaultSessionTTL
	}
	return d
}

// GetMaxUploadBytes returns the upload limit in bytes.
func (c *Config) GetMaxUploadBytes() int64 {
	mb := c.Server.MaxUploadMB
	if mb <= 0 {
		mb = DefaultMaxUploadMB
	}
	return int64(mb) << 20
}

// Load loads configuration from the specified file path.
// It first loads the embedded default configuration, then merges the user config on top.
// Finally, it overrides values with environment variables.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfig, &cfg); err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			slog.Warn("config file not found, using defaults", "path", path)
		} else {
			expandedData := []byte(os.ExpandEnv(string(data)))
			if err := yaml.Unmarshal(expandedData, &cfg); err != nil {
				return nil, err
			}
			slog.Info("loaded user config", "path", path)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDefault loads the embedded default configuration.
func LoadDefault() (*Config, error) {
	return Load("")
}

// DefaultConfigBytes returns the raw embedded default configuration.
// Useful for generating example config files.
func DefaultConfigBytes() []byte {
	return defaultConfig
}

// Validate checks configuration for required fields and valid ranges.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []error

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("%s: failed %q check (value %q)", fe.Namespace(), fe.Tag(), fmt.Sprint(fe.Value())))
			}
		} else {
			errs = append(errs, err)
		}
	}

	if c.Backend.Timeout != "" {
		if d, err := time.ParseDuration(c.Backend.Timeout); err != nil {
			errs = append(errs, fmt.Errorf("backend.timeout: invalid duration format %q: %w", c.Backend.Timeout, err))
		} else if d < 0 {
			errs = append(errs, fmt.Errorf("backend.timeout must not be negative, got %s", d))
		}
	}
	if c.Server.SessionTTL != "" {
		if _, err := time.ParseDuration(c.Server.SessionTTL); err != nil {
			errs = append(errs, fmt.Errorf("server.session_ttl: invalid duration format %q: %w", c.Server.SessionTTL, err))
		}
	}
	if c.Server.MaxUploadMB < 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_mb must not be negative, got %d", c.Server.MaxUploadMB))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
