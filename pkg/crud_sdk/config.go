package crud_sdk

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML configuration accepted by LoadConfig.
//
//	mode: http
//	api_key: secret
//	api_url: https://items.example.com
//	timeout: 10s
//	log_level: debug
//	mock_seed: ./seed.yaml
type FileConfig struct {
	Mode     string        `yaml:"mode"`
	APIKey   string        `yaml:"api_key"`
	APIURL   string        `yaml:"api_url"`
	Timeout  time.Duration `yaml:"timeout"`
	LogLevel string        `yaml:"log_level"`
	MockSeed string        `yaml:"mock_seed"`
}

// DefaultConfig returns the configuration used for keys a file omits.
func DefaultConfig() *FileConfig {
	return &FileConfig{Mode: ModeAuto}
}

// LoadConfig reads and validates the YAML config at path. A relative
// mock_seed is resolved against the config file's directory.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("crud_sdk: read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	if cfg.MockSeed != "" && !filepath.IsAbs(cfg.MockSeed) {
		cfg.MockSeed = filepath.Join(filepath.Dir(path), cfg.MockSeed)
	}
	return cfg, nil
}

// ParseConfig decodes and validates a YAML config document.
func ParseConfig(data []byte) (*FileConfig, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("crud_sdk: parse config: %w", err)
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeAuto
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("crud_sdk: %w", err)
	}
	return cfg, nil
}

// Validate reports the first problem with the configuration.
func (c *FileConfig) Validate() error {
	switch c.Mode {
	case ModeAuto, ModeMock:
	case ModeHTTP:
		if c.APIKey == "" || c.APIURL == "" {
			return fmt.Errorf("http mode requires api_key and api_url (%s, %s)", envAPIKey, envAPIURL)
		}
	default:
		return fmt.Errorf("unsupported mode %q (%s)", c.Mode, envMode)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	return nil
}

// ResolvedMode maps auto onto http or mock depending on whether credentials
// are present.
func (c *FileConfig) ResolvedMode() string {
	switch c.Mode {
	case ModeHTTP, ModeMock:
		return c.Mode
	}
	if c.APIKey != "" && c.APIURL != "" {
		return ModeHTTP
	}
	return ModeMock
}
