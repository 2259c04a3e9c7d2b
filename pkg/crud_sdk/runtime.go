package crud_sdk

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Ratio1/crud_sdk_go/internal/devseed"
	"github.com/Ratio1/crud_sdk_go/pkg/crud"
	"github.com/Ratio1/crud_sdk_go/pkg/crud/mock"
)

const (
	envMode     = "CRUD_RUNTIME_MODE"
	envAPIKey   = "CRUD_API_KEY"
	envAPIURL   = "CRUD_API_URL"
	envMockSeed = "CRUD_MOCK_SEED"
	envLogLevel = "CRUD_LOG_LEVEL"

	ModeAuto = "auto"
	ModeHTTP = "http"
	ModeMock = "mock"
)

// NewFromEnv initialises a client from CRUD_* environment variables. It
// returns the resolved mode ("http" or "mock"). opts are applied after the
// environment-derived options, so a caller-supplied logger wins.
func NewFromEnv(opts ...crud.Option) (*crud.Client, string, error) {
	cfg := &FileConfig{
		Mode:     strings.ToLower(strings.TrimSpace(os.Getenv(envMode))),
		APIKey:   strings.TrimSpace(os.Getenv(envAPIKey)),
		APIURL:   strings.TrimSpace(os.Getenv(envAPIURL)),
		LogLevel: strings.TrimSpace(os.Getenv(envLogLevel)),
		MockSeed: strings.TrimSpace(os.Getenv(envMockSeed)),
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeAuto
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("crud_sdk: %w", err)
	}
	return newClient(cfg, opts)
}

// NewFromConfig initialises a client from an already loaded config.
func NewFromConfig(cfg *FileConfig, opts ...crud.Option) (*crud.Client, string, error) {
	if cfg == nil {
		return nil, "", fmt.Errorf("crud_sdk: config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("crud_sdk: %w", err)
	}
	return newClient(cfg, opts)
}

// NewFromFile loads the YAML config at path and initialises a client from it.
func NewFromFile(path string, opts ...crud.Option) (*crud.Client, string, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, "", err
	}
	return NewFromConfig(cfg, opts...)
}

func newClient(cfg *FileConfig, opts []crud.Option) (*crud.Client, string, error) {
	var base []crud.Option
	if cfg.LogLevel != "" {
		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return nil, "", fmt.Errorf("crud_sdk: %w", err)
		}
		base = append(base, crud.WithLogger(logger))
	}
	opts = append(base, opts...)

	switch mode := cfg.ResolvedMode(); mode {
	case ModeHTTP:
		if cfg.Timeout > 0 {
			opts = append([]crud.Option{crud.WithTimeout(cfg.Timeout)}, opts...)
		}
		client, err := crud.New(cfg.APIKey, cfg.APIURL, opts...)
		if err != nil {
			return nil, "", fmt.Errorf("crud_sdk: init HTTP client: %w", err)
		}
		return client, ModeHTTP, nil
	default:
		store := mock.New()
		if cfg.MockSeed != "" {
			entries, err := devseed.LoadItemSeed(cfg.MockSeed)
			if err != nil {
				return nil, "", fmt.Errorf("crud_sdk: load mock seed: %w", err)
			}
			if err := store.Seed(entries); err != nil {
				return nil, "", fmt.Errorf("crud_sdk: apply mock seed: %w", err)
			}
		}
		return crud.NewWithBackend(store, opts...), ModeMock, nil
	}
}

func newLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(lvl)
	return logger, nil
}
