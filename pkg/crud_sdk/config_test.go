package crud_sdk_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Ratio1/crud_sdk_go/pkg/crud_sdk"
)

func TestParseConfig(t *testing.T) {
	cfg, err := crud_sdk.ParseConfig([]byte(`
mode: http
api_key: secret
api_url: https://items.example.com
timeout: 5s
log_level: debug
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	want := crud_sdk.FileConfig{
		Mode:     "http",
		APIKey:   "secret",
		APIURL:   "https://items.example.com",
		Timeout:  5 * time.Second,
		LogLevel: "debug",
	}
	if *cfg != want {
		t.Fatalf("unexpected config %#v", cfg)
	}
	if cfg.ResolvedMode() != crud_sdk.ModeHTTP {
		t.Fatalf("unexpected mode %q", cfg.ResolvedMode())
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := crud_sdk.ParseConfig([]byte(`api_key: only-key`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Mode != crud_sdk.ModeAuto || cfg.ResolvedMode() != crud_sdk.ModeMock {
		t.Fatalf("expected auto resolving to mock, got %q/%q", cfg.Mode, cfg.ResolvedMode())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  crud_sdk.FileConfig
		ok   bool
	}{
		{"mock", crud_sdk.FileConfig{Mode: "mock"}, true},
		{"auto without credentials", crud_sdk.FileConfig{Mode: "auto"}, true},
		{"http complete", crud_sdk.FileConfig{Mode: "http", APIKey: "k", APIURL: "http://x"}, true},
		{"http missing url", crud_sdk.FileConfig{Mode: "http", APIKey: "k"}, false},
		{"http missing key", crud_sdk.FileConfig{Mode: "http", APIURL: "http://x"}, false},
		{"unknown mode", crud_sdk.FileConfig{Mode: "grpc"}, false},
		{"negative timeout", crud_sdk.FileConfig{Mode: "mock", Timeout: -time.Second}, false},
		{"bad log level", crud_sdk.FileConfig{Mode: "mock", LogLevel: "loud"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseConfigErrors(t *testing.T) {
	if _, err := crud_sdk.ParseConfig([]byte("mode: [")); err == nil {
		t.Fatalf("expected YAML error")
	}
	if _, err := crud_sdk.ParseConfig([]byte("mode: http")); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := crud_sdk.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected read error")
	}
	if _, _, err := crud_sdk.NewFromConfig(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestNewFromFileResolvesSeedRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	seed := `[{"id":"a","value":1.5,"txHash":"0xa"}]`
	if err := os.WriteFile(filepath.Join(dir, "seed.json"), []byte(seed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	cfgPath := filepath.Join(dir, "crud.yaml")
	if err := os.WriteFile(cfgPath, []byte("mode: mock\nmock_seed: seed.json\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := crud_sdk.LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MockSeed != filepath.Join(dir, "seed.json") {
		t.Fatalf("seed path not resolved: %q", cfg.MockSeed)
	}

	client, mode, err := crud_sdk.NewFromFile(cfgPath)
	if err != nil {
		t.Fatalf("NewFromFile: %v", err)
	}
	if mode != crud_sdk.ModeMock {
		t.Fatalf("unexpected mode %q", mode)
	}
	got, err := client.Get(context.Background(), "a")
	if err != nil || got.Value != 1.5 || got.TxHash != "0xa" {
		t.Fatalf("unexpected item %#v %v", got, err)
	}
}
