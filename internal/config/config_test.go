package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("HEJVI_API_URL", "https://example.test/api")
	t.Setenv("HEJVI_API_TOKEN", "tok")
	t.Setenv("HEJVI_TIMEOUT", "3s")
	t.Setenv("HEJVI_GENERIC_SUCCESS_IDS", "1, 2,3")
	t.Setenv("HEJVI_LOG_LEVEL", "debug")

	cfg := FromEnv()
	if cfg.API.BaseURL != "https://example.test/api" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Token != "tok" {
		t.Errorf("Token = %q", cfg.API.Token)
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v", cfg.API.Timeout)
	}
	if len(cfg.Generic.SuccessIDs) != 3 || cfg.Generic.SuccessIDs[2] != 3 {
		t.Errorf("SuccessIDs = %v", cfg.Generic.SuccessIDs)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://x" }, true},
		{"missing host", func(c *Config) { c.API.BaseURL = "https://" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"empty pool", func(c *Config) { c.Generic.FailureIDs = nil }, true},
		{"prefix normalised", func(c *Config) { c.API.MediaPrefix = "api/media/" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && cfg.API.MediaPrefix != "/api/media" {
				t.Errorf("MediaPrefix = %q, want /api/media", cfg.API.MediaPrefix)
			}
		})
	}
}

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList("10,,20")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != 10 || ids[1] != 20 {
		t.Errorf("ids = %v", ids)
	}
	if _, err := ParseIDList("1,x"); err == nil {
		t.Error("expected error for non-numeric id")
	}
}

func TestDefaultDBPathFromEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "hejvi.db")
	t.Setenv("HEJVI_DB", p)
	got, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if got != p {
		t.Errorf("DefaultDBPath = %q, want %q", got, p)
	}
}
