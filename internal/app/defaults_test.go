package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "/custom/fwm.toml")
		t.Setenv(EnvHome, "/custom/fwm")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults.ConfigPath != "/custom/fwm.toml" {
			t.Errorf("ConfigPath = %q, want %q", defaults.ConfigPath, "/custom/fwm.toml")
		}
		if defaults.BaseDir != "/custom/fwm" {
			t.Errorf("BaseDir = %q, want %q", defaults.BaseDir, "/custom/fwm")
		}

		cfg := defaults.NewConfig()
		if cfg.LogDir != "/custom/fwm/log" || cfg.Source.Dir != "/custom/fwm/data" {
			t.Errorf("NewConfig() dirs = %q, %q; want under /custom/fwm", cfg.LogDir, cfg.Source.Dir)
		}
		if cfg.Database.Type != "memory" {
			t.Errorf("NewConfig() database type = %q, want memory", cfg.Database.Type)
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		t.Setenv(EnvHome, "")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()

		wantConfig := filepath.Join(homeDir, ".config", "fwm.toml")
		if defaults.ConfigPath != wantConfig {
			t.Errorf("ConfigPath = %q, want %q", defaults.ConfigPath, wantConfig)
		}

		wantBase := filepath.Join(homeDir, ".local", "share", "fwm")
		if defaults.BaseDir != wantBase {
			t.Errorf("BaseDir = %q, want %q", defaults.BaseDir, wantBase)
		}
	})
}
