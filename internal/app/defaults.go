package app

import (
	"fmt"
	"os"
	"path/filepath"

	"fwm-go/internal/config"
)

// Environment variables read by GetDefaults and NewFWMApp.
const (
	EnvConfigPath = "FWM_CONFIG_PATH"
	EnvHome       = "FWM_HOME"
	EnvPassphrase = "FWM_PASSPHRASE"
)

// Defaults locates fwm's config file and data home. The data home holds the
// log directory, the on-disk store, the source CSVs and the age keys.
type Defaults struct {
	ConfigPath string
	BaseDir    string
}

// NewConfig returns the config `fwm config init` writes: everything under BaseDir.
func (d Defaults) NewConfig() *config.Config {
	return config.NewConfig(d.BaseDir)
}

// GetDefaults resolves FWM_CONFIG_PATH (else ~/.config/fwm.toml) and
// FWM_HOME (else ~/.local/share/fwm).
func GetDefaults() (Defaults, error) {
	configPath, err := fromEnvOrHome(EnvConfigPath, ".config", "fwm.toml")
	if err != nil {
		return Defaults{}, err
	}
	baseDir, err := fromEnvOrHome(EnvHome, ".local", "share", "fwm")
	if err != nil {
		return Defaults{}, err
	}
	return Defaults{ConfigPath: configPath, BaseDir: baseDir}, nil
}

// fromEnvOrHome returns $env when set, otherwise the home directory joined with elem.
func fromEnvOrHome(env string, elem ...string) (string, error) {
	if path := os.Getenv(env); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory for %s: %w", env, err)
	}
	return filepath.Join(append([]string{homeDir}, elem...)...), nil
}
