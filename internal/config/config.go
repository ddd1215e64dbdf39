package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for fwm.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Database   DatabaseConfig   `toml:"database"`
	Source     SourceConfig     `toml:"source"`
	Encryption EncryptionConfig `toml:"encryption"`
	Server     ServerConfig     `toml:"server"`
	Reports    ReportsConfig    `toml:"reports"`
}

// DatabaseConfig selects the relational store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite; replaced by every load
}

// SourceConfig says where the four CSV tables are read from.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type SourceConfig struct {
	Type string `toml:"type"` // "filesystem", "s3" or "memory"

	// Encrypted sources hold <file>.age objects decrypted with the configured key.
	Encrypted bool `toml:"encrypted"`

	// Filesystem-specific fields (only used when Type == "filesystem")
	Dir string `toml:"dir,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket    string `toml:"s3_bucket,omitempty"`
	S3Prefix    string `toml:"s3_prefix,omitempty"`
	S3Region    string `toml:"s3_region,omitempty"`
	S3Endpoint  string `toml:"s3_endpoint,omitempty"`
	S3PathStyle bool   `toml:"s3_path_style,omitempty"`

	Files SourceFiles `toml:"files"`
}

// SourceFiles maps each table to its object or file name.
type SourceFiles struct {
	Providers string `toml:"providers"`
	Receivers string `toml:"receivers"`
	Listings  string `toml:"food_listings"`
	Claims    string `toml:"claims"`
}

// DefaultSourceFiles are the file names of the published dataset.
var DefaultSourceFiles = SourceFiles{
	Providers: "providers_data.csv",
	Receivers: "receivers_data.csv",
	Listings:  "food_listings_data.csv",
	Claims:    "claims_data.csv",
}

// ForTable returns the configured file name for a table, or "" for an unknown table.
func (f SourceFiles) ForTable(table string) string {
	switch table {
	case "providers":
		return f.Providers
	case "receivers":
		return f.Receivers
	case "food_listings":
		return f.Listings
	case "claims":
		return f.Claims
	}
	return ""
}

// EncryptionConfig holds paths to the age key pair used for source files.
type EncryptionConfig struct {
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	Debug          bool     `toml:"debug"`
	AllowedOrigins []string `toml:"allowed_origins"`
	ReadTimeout    string   `toml:"read_timeout"`  // Go duration, e.g. "15s"
	WriteTimeout   string   `toml:"write_timeout"` // Go duration
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Timeouts parses ReadTimeout and WriteTimeout. Empty values are zero.
func (s ServerConfig) Timeouts() (read, write time.Duration, err error) {
	if s.ReadTimeout != "" {
		if read, err = time.ParseDuration(s.ReadTimeout); err != nil {
			return 0, 0, fmt.Errorf("read_timeout: %w", err)
		}
	}
	if s.WriteTimeout != "" {
		if write, err = time.ParseDuration(s.WriteTimeout); err != nil {
			return 0, 0, fmt.Errorf("write_timeout: %w", err)
		}
	}
	return read, write, nil
}

// ReportsConfig tunes the report catalog.
type ReportsConfig struct {
	ExpiryWindowDays int `toml:"expiry_window_days"`
}

// NewConfig creates a Config rooted at baseDir: an in-memory store, sources
// read from <baseDir>/data and the API on localhost:8080. DataDir is filled in
// so switching the store to sqlite needs only the type.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			Type:    "memory",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Source: SourceConfig{
			Type:  "filesystem",
			Dir:   filepath.Join(baseDir, "data"),
			Files: DefaultSourceFiles,
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  filepath.Join(baseDir, "keys", "fwm.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "fwm.key"),
		},
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:8501"},
			ReadTimeout:    "15s",
			WriteTimeout:   "30s",
		},
		Reports: ReportsConfig{ExpiryWindowDays: 7},
	}
}

// Validate checks the tagged unions and numeric ranges.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Type {
	case "memory":
	case "sqlite":
		if c.Database.DataDir == "" {
			errs = append(errs, errors.New("database: data_dir required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("database: unknown type %q", c.Database.Type))
	}

	switch c.Source.Type {
	case "memory":
	case "filesystem":
		if c.Source.Dir == "" {
			errs = append(errs, errors.New("source: dir required for filesystem"))
		}
	case "s3":
		if c.Source.S3Bucket == "" {
			errs = append(errs, errors.New("source: s3_bucket required for s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("source: unknown type %q", c.Source.Type))
	}
	if c.Source.Type != "memory" {
		for _, table := range []string{"providers", "receivers", "food_listings", "claims"} {
			if c.Source.Files.ForTable(table) == "" {
				errs = append(errs, fmt.Errorf("source.files: %s is empty", table))
			}
		}
	}
	if c.Source.Encrypted && c.Encryption.PrivateKeyPath == "" {
		errs = append(errs, errors.New("encryption: private_key_path required for encrypted sources"))
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server: port %d out of range", c.Server.Port))
	}
	if _, _, err := c.Server.Timeouts(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}

	if c.Reports.ExpiryWindowDays < 0 {
		errs = append(errs, fmt.Errorf("reports: expiry_window_days must not be negative, got %d", c.Reports.ExpiryWindowDays))
	}

	return errors.Join(errs...)
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads and validates a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to path. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
