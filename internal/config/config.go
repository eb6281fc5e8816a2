package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the e-stop binaries.
type Config struct {
	// BrokerAddress is the URL of the message bus carrying commands and
	// safety events (e.g. nats://broker.gva-local:4222).
	BrokerAddress string `yaml:"broker_address" validate:"required,url"`
	// UnitID identifies the vehicle (e.g. GVA-07).
	UnitID string `yaml:"unit_id"        validate:"required"`
	// Sector is the operating sector of the vehicle (e.g. ALMACEN-3).
	Sector string `yaml:"sector"         validate:"required"`
	// DiagAddress is the listen address of the diagnostics HTTP server.
	DiagAddress string `yaml:"diag_address"`
	// Timeout is the duration for bus requests issued by the CLIs.
	Timeout time.Duration `yaml:"timeout"`
	// RelayDelay is the travel time of the simulated power relay.
	RelayDelay time.Duration `yaml:"relay_delay"`
	// LogLevel is the minimum log level (debug, info, warn, error, fatal).
	LogLevel string `yaml:"log_level"`
	// LogFile duplicates agent logs to a rotating file when set.
	LogFile string `yaml:"log_file"`
}

const (
	// DefaultConfigFilename is the default filename for shared settings.
	DefaultConfigFilename = "estop-settings.yaml"

	// DefaultDiagAddress is the default diagnostics listen address.
	DefaultDiagAddress = ":9804"

	// DefaultTimeout is the default duration for bus requests.
	DefaultTimeout = 5 * time.Second

	// DefaultRelayDelay is the default relay travel time.
	DefaultRelayDelay = 350 * time.Millisecond

	// DefaultFilePermissions is the file permission for written settings.
	DefaultFilePermissions = 0o600
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Load reads configuration from the provided path, applies defaults and
// validates required fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks the settings against their struct tags.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.DiagAddress == "" {
		cfg.DiagAddress = DefaultDiagAddress
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.RelayDelay <= 0 {
		cfg.RelayDelay = DefaultRelayDelay
	}

	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}

	return nil
}
