package config

import (
	"fmt"
	"os"
	"path/filepath"

	"quicktransfer/internal/errors"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It covers the file server, the client used by the browser and the
// command line, and the drop folder.
type Config struct {
	Server struct {
		Host      string `yaml:"host" validate:"required"`                // Interface to listen on
		Port      int    `yaml:"port" validate:"min=1,max=65535"`         // Listen port
		Directory string `yaml:"directory" validate:"required"`           // Storage root, files live under <directory>/files
		Password  string `yaml:"password"`                                // Empty disables login
		Debug     bool   `yaml:"debug"`                                   // Verbose request logging
		PIDFile   string `yaml:"pid_file" validate:"required"`            // Written when started in the background
		LogFile   string `yaml:"log_file" validate:"required"`            // Background server output
	} `yaml:"server"`
	Client struct {
		URL         string `yaml:"url" validate:"required,url"` // Base URL of the file server
		Password    string `yaml:"password"`                    // Sent to /login when set
		DownloadDir string `yaml:"download_dir" validate:"required"`
		Player      string `yaml:"player"` // External command for video/audio, empty opens the system handler
	} `yaml:"client"`
	Drop struct {
		Directory string `yaml:"directory"` // Local folder whose new files are uploaded
		Target    string `yaml:"target"`    // Remote directory they are uploaded into
	} `yaml:"drop"`
	Theme struct {
		Name string `yaml:"name" validate:"omitempty,oneof=default dark light"`
	} `yaml:"theme"`
}

// DefaultPath returns ~/.config/quicktransfer/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "quicktransfer", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	cfg.merge(&tempCfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// merge copies every non-zero value of other onto c.
func (c *Config) merge(other *Config) {
	if other.Server.Host != "" {
		c.Server.Host = other.Server.Host
	}
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
	if other.Server.Directory != "" {
		c.Server.Directory = other.Server.Directory
	}
	if other.Server.Password != "" {
		c.Server.Password = other.Server.Password
	}
	c.Server.Debug = other.Server.Debug
	if other.Server.PIDFile != "" {
		c.Server.PIDFile = other.Server.PIDFile
	}
	if other.Server.LogFile != "" {
		c.Server.LogFile = other.Server.LogFile
	}

	if other.Client.URL != "" {
		c.Client.URL = other.Client.URL
	}
	if other.Client.Password != "" {
		c.Client.Password = other.Client.Password
	}
	if other.Client.DownloadDir != "" {
		c.Client.DownloadDir = other.Client.DownloadDir
	}
	if other.Client.Player != "" {
		c.Client.Player = other.Client.Player
	}

	if other.Drop.Directory != "" {
		c.Drop.Directory = other.Drop.Directory
	}
	if other.Drop.Target != "" {
		c.Drop.Target = other.Drop.Target
	}

	if other.Theme.Name != "" {
		c.Theme.Name = other.Theme.Name
	}
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.Directory = filepath.Join(home, ".quicktransfer")
	cfg.Server.PIDFile = filepath.Join(os.TempDir(), "quicktransfer.pid")
	cfg.Server.LogFile = "quicktransfer.log"

	cfg.Client.URL = "http://127.0.0.1:8080"
	cfg.Client.DownloadDir = filepath.Join(home, "Downloads")

	cfg.Theme.Name = "default"

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var validate = validator.New()

// Validate checks if the configuration is valid.
// The first failing field is reported as a ConfigError naming it.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return errors.NewConfigError(
				fmt.Sprintf("failed on '%s' rule", fe.Tag()),
				fe.Namespace(),
				errors.InvalidConfig,
				nil,
			)
		}
		return errors.NewConfigError("invalid configuration", "", errors.InvalidConfig, err)
	}

	if c.Drop.Target != "" && c.Drop.Directory == "" {
		return errors.NewConfigError("drop target set without a drop directory", "drop.target", errors.InvalidConfig, nil)
	}

	return nil
}

// FilesDir is where served files live.
func (c *Config) FilesDir() string {
	return filepath.Join(c.Server.Directory, "files")
}

// DeletedDir is where deleted files are moved to.
func (c *Config) DeletedDir() string {
	return filepath.Join(c.Server.Directory, "deleted")
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// NewTestConfig creates a configuration rooted at dir for tests.
func NewTestConfig(dir string) *Config {
	cfg := defaultConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Directory = dir
	cfg.Server.PIDFile = filepath.Join(dir, "quicktransfer.pid")
	cfg.Server.LogFile = filepath.Join(dir, "quicktransfer.log")
	cfg.Client.DownloadDir = filepath.Join(dir, "downloads")
	return cfg
}
