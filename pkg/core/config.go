// pkg/core/config.go
package core

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds pkgrecipe configuration
type Config struct {
	Name       string        `yaml:"name"`
	Version    string        `yaml:"version"`
	ArchiveURL string        `yaml:"archive_url"`
	GitURL     string        `yaml:"git_url"`
	WorkDir    string        `yaml:"work_dir"`
	PackageDir string        `yaml:"package_dir"`
	Timeout    time.Duration `yaml:"timeout"`
	Jobs       int           `yaml:"jobs"`
	UseSudo    bool          `yaml:"use_sudo"`
	Debug      bool          `yaml:"debug"`

	// Logger for custom logging
	Logger *log.Logger `yaml:"-"`
}

const (
	// DefaultName is the packaged library
	DefaultName = "portaudio"

	// DefaultVersion is the upstream release the recipe targets
	DefaultVersion = "v190600.20161030"
)

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	workDir := getDefaultWorkDir()
	return &Config{
		Name:       DefaultName,
		Version:    DefaultVersion,
		WorkDir:    workDir,
		PackageDir: filepath.Join(workDir, "package"),
		Timeout:    2 * time.Minute,
		UseSudo:    os.Geteuid() != 0,
		Debug:      false,
	}
}

// ConfigPath returns path, or the per-user default when path is empty
func ConfigPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pkgrecipe", "config.yaml"), nil
}

// LoadConfig loads configuration from file, layered over DefaultConfig
func LoadConfig(path string) (*Config, error) {
	path, err := ConfigPath(path)
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	cfg.PackageDir = ""
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// package_dir follows work_dir unless set explicitly
	if cfg.PackageDir == "" {
		cfg.PackageDir = filepath.Join(cfg.WorkDir, "package")
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	path, err := ConfigPath(path)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// NewLogger returns cfg.Logger, or a logger honoring cfg.Debug
func (c *Config) NewLogger(prefix string) *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	if c.Debug {
		return log.New(os.Stdout, prefix, log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

func getDefaultWorkDir() string {
	if path := os.Getenv("PKGRECIPE_WORK_DIR"); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "pkgrecipe")
	}

	return filepath.Join(home, ".cache", "pkgrecipe")
}
