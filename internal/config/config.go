// Package config loads and validates the YAML configuration: which roots
// to scan, which categories are enabled, and scan tuning.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/devtrim/devtrim/internal/scanner"
	"github.com/devtrim/devtrim/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	// Roots are the absolute directories scanning starts from.
	Roots []string `yaml:"roots"`
	// Categories toggles each artifact category.
	Categories Categories `yaml:"categories"`
	// MaxDepth overrides the walker's depth bound when positive.
	MaxDepth int `yaml:"max_depth"`
	// IgnoreNames adds directory names the walk skips entirely.
	IgnoreNames []string `yaml:"ignore_names"`
	// DryRun makes every cleanup a simulation unless overridden by flag.
	DryRun bool `yaml:"dry_run"`
	// MinSize hides findings smaller than this human-readable size
	// ("500MB") from reports and selection.
	MinSize string `yaml:"min_size,omitempty"`
	// TrashDir overrides the platform trash location (mainly for tests).
	TrashDir string `yaml:"trash_dir,omitempty"`
}

// Categories mirrors the registry's category set as config toggles.
type Categories struct {
	DepCache bool `yaml:"dep_cache"`
	Venv     bool `yaml:"venv"`
	Target   bool `yaml:"target"`
	CMake    bool `yaml:"cmake"`
	Gradle   bool `yaml:"gradle"`
	Dart     bool `yaml:"dart"`
	Versions bool `yaml:"versions"`
	ToolData bool `yaml:"tool_data"`
}

// Enabled converts the toggles into the orchestrator's enabled set.
func (c Categories) Enabled() map[scanner.Category]bool {
	return map[scanner.Category]bool{
		scanner.CategoryDepCache: c.DepCache,
		scanner.CategoryVenv:     c.Venv,
		scanner.CategoryTarget:   c.Target,
		scanner.CategoryCMake:    c.CMake,
		scanner.CategoryGradle:   c.Gradle,
		scanner.CategoryDart:     c.Dart,
		scanner.CategoryVersions: c.Versions,
		scanner.CategoryToolData: c.ToolData,
	}
}

// GetDefault returns the default configuration: scan everything under the
// user's home with every category enabled.
func GetDefault(home string) *Config {
	return &Config{
		Roots: []string{home},
		Categories: Categories{
			DepCache: true,
			Venv:     true,
			Target:   true,
			CMake:    true,
			Gradle:   true,
			Dart:     true,
			Versions: true,
			ToolData: true,
		},
	}
}

// Load reads a config file, falling back to defaults when it is absent.
func Load(configPath, home string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(home), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefault(home)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Save writes the config, creating the directory if needed.
func Save(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects configurations the core must never see.
func (c *Config) Validate() error {
	if len(c.Roots) == 0 {
		return fmt.Errorf("at least one scan root is required")
	}
	for _, root := range c.Roots {
		if !filepath.IsAbs(root) {
			return fmt.Errorf("scan root must be absolute: %s", root)
		}
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be >= 0")
	}
	if c.MinSize != "" {
		if _, err := utils.ParseSize(c.MinSize); err != nil {
			return fmt.Errorf("invalid min_size: %w", err)
		}
	}
	return nil
}

// MinSizeBytes returns the parsed min_size threshold, 0 when unset.
// Validate has already rejected unparseable values.
func (c *Config) MinSizeBytes() int64 {
	if c.MinSize == "" {
		return 0
	}
	n, err := utils.ParseSize(c.MinSize)
	if err != nil {
		return 0
	}
	return n
}

// FilterRoots drops roots that do not exist or are not directories, so
// invalid roots never reach the orchestrator. The dropped roots are
// returned for warning display.
func FilterRoots(roots []string) (valid, dropped []string) {
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			dropped = append(dropped, root)
			continue
		}
		valid = append(valid, root)
	}
	return valid, dropped
}

// DefaultPath returns the config file location under the config dir.
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, "config.yaml")
}
