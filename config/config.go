// Package config — .locgen.yaml configuration file support.
//
// The file lives in the project root and declares where locale resource
// files are read from and where the generated artifact goes. Every field
// can be overridden through LOCGEN_* environment variables, and a .env
// file next to the config is honored when present.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file name looked up in the project root.
const FileName = ".locgen.yaml"

// Config holds the generation settings for one project.
type Config struct {
	// LocalesDir is the directory with per-locale resource files,
	// relative to the project root.
	LocalesDir string `yaml:"locales_dir" env:"LOCGEN_LOCALES_DIR"`
	// Baseline is the reference locale (a bare language code).
	Baseline string `yaml:"baseline" env:"LOCGEN_BASELINE"`
	// Output is the generated file path relative to the project root,
	// or "-" for standard output.
	Output string `yaml:"output" env:"LOCGEN_OUTPUT"`
	// Package is the package clause of the generated Go file.
	Package string `yaml:"package" env:"LOCGEN_PACKAGE"`
	// Format selects the artifact: "go" or "json".
	Format string `yaml:"format" env:"LOCGEN_FORMAT"`
}

// Default returns the configuration used when no .locgen.yaml exists.
func Default() *Config {
	return &Config{
		LocalesDir: "locales",
		Baseline:   "en",
		Output:     "locales_gen.go",
		Package:    "locales",
		Format:     "go",
	}
}

// Load reads the configuration for a project root: defaults, then
// .locgen.yaml when present, then environment overrides. A .env file in
// the root is loaded first so it can feed the LOCGEN_* variables.
func Load(root string) (*Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load(filepath.Join(root, ".env"))

	cfg := Default()

	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults apply.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values that would otherwise fail deep inside the
// pipeline.
func (c *Config) Validate() error {
	if c.LocalesDir == "" {
		return fmt.Errorf("locales_dir must not be empty")
	}
	if c.Baseline == "" {
		return fmt.Errorf("baseline must not be empty")
	}
	if c.Output == "" {
		return fmt.Errorf("output must not be empty")
	}
	switch c.Format {
	case "go", "json":
	default:
		return fmt.Errorf("format must be %q or %q, got %q", "go", "json", c.Format)
	}
	return nil
}

// Write stores the configuration as .locgen.yaml in the project root.
// Used by the init command; refuses to overwrite an existing file.
func (c *Config) Write(root string) error {
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
