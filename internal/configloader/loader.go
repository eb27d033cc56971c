// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support, and validation.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/prosidy/pkg/config"
	"github.com/yaklabco/prosidy/pkg/fsutil"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// Environ overrides os.Environ for environment lookups. Used by tests.
	Environ []string

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (PROSIDY_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.prosidy.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/prosidy/config.yaml)
//  6. System config (/etc/prosidy/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	if len(paths.Shadowed) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("multiple project configs found; using %s and ignoring %v", paths.Project, paths.Shadowed))
	}

	cfg := config.NewConfig()

	layers := []struct {
		name    string
		path    string
		ignored bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	}

	for _, layer := range layers {
		if layer.ignored || layer.path == "" {
			continue
		}

		fileCfg, err := loadConfigFile(ctx, layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}

		// Cross-field checks wait for the merged result; a layer may set
		// only half of a pair.
		if validation := validateFile(fileCfg, layer.path); !validation.Valid() {
			return nil, &validation.Errors[0]
		}

		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		environ := opts.Environ
		if environ == nil {
			environ = os.Environ()
		}
		if err := LoadFromEnv(cfg, environ); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Message)
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile loads a configuration from a YAML file.
func loadConfigFile(ctx context.Context, path string) (*config.Config, error) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, &ValidationError{FilePath: path, Message: err.Error()}
	}
	return cfg, nil
}
