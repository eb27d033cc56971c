package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// appName names the system and user configuration directories.
const appName = "prosidy"

// ConfigPaths represents discovered configuration file paths.
type ConfigPaths struct {
	// System is the system-wide config path (e.g., /etc/prosidy/config.yaml).
	System string

	// User is the user-level config path (e.g., ~/.config/prosidy/config.yaml).
	User string

	// Project is the project-level config path (e.g., ./.prosidy.yml).
	Project string

	// Shadowed lists other project config files found next to Project.
	// They are not loaded.
	Shadowed []string

	// Explicit is a config path provided via --config flag.
	Explicit string
}

// projectConfigFiles are the config file names we search for, in order of preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectConfigFiles = []string{
	".prosidy.yml",
	".prosidy.yaml",
	"prosidy.yml",
	"prosidy.yaml",
}

// vcsRootMarkers are directories that indicate a VCS root.
//
//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// DiscoverPaths finds configuration files in standard locations.
// It searches for:
//   - System config at /etc/prosidy/config.{yaml,yml}
//   - User config at $XDG_CONFIG_HOME/prosidy/config.{yaml,yml}
//   - Project config by searching upward from workDir for .prosidy.{yml,yaml}
//
// Missing files are represented as empty strings (not errors).
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	paths := &ConfigPaths{
		System: findSystemConfig(),
		User:   findUserConfig(),
	}

	project, shadowed, err := findProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	paths.Project = project
	paths.Shadowed = shadowed

	return paths, nil
}

// findSystemConfig returns the path to the system-wide config file, if it exists.
func findSystemConfig() string {
	if runtime.GOOS == "windows" {
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		return findConfigInDir(filepath.Join(programData, appName))
	}

	return findConfigInDir(filepath.Join("/etc", appName))
}

// findUserConfig returns the path to the user-level config file, if it exists.
func findUserConfig() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}

	return findConfigInDir(filepath.Join(configHome, appName))
}

// findConfigInDir looks for config files in the given directory.
// Returns the path to the first found file, or empty string if none.
func findConfigInDir(dir string) string {
	for _, name := range []string{"config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// FindProjectConfig searches upward from startDir for a project config file.
// Returns the path to the first config file found, or empty string if none.
// Stops at VCS roots, the home directory, or the filesystem root.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	path, _, err := findProjectConfig(ctx, startDir)
	return path, err
}

func findProjectConfig(ctx context.Context, startDir string) (string, []string, error) {
	if startDir == "" {
		var err error
		startDir, err = os.Getwd()
		if err != nil {
			return "", nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", nil, fmt.Errorf("resolve absolute path: %w", err)
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		homeDir = ""
	}

	currentDir := absDir
	for {
		if err := ctx.Err(); err != nil {
			return "", nil, fmt.Errorf("context cancelled: %w", err)
		}

		var found []string
		for _, name := range projectConfigFiles {
			path := filepath.Join(currentDir, name)
			if fileExists(path) {
				found = append(found, path)
			}
		}
		if len(found) > 0 {
			return found[0], found[1:], nil
		}

		if isVCSRoot(currentDir) {
			return "", nil, nil
		}

		if homeDir != "" && currentDir == homeDir {
			return "", nil, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", nil, nil
		}
		currentDir = parentDir
	}
}

// isVCSRoot returns true if the directory contains a VCS root marker.
func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		info, err := os.Stat(filepath.Join(dir, marker))
		if err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
