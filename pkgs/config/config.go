// Package config loads the optional .lumenrc.yaml a CLI invocation picks up
// from its working directory or the user's home directory: per-project
// defaults for flags cmd/lumen otherwise takes on the command line
// (spec.md §6's ambient CLI surface). CLI flags always override whatever
// a config file supplies.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file cmd/lumen looks for, first in the working
// directory and then in the user's home directory.
const FileName = ".lumenrc.yaml"

// Config holds the subset of CLI behavior a project can pin in
// .lumenrc.yaml rather than repeating on every invocation.
type Config struct {
	// NoColor disables ANSI diagnostic coloring, same as the --no-color flag.
	NoColor bool `yaml:"no_color"`
	// MaxSteps caps the number of eval steps before a runaway program
	// faults, same as the --max-steps flag. Zero means no cap was set.
	MaxSteps int `yaml:"max_steps"`
	// Watch re-runs on every save to the source file, same as --watch.
	Watch bool `yaml:"watch"`
}

// Load searches cwd, then $HOME, for FileName, and returns the first one
// found. A zero Config (every field at its flag default) is returned if
// neither directory has one. A config file that exists but is malformed
// is an error the caller should surface, not silently ignore.
func Load(cwd string) (Config, error) {
	dirs := []string{cwd}
	if home, err := os.UserHomeDir(); err == nil && home != "" && home != cwd {
		dirs = append(dirs, home)
	}

	for _, dir := range dirs {
		data, err := os.ReadFile(filepath.Join(dir, FileName))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return Config{}, err
		}

		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}

	return Config{}, nil
}
