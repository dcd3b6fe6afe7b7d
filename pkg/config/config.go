// Package config loads fdedupe_options.yaml and merges it with CLI flag
// values, following the precedence rules in spec.md §6: CLI values
// override config values, and for include/exclude a non-empty CLI list
// completely replaces the config list rather than merging with it.
package config

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// FileName is the configuration file name, searched for first in the
// current directory and then alongside the executable.
const FileName = "fdedupe_options.yaml"

// File is the set of recognized configuration keys, all optional.
type File struct {
	DB             *string  `yaml:"db"`
	Recursive      *bool    `yaml:"recursive"`
	Rescan         *bool    `yaml:"rescan"`
	FollowSymlinks *bool    `yaml:"follow_symlinks"`
	Hidden         *bool    `yaml:"hidden"`
	Include        []string `yaml:"include"`
	Exclude        []string `yaml:"exclude"`
}

// loadAndUnmarshalYAML reads path and strictly decodes it into value,
// mirroring the teacher's LoadAndUnmarshalYAML helper.
func loadAndUnmarshalYAML(path string, value interface{}) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, value)
}

// Load searches the current directory and then the directory containing
// the running executable for FileName, returning a zero-value File (all
// fields unset) if no config file is found anywhere.
func Load() (*File, error) {
	candidates := []string{FileName}

	if executable, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(executable), FileName))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		var file File
		if err := loadAndUnmarshalYAML(candidate, &file); err != nil {
			return nil, errors.Wrapf(err, "unable to load configuration file %s", candidate)
		}
		return &file, nil
	}

	return &File{}, nil
}

// BoolOr applies CLI-overrides-config precedence for a single boolean
// flag. configValue is nil when the key was absent from the config file.
func BoolOr(cliSet bool, cliValue bool, configValue *bool, fallback bool) bool {
	if cliSet {
		return cliValue
	}
	if configValue != nil {
		return *configValue
	}
	return fallback
}

// StringSliceOr implements the include/exclude precedence rule: a
// non-empty CLI list completely replaces the config list.
func StringSliceOr(cliValue []string, configValue []string) []string {
	if len(cliValue) > 0 {
		return cliValue
	}
	return configValue
}
