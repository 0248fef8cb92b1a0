// Package config implements the YAML config file parser for the
// canistertools CLI.
package config

import (
	"os"

	"github.com/PowerDNS/simpleblob"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/icforge/canistertools/config/logger"
)

// Config is the config root object
type Config struct {
	// DataDir is the directory holding the region-<id>.mem files of a
	// canister's persistent memory.
	DataDir string        `yaml:"data_dir"`
	Archive Archive       `yaml:"archive"`
	Log     logger.Config `yaml:"log"`

	// Set to current version by main
	Version string `yaml:"-"`
}

// Archive configures the blob storage backend used by the archive commands.
type Archive struct {
	Type    string               `yaml:"type"` // simpleblob backend type, e.g. "fs" or "memory"
	Options simpleblob.OptionMap `yaml:"options"`
}

// Check validates a Config instance
func (c Config) Check() error {
	if err := c.Log.Check(); err != nil {
		return err
	}
	if c.DataDir == "" {
		return errors.New("no data_dir configured")
	}
	return nil
}

// String returns the config as a YAML string.
func (c Config) String() string {
	y, err := yaml.Marshal(c)
	if err != nil {
		logrus.Panicf("YAML marshal of config failed: %v", err) // Should never happen
	}
	return string(y)
}

// LoadYAML loads config from YAML. Any set value overwrites any existing
// value, but omitted keys are untouched.
func (c *Config) LoadYAML(yamlContents []byte, expandEnv bool) error {
	if expandEnv {
		yamlContents = []byte(os.ExpandEnv(string(yamlContents)))
	}
	return yaml.UnmarshalStrict(yamlContents, c)
}

// LoadYAMLFile loads config from a YAML file. Any set value overwrites any
// existing value, but omitted keys are untouched.
func (c *Config) LoadYAMLFile(fpath string, expandEnv bool) error {
	contents, err := os.ReadFile(fpath)
	if err != nil {
		return errors.Wrap(err, "open yaml file")
	}
	return c.LoadYAML(contents, expandEnv)
}

// Default returns a Config with default settings
func Default() Config {
	return Config{
		DataDir: ".",
		Log:     logger.DefaultConfig,
	}
}
