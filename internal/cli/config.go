package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dagscii/pkg/pipeline"
)

// configFileName is the config file looked up under the config directory.
const configFileName = "config.toml"

// Config holds user preferences loaded from ~/.config/dagscii/config.toml.
// Every field is optional; unset fields fall back to pipeline defaults.
//
// Example:
//
//	spacing = "fixed"
//	spaces = 6
//	group_labels_by_prefix = true
//
//	[server]
//	addr = ":9090"
//	redis = "localhost:6379"
type Config struct {
	Spacing     string `toml:"spacing"`
	Spaces      int    `toml:"spaces"`
	GroupPrefix *bool  `toml:"group_labels_by_prefix"`
	GroupSuffix *bool  `toml:"group_labels_by_suffix"`

	Server ServerConfig `toml:"server"`
}

// ServerConfig holds defaults for the serve command.
type ServerConfig struct {
	Addr            string `toml:"addr"`
	Redis           string `toml:"redis"`
	RedisPassword   string `toml:"redis_password"`
	RedisDB         int    `toml:"redis_db"`
	Mongo           string `toml:"mongo"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// DefaultConfig returns a config with built-in defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Spacing: pipeline.SpacingCompact,
		Spaces:  pipeline.DefaultSpaces,
		Server: ServerConfig{
			Addr:            ":8080",
			MongoDatabase:   appName,
			MongoCollection: "renders",
		},
	}
}

// LoadConfig reads a TOML config file and merges it over the defaults.
// A missing file is not an error; a malformed file is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefaultConfig loads the config from the standard location, falling
// back to the defaults when the file is missing or unreadable. Malformed
// files are reported on stderr rather than aborting the CLI; the user can
// still override everything with flags.
func LoadDefaultConfig() *Config {
	dir, err := configDir()
	if err != nil {
		return DefaultConfig()
	}
	cfg, err := LoadConfig(filepath.Join(dir, configFileName))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return DefaultConfig()
	}
	return cfg
}

func (c *Config) validate() error {
	if c.Spacing != "" {
		if err := pipeline.ValidateSpacing(c.Spacing); err != nil {
			return err
		}
	}
	if c.Spaces < 0 {
		return fmt.Errorf("spaces must be positive, got %d", c.Spaces)
	}
	return nil
}
