package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// BindCommonFlags registers the overrides shared by every command.
func BindCommonFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file (env CONFIG_FILE)")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
}

// BindServeFlags registers the overrides that only make sense for a running bot.
func BindServeFlags(fs *pflag.FlagSet) {
	fs.String("mode", ModeWebhook, "update delivery mode: webhook or polling")
	fs.String("port", "8080", "HTTP port for the webhook, health and metrics endpoints")
}

// Load layers defaults, an optional YAML file, the environment and the flags
// that were explicitly set, in that order. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {

	cfg := Default()

	path := os.Getenv("CONFIG_FILE")

	if fs != nil && fs.Changed("config") {
		path, _ = fs.GetString("config")
	}

	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.FromEnv(); err != nil {
		return nil, err
	}

	if fs != nil {
		if err := cfg.applyFlags(fs); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) LoadFile(path string) error {

	content, err := os.ReadFile(path)

	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(content, c)

	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyFlags(fs *pflag.FlagSet) error {

	for name, dst := range map[string]*string{
		"mode":      &c.Mode,
		"port":      &c.Port,
		"log-level": &c.Log.Level,
	} {
		if fs.Lookup(name) == nil || !fs.Changed(name) {
			continue
		}

		v, err := fs.GetString(name)

		if err != nil {
			return err
		}

		*dst = v
	}

	return nil
}
