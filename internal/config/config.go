// Package config loads the user's configuration and access token. The core
// consumes these as already-resolved values; nothing here is part of the
// action-chain contract.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTaskPrintFmt is the `-print` format used when neither the config
// file nor the action arguments override it.
const DefaultTaskPrintFmt = "{project_name:15.15} {due_date_safe_dt:16} {priority_str} {checked_str} {content:.79} {labels_str}"

const (
	DefaultTaskSortKeys  = "project_name,priority_str,content"
	DefaultTaskSortOrder = "ascending"
	DefaultAPIURL        = "https://api.todoist.com/sync/v9"
)

// Config is the resolved user configuration.
type Config struct {
	Token                string `yaml:"token"`
	APIURL               string `yaml:"api_url"`
	CacheDir             string `yaml:"cache_dir"`
	DefaultTaskPrintFmt  string `yaml:"default_task_print_fmt"`
	DefaultTaskSortKeys  string `yaml:"default_task_sort_keys"`
	DefaultTaskSortOrder string `yaml:"default_task_sort_order"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir()
	}
	if c.DefaultTaskPrintFmt == "" {
		c.DefaultTaskPrintFmt = DefaultTaskPrintFmt
	}
	if c.DefaultTaskSortKeys == "" {
		c.DefaultTaskSortKeys = DefaultTaskSortKeys
	}
	if c.DefaultTaskSortOrder == "" {
		c.DefaultTaskSortOrder = DefaultTaskSortOrder
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "todoist-action-cli")
	}
	return ".todoist-action-cli-cache"
}

func configPath() string {
	if env := os.Getenv("TODOIST_CONFIG"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".todoist_config.yaml")
}

func tokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".todoist_token.txt")
}

// Load reads the YAML config file, falling back to defaults when the file
// does not exist. The token is resolved separately via ResolveToken.
func Load() (*Config, error) {
	return loadFrom(configPath())
}

func loadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, err
			}
		case errors.Is(err, os.ErrNotExist):
			// Defaults only.
		default:
			return nil, err
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

// ResolveToken returns the access token: the config file's `token` key, then
// the standalone token file, then the TODOIST_API_TOKEN environment
// variable. An empty result means the user has not set one up.
func (c *Config) ResolveToken() string {
	if c.Token != "" {
		return c.Token
	}
	if path := tokenPath(); path != "" {
		if b, err := os.ReadFile(path); err == nil {
			if token := strings.TrimSpace(string(b)); token != "" {
				return token
			}
		}
	}
	return os.Getenv("TODOIST_API_TOKEN")
}
