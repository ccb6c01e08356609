// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads and persists the gsv configuration record.
//
// The record lives in ~/.gsvrc in TOML format and is normally written by
// `gsv setup`. Values are resolved in this order, highest first:
//  1. Environment variables (GSV_URL, GSV_TOKEN, GSV_USERNAME,
//     GSV_DEFAULTS_ORGS, GSV_LOGGING_LEVEL, GSV_LOGGING_FORMAT)
//  2. The configuration file
//  3. Built-in defaults
//
// GITHUB_TOKEN is used when no token is configured anywhere else.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// FileName is the configuration file name inside the home directory.
	FileName = ".gsvrc"

	configType = "toml"
	envPrefix  = "GSV"
)

// DefaultPath returns ~/.gsvrc.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Load reads the configuration. With an empty path it reads ~/.gsvrc and
// falls back to defaults when that file does not exist. An explicit path
// must exist.
func Load(path string) (*Config, error) {
	return load(path, path != "")
}

// LoadOptional is Load without the requirement that an explicit path
// exists. Setup uses it to create a configuration from scratch.
func LoadOptional(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, mustExist bool) (*Config, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	path = expandPath(path)

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	found := true
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || mustExist {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		found = false
	}

	if found {
		v.SetConfigFile(path)
		v.SetConfigType(configType)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", path, err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if found {
		cfg.Path = path
	}

	if cfg.Token == "" {
		cfg.Token = os.Getenv("GITHUB_TOKEN")
	}
	if cfg.Defaults.Orgs == nil {
		cfg.Defaults.Orgs = []string{}
	}

	return cfg, nil
}

// setDefaults registers every key so environment overrides apply even
// when the file does not mention them.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("url", d.URL)
	v.SetDefault("token", "")
	v.SetDefault("username", "")
	v.SetDefault("defaults.orgs", d.Defaults.Orgs)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Save writes the url, token, username and defaults.orgs keys to path in
// TOML, readable only by the owner. The file is replaced atomically.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return err
		}
	}
	path = expandPath(path)

	orgs := cfg.Defaults.Orgs
	if orgs == nil {
		orgs = []string{}
	}

	v := viper.New()
	v.SetConfigPermissions(0o600)
	v.Set("url", cfg.URL)
	v.Set("token", cfg.Token)
	v.Set("username", cfg.Username)
	v.Set("defaults.orgs", orgs)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The temp name carries the extension viper needs to pick the encoder.
	tempFile := path + ".tmp." + configType
	if err := v.WriteConfigAs(tempFile); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Chmod(tempFile, 0o600); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks the loaded values. A missing token is not an error here;
// commands that talk to GitHub report it themselves.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url cannot be empty")
	}
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url must be an absolute http(s) URL, got: %q", c.URL)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}

	return nil
}

// WebURL derives the browser URL of the GitHub instance from the API URL:
// https://api.github.com becomes https://github.com and an Enterprise
// https://ghe.example.com/api/v3 becomes https://ghe.example.com.
func (c *Config) WebURL() string {
	web := strings.TrimRight(c.URL, "/")
	web = strings.Replace(web, "://api.", "://", 1)
	return strings.TrimSuffix(web, "/api/v3")
}

// TokenURL is the page where a token with the scopes gsv needs is created.
func (c *Config) TokenURL() string {
	return c.WebURL() + "/settings/tokens/new?description=gsv+cli+code+search&scopes=read:org,read:user,repo"
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}
