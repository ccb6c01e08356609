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

package config

import (
	"github.com/sirseerhq/gsv/internal/github"
)

// DefaultURL is the API root used when the configuration names none.
const DefaultURL = github.DefaultBaseURL

// Config is the record stored in ~/.gsvrc. The url, token, username and
// defaults.orgs keys are what setup writes; logging is optional and only
// ever hand-edited.
type Config struct {
	URL      string         `mapstructure:"url"`
	Token    string         `mapstructure:"token"`
	Username string         `mapstructure:"username"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Logging  LoggingConfig  `mapstructure:"logging"`

	// Path is the file the configuration was read from. Empty when no
	// file existed and only defaults and the environment were applied.
	Path string `mapstructure:"-"`
}

// DefaultsConfig holds settings applied to every search.
type DefaultsConfig struct {
	// Orgs scopes every search to these organizations.
	Orgs []string `mapstructure:"orgs"`
}

// LoggingConfig controls diagnostic output on stderr.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns a Config pointing at public GitHub with no token.
func DefaultConfig() *Config {
	return &Config{
		URL:      DefaultURL,
		Defaults: DefaultsConfig{Orgs: []string{}},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// ClientConfig converts the record into the immutable client configuration.
// A missing organization list becomes an empty one.
func (c *Config) ClientConfig() github.ClientConfig {
	orgs := make([]string, len(c.Defaults.Orgs))
	copy(orgs, c.Defaults.Orgs)

	return github.ClientConfig{
		BaseURL:              c.URL,
		Token:                c.Token,
		Username:             c.Username,
		DefaultOrganizations: orgs,
	}
}

// HasToken reports whether a token is configured.
func (c *Config) HasToken() bool {
	return c.Token != ""
}
