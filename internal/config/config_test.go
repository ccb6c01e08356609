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
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv clears every variable Load consults and points HOME at a
// temp directory.
func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, key := range []string{
		"GSV_URL", "GSV_TOKEN", "GSV_USERNAME", "GSV_DEFAULTS_ORGS",
		"GSV_LOGGING_LEVEL", "GSV_LOGGING_FORMAT", "GITHUB_TOKEN",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.github.com", cfg.URL)
	assert.Empty(t, cfg.Token)
	assert.NotNil(t, cfg.Defaults.Orgs)
	assert.Empty(t, cfg.Defaults.Orgs)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "gsvrc")
	writeFile(t, path, `
url = "https://ghe.example.com/api/v3"
token = "ghp_abc"
username = "octocat"

[defaults]
orgs = ["acme", "wombat"]

[logging]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.URL)
	assert.Equal(t, "ghp_abc", cfg.Token)
	assert.Equal(t, "octocat", cfg.Username)
	assert.Equal(t, []string{"acme", "wombat"}, cfg.Defaults.Orgs)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format, "unset keys keep their defaults")
	assert.Equal(t, path, cfg.Path)
}

func TestLoad_DefaultPathMissing(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultURL, cfg.URL)
	assert.False(t, cfg.HasToken())
	assert.Empty(t, cfg.Path)
	assert.NotNil(t, cfg.Defaults.Orgs)
}

func TestLoad_DefaultPath(t *testing.T) {
	home := isolateEnv(t)
	writeFile(t, filepath.Join(home, FileName), `token = "from-home"`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-home", cfg.Token)
	assert.Equal(t, filepath.Join(home, FileName), cfg.Path)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	isolateEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadOptional_MissingFile(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GSV_USERNAME", "from-env")

	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "new.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultURL, cfg.URL)
	assert.Equal(t, "from-env", cfg.Username)
	assert.Empty(t, cfg.Path)
}

func TestLoad_InvalidTOML(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "gsvrc")
	writeFile(t, path, `url = [unterminated`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "gsvrc")
	writeFile(t, path, `
url = "https://api.github.com"
token = "file-token"

[defaults]
orgs = ["acme"]
`)

	t.Setenv("GSV_TOKEN", "env-token")
	t.Setenv("GSV_URL", "https://ghe.example.com/api/v3")
	t.Setenv("GSV_DEFAULTS_ORGS", "one,two")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.URL)
	assert.Equal(t, []string{"one", "two"}, cfg.Defaults.Orgs)
}

func TestLoad_GitHubTokenFallback(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GITHUB_TOKEN", "fallback")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "fallback", cfg.Token)

	path := filepath.Join(t.TempDir(), "gsvrc")
	writeFile(t, path, `token = "configured"`)

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "configured", cfg.Token, "GITHUB_TOKEN must not override a configured token")
}

func TestSave_RoundTrip(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", FileName)

	original := &Config{
		URL:      "https://api.github.com",
		Token:    "ghp_secret",
		Username: "octocat",
		Defaults: DefaultsConfig{Orgs: []string{"acme"}},
	}
	require.NoError(t, Save(original, path))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	_, err := os.Stat(path + ".tmp.toml")
	assert.True(t, os.IsNotExist(err), "temp file must be gone")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original.URL, loaded.URL)
	assert.Equal(t, original.Token, loaded.Token)
	assert.Equal(t, original.Username, loaded.Username)
	assert.Equal(t, original.Defaults.Orgs, loaded.Defaults.Orgs)
}

func TestSave_Overwrites(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, `token = "old"`)

	require.NoError(t, Save(&Config{URL: DefaultURL, Token: "new"}, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "new", loaded.Token)
	assert.Empty(t, loaded.Defaults.Orgs)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(c *Config) {}},
		{name: "enterprise url", modify: func(c *Config) { c.URL = "https://ghe.example.com/api/v3" }},
		{name: "empty url", modify: func(c *Config) { c.URL = "" }, wantErr: true},
		{name: "relative url", modify: func(c *Config) { c.URL = "api.github.com" }, wantErr: true},
		{name: "ftp url", modify: func(c *Config) { c.URL = "ftp://api.github.com" }, wantErr: true},
		{name: "bad level", modify: func(c *Config) { c.Logging.Level = "chatty" }, wantErr: true},
		{name: "bad format", modify: func(c *Config) { c.Logging.Format = "xml" }, wantErr: true},
		{name: "json format", modify: func(c *Config) { c.Logging.Format = "json" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWebURL(t *testing.T) {
	tests := []struct {
		api  string
		want string
	}{
		{"https://api.github.com", "https://github.com"},
		{"https://api.github.com/", "https://github.com"},
		{"https://ghe.example.com/api/v3", "https://ghe.example.com"},
		{"http://localhost:8080", "http://localhost:8080"},
	}

	for _, tt := range tests {
		cfg := &Config{URL: tt.api}
		assert.Equal(t, tt.want, cfg.WebURL(), tt.api)
	}

	cfg := &Config{URL: DefaultURL}
	assert.Equal(t,
		"https://github.com/settings/tokens/new?description=gsv+cli+code+search&scopes=read:org,read:user,repo",
		cfg.TokenURL())
}

func TestClientConfig(t *testing.T) {
	cfg := &Config{URL: DefaultURL, Token: "t", Username: "u"}

	cc := cfg.ClientConfig()
	assert.Equal(t, DefaultURL, cc.BaseURL)
	assert.Equal(t, "t", cc.Token)
	assert.Equal(t, "u", cc.Username)
	assert.NotNil(t, cc.DefaultOrganizations)
	assert.Empty(t, cc.DefaultOrganizations)

	cfg.Defaults.Orgs = []string{"acme"}
	cc = cfg.ClientConfig()
	cfg.Defaults.Orgs[0] = "changed"
	assert.Equal(t, []string{"acme"}, cc.DefaultOrganizations)
}

func TestExpandPath(t *testing.T) {
	home := isolateEnv(t)
	t.Setenv("GSV_TEST_DIR", "/tmp/gsv")

	assert.Equal(t, filepath.Join(home, "conf"), expandPath("~/conf"))
	assert.Equal(t, "/tmp/gsv/conf", expandPath("$GSV_TEST_DIR/conf"))
	assert.Equal(t, "/abs/path", expandPath("/abs/path"))
}
