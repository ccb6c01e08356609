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

package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirseerhq/gsv/test/testutil"
)

func skipUnlessIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}
}

func TestCLIVersion(t *testing.T) {
	skipUnlessIntegration(t)

	result := testutil.RunCLI(t, []string{"version"}, nil, "")
	testutil.AssertCLISuccess(t, result)

	if !strings.HasPrefix(result.Stdout, "gsv version ") {
		t.Errorf("Unexpected version output: %q", result.Stdout)
	}
}

func TestCLISearchNDJSON(t *testing.T) {
	skipUnlessIntegration(t)

	server := testutil.NewGitHubLikeMockServer(t, 5, 2)
	dir := t.TempDir()
	metadataPath := filepath.Join(dir, "search.metadata.json")

	result := testutil.RunWithMockServer(t, server,
		"search", "widget", "--format", "ndjson", "--metadata", metadataPath)
	testutil.AssertCLISuccess(t, result)

	records := testutil.AssertNDJSONOutput(t, result.Stdout, 5)
	if len(records) > 0 && records[0]["repository"] != "acme/repo1" {
		t.Errorf("Expected first record from acme/repo1, got %v", records[0]["repository"])
	}

	metadata := testutil.AssertMetadataFile(t, metadataPath, 5)
	results := metadata["results"].(map[string]interface{})
	if results["pages_fetched"] != float64(3) {
		t.Errorf("Expected 3 pages fetched, got %v", results["pages_fetched"])
	}
}

func TestCLISearchToFile(t *testing.T) {
	skipUnlessIntegration(t)

	server := testutil.NewGitHubLikeMockServer(t, 3, 30)
	outputPath := filepath.Join(t.TempDir(), "matches.txt")

	result := testutil.RunWithMockServer(t, server, "widget", "--files-only", "--output", outputPath)
	testutil.AssertCLISuccess(t, result)
	testutil.AssertFileExists(t, outputPath)

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 3 {
		t.Errorf("Expected 3 lines, got %d: %q", len(lines), content)
	}
	if result.Stdout != "" {
		t.Errorf("Expected empty stdout when writing to a file, got %q", result.Stdout)
	}
}

func TestCLIExitCodes(t *testing.T) {
	skipUnlessIntegration(t)

	tests := []struct {
		name      string
		setup     func(*testutil.GitHubLikeMockServer)
		args      []string
		wantCode  int
		wantError string
	}{
		{
			name: "rate limited",
			setup: func(s *testutil.GitHubLikeMockServer) {
				s.SetRateLimit(0)
			},
			args:      []string{"widget"},
			wantCode:  2,
			wantError: "rate limit",
		},
		{
			name: "bad gateway",
			setup: func(s *testutil.GitHubLikeMockServer) {
				s.FailRequest(1, 502, `{"message":"Server Error"}`)
			},
			args:     []string{"widget"},
			wantCode: 1,
		},
		{
			name: "partial results",
			setup: func(s *testutil.GitHubLikeMockServer) {
				s.FailRequest(2, 502, `{"message":"Server Error"}`)
			},
			args:      []string{"widget"},
			wantCode:  1,
			wantError: "page 2",
		},
		{
			name:      "unsupported format",
			args:      []string{"widget", "--format", "xml"},
			wantCode:  1,
			wantError: "unsupported output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewGitHubLikeMockServer(t, 4, 2)
			if tt.setup != nil {
				tt.setup(server)
			}

			result := testutil.RunWithMockServer(t, server, tt.args...)
			testutil.AssertCLIError(t, result, tt.wantError)
			testutil.AssertExitCode(t, result, tt.wantCode)
		})
	}
}

func TestCLINotConfigured(t *testing.T) {
	skipUnlessIntegration(t)

	result := testutil.RunCLI(t, []string{"widget"}, nil, "")
	testutil.AssertCLIError(t, result, "gsv setup")
}

func TestCLIBadCredentials(t *testing.T) {
	skipUnlessIntegration(t)

	server := testutil.NewGitHubLikeMockServer(t, 1, 30)
	configPath := testutil.WriteConfig(t, t.TempDir(), server.URL, "expired-token", "octocat")

	result := testutil.RunCLI(t, []string{"--config", configPath, "widget"}, nil, "")
	testutil.AssertCLIError(t, result, "")
	testutil.AssertExitCode(t, result, 2)
}

func TestCLISetup(t *testing.T) {
	skipUnlessIntegration(t)

	server := testutil.NewGitHubLikeMockServer(t, 2, 30)
	configPath := filepath.Join(t.TempDir(), "gsvrc.toml")

	// Token from the flag, organization picked at the prompt.
	result := testutil.RunCLI(t,
		[]string{"--config", configPath, "setup", "--url", server.URL, "--token", server.Token},
		nil, "1\n")
	testutil.AssertCLISuccess(t, result)

	if !strings.Contains(result.Stdout, "Successfully logged in as octocat!") {
		t.Errorf("Expected login message, got %q", result.Stdout)
	}
	if !strings.Contains(result.Stdout, "1) acme") {
		t.Errorf("Expected sorted organization list, got %q", result.Stdout)
	}

	testutil.AssertFileExists(t, configPath)
	testutil.AssertFilePermissions(t, configPath, 0o600)

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}
	for _, want := range []string{server.URL, server.Token, "octocat", "acme"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("Expected config to contain %q:\n%s", want, content)
		}
	}
	if strings.Contains(string(content), "wombat") {
		t.Errorf("Unselected organization saved:\n%s", content)
	}

	// The saved config is immediately usable.
	search := testutil.RunCLI(t, []string{"--config", configPath, "widget", "--files-only"}, nil, "")
	testutil.AssertCLISuccess(t, search)
	if got := strings.Count(search.Stdout, "\n"); got != 2 {
		t.Errorf("Expected 2 result lines, got %d: %q", got, search.Stdout)
	}
}

func TestCLISetupRejectedToken(t *testing.T) {
	skipUnlessIntegration(t)

	server := testutil.NewGitHubLikeMockServer(t, 0, 30)
	configPath := filepath.Join(t.TempDir(), "gsvrc.toml")

	result := testutil.RunCLI(t,
		[]string{"--config", configPath, "setup", "--url", server.URL, "--token", "nope", "--org", "acme"},
		nil, "")
	testutil.AssertCLIError(t, result, "did you enter the token correctly?")
	testutil.AssertExitCode(t, result, 2)
	if n := strings.Count(result.Stderr, "did you enter the token correctly?"); n != 1 {
		t.Errorf("Expected the authentication failure once, got %d times:\n%s", n, result.Stderr)
	}
	testutil.AssertFileNotExists(t, configPath)
}
