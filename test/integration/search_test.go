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
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	gsverrors "github.com/sirseerhq/gsv/internal/errors"
	"github.com/sirseerhq/gsv/internal/github"
	"github.com/sirseerhq/gsv/test/testutil"
)

func newClient(t *testing.T, server *testutil.GitHubLikeMockServer, token string, opts ...github.Option) *github.RESTClient {
	t.Helper()

	client, err := github.NewClient(github.ClientConfig{
		BaseURL:              server.URL,
		Token:                token,
		Username:             server.Login,
		DefaultOrganizations: []string{"acme"},
	}, opts...)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

// TestSearchFollowsEveryPage runs a search against a server that paginates
// like GitHub and checks that all pages are collected in order.
func TestSearchFollowsEveryPage(t *testing.T) {
	server := testutil.NewGitHubLikeMockServer(t, 7, 3)
	client := newClient(t, server, server.Token)

	result, err := client.Search(context.Background(), []string{"widget", "language:go"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if result.Pages != 3 {
		t.Errorf("Expected 3 pages, got %d", result.Pages)
	}
	if result.TotalCount != 7 {
		t.Errorf("Expected total count 7, got %d", result.TotalCount)
	}
	if len(result.Items) != 7 {
		t.Fatalf("Expected 7 items, got %d", len(result.Items))
	}
	for i, item := range result.Items {
		want := testutil.NewCodeItemBuilder(i + 1).Build()["path"]
		if item.GetPath() != want {
			t.Errorf("Item %d: expected path %v, got %s", i, want, item.GetPath())
		}
		if len(item.TextMatches) == 0 {
			t.Errorf("Item %d: expected text matches", i)
		}
	}

	history := server.GetRequestHistory()
	if len(history) != 3 {
		t.Fatalf("Expected 3 requests, got %d", len(history))
	}
	for i, req := range history {
		if req.Path != "/search/code" {
			t.Errorf("Request %d: unexpected path %s", i, req.Path)
		}
		q := req.Query.Get("q")
		if !strings.Contains(q, "widget") || !strings.Contains(q, "org:acme") {
			t.Errorf("Request %d: unexpected query %q", i, q)
		}
		if !strings.Contains(req.Accept, "text-match") {
			t.Errorf("Request %d: expected text-match media type, got %q", i, req.Accept)
		}
		if !strings.Contains(req.UserAgent, server.Login) {
			t.Errorf("Request %d: expected user agent to mention %s, got %q", i, server.Login, req.UserAgent)
		}
	}
}

func TestSearchPageLimit(t *testing.T) {
	server := testutil.NewGitHubLikeMockServer(t, 10, 2)
	client := newClient(t, server, server.Token, github.WithMaxPages(2))

	_, err := client.Search(context.Background(), []string{"widget"})
	if !errors.Is(err, gsverrors.ErrPageLimit) {
		t.Fatalf("Expected page limit error, got %v", err)
	}
	if got := len(server.GetRequestHistory()); got != 2 {
		t.Errorf("Expected 2 requests before stopping, got %d", got)
	}
}

func TestIdentityEndpoints(t *testing.T) {
	server := testutil.NewGitHubLikeMockServer(t, 0, 30)
	client := newClient(t, server, server.Token)

	user, err := client.GetSelf(context.Background())
	if err != nil {
		t.Fatalf("GetSelf failed: %v", err)
	}
	if user.GetLogin() != "octocat" {
		t.Errorf("Expected login octocat, got %s", user.GetLogin())
	}

	orgs, err := client.GetOrganizations(context.Background())
	if err != nil {
		t.Fatalf("GetOrganizations failed: %v", err)
	}
	if len(orgs) != 2 || orgs[0].GetLogin() != "wombat" || orgs[1].GetLogin() != "acme" {
		t.Errorf("Unexpected organizations: %v", orgs)
	}
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		setup     func(*testutil.GitHubLikeMockServer)
		sentinel  error
		abortPage int
	}{
		{
			name:     "bad credentials",
			token:    "wrong-token",
			sentinel: gsverrors.ErrInvalidToken,
		},
		{
			name:  "rate limited on first page",
			token: "test-token",
			setup: func(s *testutil.GitHubLikeMockServer) {
				s.SetRateLimit(0)
			},
			sentinel: gsverrors.ErrRateLimit,
		},
		{
			name:  "rate limited mid pagination",
			token: "test-token",
			setup: func(s *testutil.GitHubLikeMockServer) {
				s.SetRateLimit(1)
			},
			sentinel:  gsverrors.ErrRateLimit,
			abortPage: 2,
		},
		{
			name:  "server error mid pagination",
			token: "test-token",
			setup: func(s *testutil.GitHubLikeMockServer) {
				s.FailRequest(3, http.StatusBadGateway, `{"message":"Server Error"}`)
			},
			sentinel:  gsverrors.ErrServerError,
			abortPage: 3,
		},
		{
			name:  "validation failure",
			token: "test-token",
			setup: func(s *testutil.GitHubLikeMockServer) {
				s.FailRequest(1, http.StatusUnprocessableEntity, `{"message":"Validation Failed"}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewGitHubLikeMockServer(t, 9, 3)
			if tt.setup != nil {
				tt.setup(server)
			}
			client := newClient(t, server, tt.token)

			result, err := client.Search(context.Background(), []string{"widget"})
			if err == nil {
				t.Fatalf("Expected error, got %d items", len(result.Items))
			}

			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("Expected %v, got %v", tt.sentinel, err)
			}

			var apiErr *github.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Expected APIError in chain, got %T", err)
			}

			var aborted *github.PaginationAbortedError
			isAborted := errors.As(err, &aborted)
			if tt.abortPage == 0 && isAborted {
				t.Errorf("First page failure should not be reported as aborted pagination: %v", err)
			}
			if tt.abortPage != 0 {
				if !isAborted {
					t.Fatalf("Expected PaginationAbortedError, got %v", err)
				}
				if aborted.Page != tt.abortPage {
					t.Errorf("Expected abort on page %d, got %d", tt.abortPage, aborted.Page)
				}
			}
		})
	}
}
