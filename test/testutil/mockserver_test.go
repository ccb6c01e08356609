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

package testutil

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestGenerateCodeItems(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		end       int
		wantCount int
		wantFirst string
	}{
		{name: "single item", start: 1, end: 1, wantCount: 1, wantFirst: "acme/repo1"},
		{name: "multiple items", start: 1, end: 5, wantCount: 5, wantFirst: "acme/repo1"},
		{name: "non-sequential range", start: 10, end: 15, wantCount: 6, wantFirst: "acme/repo10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := GenerateCodeItems(tt.start, tt.end)
			if len(items) != tt.wantCount {
				t.Fatalf("Expected %d items, got %d", tt.wantCount, len(items))
			}

			repo := items[0]["repository"].(map[string]interface{})
			if repo["full_name"] != tt.wantFirst {
				t.Errorf("Expected first repository %s, got %v", tt.wantFirst, repo["full_name"])
			}
		})
	}
}

func TestCodeItemBuilder(t *testing.T) {
	item := NewCodeItemBuilder(3).
		WithRepository("wombat/burrow").
		WithPath("README.md").
		WithSHA("c0ffee").
		WithFragments("one", "two").
		Build()

	if item["path"] != "README.md" || item["name"] != "README.md" {
		t.Errorf("Unexpected path fields: %v / %v", item["path"], item["name"])
	}
	if item["sha"] != "c0ffee" {
		t.Errorf("Expected sha c0ffee, got %v", item["sha"])
	}
	matches := item["text_matches"].([]map[string]interface{})
	if len(matches) != 2 || matches[1]["fragment"] != "two" {
		t.Errorf("Unexpected text matches: %v", matches)
	}
}

func TestNewSearchServer(t *testing.T) {
	server := NewSearchServer(t, 3,
		SearchPage{Items: GenerateCodeItems(1, 2)},
		SearchPage{Items: GenerateCodeItems(3, 3)},
	)

	resp, err := http.Get(server.URL + "/search/code?q=widget")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	link := resp.Header.Get("Link")
	if !strings.Contains(link, `/search/code?page=2&q=widget>; rel="next"`) {
		t.Errorf("Expected next link to page 2, got %q", link)
	}
	if !strings.Contains(link, `/search/code?page=2&q=widget>; rel="last"`) {
		t.Errorf("Expected last link to page 2, got %q", link)
	}

	var body struct {
		TotalCount int               `json:"total_count"`
		Items      []json.RawMessage `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.TotalCount != 3 || len(body.Items) != 2 {
		t.Errorf("Unexpected first page: total=%d items=%d", body.TotalCount, len(body.Items))
	}

	resp2, err := http.Get(server.URL + "/search/code?q=widget&page=2")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp2.Body.Close()
	if resp2.Header.Get("Link") != "" {
		t.Errorf("Last page should not carry a Link header, got %q", resp2.Header.Get("Link"))
	}

	if server.RequestCount() != 2 {
		t.Errorf("Expected 2 recorded requests, got %d", server.RequestCount())
	}
	if got := server.Requests()[1].Query.Get("page"); got != "2" {
		t.Errorf("Expected second request for page 2, got %q", got)
	}
}

func TestNewErrorServer(t *testing.T) {
	server := NewErrorServer(t, http.StatusBadGateway, "bad gateway")

	resp, err := http.Get(server.URL + "/anything")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", resp.StatusCode)
	}
}

func TestGitHubLikeMockServer(t *testing.T) {
	server := NewGitHubLikeMockServer(t, 5, 2)

	get := func(path, token, accept string) *http.Response {
		t.Helper()
		req, _ := http.NewRequest(http.MethodGet, server.URL+path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	t.Run("requires token", func(t *testing.T) {
		resp := get("/user", "wrong", "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("paginates with links", func(t *testing.T) {
		resp := get("/search/code?q=widget&page=2", server.Token, "application/vnd.github.text-match+json")
		link := resp.Header.Get("Link")
		for _, rel := range []string{`rel="prev"`, `rel="next"`, `rel="last"`, `rel="first"`} {
			if !strings.Contains(link, rel) {
				t.Errorf("Expected %s in Link header %q", rel, link)
			}
		}

		var body struct {
			Items []map[string]interface{} `json:"items"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode: %v", err)
		}
		if len(body.Items) != 2 {
			t.Fatalf("Expected 2 items on page 2, got %d", len(body.Items))
		}
		if _, ok := body.Items[0]["text_matches"]; !ok {
			t.Error("Expected text_matches with text-match media type")
		}
	})

	t.Run("omits text matches without media type", func(t *testing.T) {
		resp := get("/search/code?q=widget&page=3", server.Token, "application/json")
		if resp.Header.Get("Link") == "" {
			t.Error("Expected prev/first links on last page")
		}
		if strings.Contains(resp.Header.Get("Link"), `rel="next"`) {
			t.Error("Last page must not have a next link")
		}

		var body struct {
			Items []map[string]interface{} `json:"items"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode: %v", err)
		}
		if len(body.Items) != 1 {
			t.Fatalf("Expected 1 item on page 3, got %d", len(body.Items))
		}
		if _, ok := body.Items[0]["text_matches"]; ok {
			t.Error("Did not expect text_matches without text-match media type")
		}
	})

	t.Run("rate limit", func(t *testing.T) {
		server.SetRateLimit(0)
		defer server.ResetRateLimit()

		resp := get("/user", server.Token, "")
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("Expected 403, got %d", resp.StatusCode)
		}
		if resp.Header.Get("X-RateLimit-Remaining") != "0" {
			t.Errorf("Expected remaining 0, got %q", resp.Header.Get("X-RateLimit-Remaining"))
		}
	})

	t.Run("failure injection", func(t *testing.T) {
		next := len(server.GetRequestHistory()) + 1
		server.FailRequest(next, http.StatusServiceUnavailable, "unavailable")

		resp := get("/user", server.Token, "")
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d", resp.StatusCode)
		}
	})
}
