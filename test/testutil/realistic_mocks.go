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
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// GitHubLikeMockServer behaves like the GitHub REST API for the endpoints
// gsv uses: it checks the bearer token, counts down a rate limit, paginates
// /search/code with Link headers and only includes text_matches when the
// text-match media type is requested.
type GitHubLikeMockServer struct {
	*httptest.Server

	mu                 sync.RWMutex
	rateLimitRemaining int32
	rateLimitReset     int64
	requestHistory     []APIRequest
	failures           map[int]SearchPage
	requests           int32

	Token    string
	Login    string
	Orgs     []string
	Items    []map[string]interface{}
	PageSize int
}

// APIRequest is one request seen by GitHubLikeMockServer.
type APIRequest struct {
	Path      string
	Query     url.Values
	UserAgent string
	Accept    string
	Timestamp time.Time
}

// NewGitHubLikeMockServer serves totalItems generated matches in pages of
// pageSize. The accepted token is "test-token".
func NewGitHubLikeMockServer(t *testing.T, totalItems, pageSize int) *GitHubLikeMockServer {
	t.Helper()

	mock := &GitHubLikeMockServer{
		rateLimitRemaining: 30,
		rateLimitReset:     time.Now().Add(time.Minute).Unix(),
		failures:           make(map[int]SearchPage),
		Token:              "test-token",
		Login:              "octocat",
		Orgs:               []string{"wombat", "acme"},
		Items:              GenerateCodeItems(1, totalItems),
		PageSize:           pageSize,
	}

	mock.Server = httptest.NewServer(http.HandlerFunc(mock.handle))
	t.Cleanup(mock.Close)
	return mock
}

func (m *GitHubLikeMockServer) handle(w http.ResponseWriter, r *http.Request) {
	n := int(atomic.AddInt32(&m.requests, 1))

	m.mu.Lock()
	m.requestHistory = append(m.requestHistory, APIRequest{
		Path:      r.URL.Path,
		Query:     r.URL.Query(),
		UserAgent: r.Header.Get("User-Agent"),
		Accept:    r.Header.Get("Accept"),
		Timestamp: time.Now(),
	})
	failure, fail := m.failures[n]
	m.mu.Unlock()

	if r.Method != http.MethodGet {
		WriteError(w, http.StatusNotFound, `{"message":"Not Found"}`)
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+m.Token {
		WriteError(w, http.StatusUnauthorized,
			`{"message":"Bad credentials","documentation_url":"https://docs.github.com/rest"}`)
		return
	}

	remaining := atomic.AddInt32(&m.rateLimitRemaining, -1)
	reset := strconv.FormatInt(atomic.LoadInt64(&m.rateLimitReset), 10)
	w.Header().Set("X-RateLimit-Limit", "30")
	w.Header().Set("X-RateLimit-Reset", reset)
	if remaining < 0 {
		w.Header().Set("X-RateLimit-Remaining", "0")
		WriteError(w, http.StatusForbidden,
			`{"message":"API rate limit exceeded for user ID 1.","documentation_url":"https://docs.github.com/rest/rate-limit"}`)
		return
	}
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(remaining)))

	if fail {
		WriteError(w, failure.Status, failure.Body)
		return
	}

	switch r.URL.Path {
	case "/user":
		WriteJSON(w, map[string]interface{}{"login": m.Login, "id": 1})
	case "/user/orgs":
		orgs := make([]map[string]interface{}, 0, len(m.Orgs))
		for i, login := range m.Orgs {
			orgs = append(orgs, map[string]interface{}{"login": login, "id": i + 100})
		}
		WriteJSON(w, orgs)
	case "/search/code":
		m.searchCode(w, r)
	default:
		WriteError(w, http.StatusNotFound, `{"message":"Not Found"}`)
	}
}

func (m *GitHubLikeMockServer) searchCode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		WriteError(w, http.StatusUnprocessableEntity, `{"message":"Validation Failed","errors":[{"field":"q","code":"missing"}]}`)
		return
	}

	pageSize := m.PageSize
	if pageSize <= 0 {
		pageSize = 30
	}
	pages := (len(m.Items) + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		var err error
		if page, err = strconv.Atoi(p); err != nil || page < 1 {
			WriteError(w, http.StatusUnprocessableEntity, `{"message":"Validation Failed"}`)
			return
		}
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(m.Items) {
		start = len(m.Items)
	}
	if end > len(m.Items) {
		end = len(m.Items)
	}

	textMatches := strings.Contains(r.Header.Get("Accept"), "text-match")
	items := make([]map[string]interface{}, 0, end-start)
	for _, item := range m.Items[start:end] {
		copied := make(map[string]interface{}, len(item))
		for k, v := range item {
			if k == "text_matches" && !textMatches {
				continue
			}
			copied[k] = v
		}
		items = append(items, copied)
	}

	if links := m.links(q, page, pages); links != "" {
		w.Header().Set("Link", links)
	}
	WriteJSON(w, GenerateSearchResponse(len(m.Items), items))
}

// links renders prev, next, last and first relations the way GitHub does.
func (m *GitHubLikeMockServer) links(q string, page, pages int) string {
	ref := func(p int, rel string) string {
		v := url.Values{}
		v.Set("q", q)
		v.Set("page", strconv.Itoa(p))
		return fmt.Sprintf(`<%s/search/code?%s>; rel="%s"`, m.URL, v.Encode(), rel)
	}

	var parts []string
	if page > 1 {
		parts = append(parts, ref(page-1, "prev"))
	}
	if page < pages {
		parts = append(parts, ref(page+1, "next"), ref(pages, "last"))
	}
	if page > 1 {
		parts = append(parts, ref(1, "first"))
	}
	return strings.Join(parts, ", ")
}

// FailRequest makes the n-th request (1-based) answer with status and body.
func (m *GitHubLikeMockServer) FailRequest(n, status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[n] = SearchPage{Status: status, Body: body}
}

// GetRequestHistory returns all requests made to the server
func (m *GitHubLikeMockServer) GetRequestHistory() []APIRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := make([]APIRequest, len(m.requestHistory))
	copy(history, m.requestHistory)
	return history
}

// ResetRateLimit restores the full rate limit.
func (m *GitHubLikeMockServer) ResetRateLimit() {
	atomic.StoreInt32(&m.rateLimitRemaining, 30)
	atomic.StoreInt64(&m.rateLimitReset, time.Now().Add(time.Minute).Unix())
}

// SetRateLimit sets how many requests remain before the limit is hit.
func (m *GitHubLikeMockServer) SetRateLimit(remaining int32) {
	atomic.StoreInt32(&m.rateLimitRemaining, remaining)
}
