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

// Package testutil provides common test helpers for gsv
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
)

// MockServer wraps an httptest.Server and records every request it serves.
type MockServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
}

// RecordedRequest is the part of an incoming request tests assert on.
type RecordedRequest struct {
	Path   string
	Query  url.Values
	Header http.Header
}

// RequestCount returns how many requests the server has served.
func (s *MockServer) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns a copy of the recorded requests in arrival order.
func (s *MockServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *MockServer) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, RecordedRequest{
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
	})
}

// NewMockServer creates a mock server that records requests and delegates to handler.
func NewMockServer(t *testing.T, handler http.HandlerFunc) *MockServer {
	t.Helper()
	s := &MockServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// SearchPage describes one page served by NewSearchServer. A non-zero
// Status turns the page into an error response with Body as its text.
type SearchPage struct {
	Items  []map[string]interface{}
	Status int
	Body   string
}

// NewSearchServer serves /search/code in pages selected by the page query
// parameter. Every page but the last carries a Link header with next and
// last relations, the way GitHub paginates search results.
func NewSearchServer(t *testing.T, totalCount int, pages ...SearchPage) *MockServer {
	t.Helper()
	var s *MockServer
	s = NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/code" {
			WriteError(w, http.StatusNotFound, `{"message":"Not Found"}`)
			return
		}

		n := 1
		if p := r.URL.Query().Get("page"); p != "" {
			var err error
			if n, err = strconv.Atoi(p); err != nil || n < 1 || n > len(pages) {
				WriteError(w, http.StatusUnprocessableEntity, `{"message":"bad page"}`)
				return
			}
		}
		page := pages[n-1]

		if n < len(pages) {
			w.Header().Set("Link", LinkHeader(s.URL, r.URL.Query().Get("q"), n+1, len(pages)))
		}

		if page.Status != 0 {
			WriteError(w, page.Status, page.Body)
			return
		}

		WriteJSON(w, GenerateSearchResponse(totalCount, page.Items))
	})
	return s
}

// NewErrorServer creates a mock server that always returns the specified error
func NewErrorServer(t *testing.T, statusCode int, body string) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, statusCode, body)
	})
}

// LinkHeader renders a GitHub style Link header pointing at page next of last.
func LinkHeader(baseURL, query string, next, last int) string {
	q := url.Values{}
	q.Set("q", query)

	ref := func(page int) string {
		q.Set("page", strconv.Itoa(page))
		return fmt.Sprintf("%s/search/code?%s", baseURL, q.Encode())
	}

	return fmt.Sprintf(`<%s>; rel="next", <%s>; rel="last"`, ref(next), ref(last))
}

// GenerateSearchResponse builds a /search/code response body.
func GenerateSearchResponse(totalCount int, items []map[string]interface{}) map[string]interface{} {
	if items == nil {
		items = []map[string]interface{}{}
	}
	return map[string]interface{}{
		"total_count":        totalCount,
		"incomplete_results": false,
		"items":              items,
	}
}

// GenerateCodeItems generates code search items numbered start through end.
func GenerateCodeItems(start, end int) []map[string]interface{} {
	items := make([]map[string]interface{}, 0, end-start+1)
	for i := start; i <= end; i++ {
		items = append(items, NewCodeItemBuilder(i).Build())
	}
	return items
}

// WriteJSON writes v as a 200 JSON response.
func WriteJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes body with the given status code.
func WriteError(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}
