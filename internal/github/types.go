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

package github

import (
	"encoding/json"
	"net/http"

	gh "github.com/google/go-github/v67/github"
)

// ClientConfig is the configuration record a RESTClient is built from.
// It is copied at construction and never mutated afterwards, so a single
// client may serve any number of concurrent calls.
type ClientConfig struct {
	// BaseURL is the REST API root, e.g. https://api.github.com or
	// https://github.example.com/api/v3 for GitHub Enterprise.
	BaseURL string

	// Token is the personal access token sent with every request.
	Token string

	// Username is embedded in the User-Agent header. Optional.
	Username string

	// DefaultOrganizations are appended to every search as org: filters.
	DefaultOrganizations []string
}

// Response is the normalized envelope produced for every request.
// Transport metadata lives here, next to the raw body, never inside
// the decoded value.
type Response struct {
	// URL is the fully resolved URL that was requested.
	URL string

	StatusCode int

	// Header holds the response headers; use Header.Get for
	// case-insensitive lookup.
	Header http.Header

	// Body is the raw response body.
	Body []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// CodeResult is a single code search match as returned by GitHub.
type CodeResult = gh.CodeResult

// TextMatch is a highlighted fragment attached to a CodeResult.
type TextMatch = gh.TextMatch

// User is the authenticated user's identity record.
type User = gh.User

// Organization is an organization the authenticated user belongs to.
type Organization = gh.Organization

// SearchResult is the aggregate of every page of a code search.
type SearchResult struct {
	// Items holds the matches of all pages, in page order and, within a
	// page, in the order GitHub returned them.
	Items []*CodeResult

	// TotalCount is the total_count reported by the first page.
	TotalCount int

	// IncompleteResults mirrors incomplete_results of the first page.
	IncompleteResults bool

	// Pages is the number of pages fetched.
	Pages int
}

// Default values for client construction
const (
	DefaultBaseURL = "https://api.github.com"

	searchCodePath = "/search/code"
	selfPath       = "/user"
	orgsPath       = "/user/orgs"
)
