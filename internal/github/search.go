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
	"context"
	"fmt"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v67/github"

	gsverrors "github.com/sirseerhq/gsv/internal/errors"
)

// Search runs a code search for terms, scoped to the client's default
// organizations, and returns the matches of every page.
func (c *RESTClient) Search(ctx context.Context, terms []string) (*SearchResult, error) {
	query := url.Values{}
	query.Set("q", ComposeQuery(terms, c.config.DefaultOrganizations))

	c.logger.Debug().Str("query", query.Get("q")).Msg("Searching code")

	return c.paginate(ctx, searchCodePath, query)
}

// paginate fetches ref and then every page reachable through rel="next"
// links, strictly one request at a time. Any failure discards the pages
// collected so far. A next link pointing at an already fetched URL ends
// pagination.
func (c *RESTClient) paginate(ctx context.Context, ref string, query url.Values) (*SearchResult, error) {
	result := &SearchResult{
		Items: []*CodeResult{},
	}
	visited := make(map[string]struct{})

	for {
		page, links, requested, err := c.fetchPage(ctx, ref, query)
		if err != nil {
			if result.Pages > 0 {
				return nil, &PaginationAbortedError{Page: result.Pages + 1, Err: err}
			}
			return nil, err
		}
		visited[pageKey(requested)] = struct{}{}

		result.Pages++
		if result.Pages == 1 {
			result.TotalCount = page.GetTotal()
			result.IncompleteResults = page.GetIncompleteResults()
		}
		result.Items = append(result.Items, page.CodeResults...)

		c.logger.Debug().
			Int("page", result.Pages).
			Int("items", len(page.CodeResults)).
			Int("collected", len(result.Items)).
			Int("total", result.TotalCount).
			Msg("Fetched search page")

		next, ok := links.Next()
		if !ok {
			return result, nil
		}

		nextURL, err := c.requestURL(next, nil)
		if err != nil {
			return nil, &PaginationAbortedError{
				Page: result.Pages + 1,
				Err:  &TransportError{Op: "GET", URL: next, Err: err},
			}
		}
		if _, seen := visited[pageKey(nextURL)]; seen {
			c.logger.Warn().
				Str("url", nextURL).
				Int("page", result.Pages).
				Msg("Next page link points to an already fetched page, stopping")
			return result, nil
		}

		if c.maxPages > 0 && result.Pages >= c.maxPages {
			return nil, &PaginationAbortedError{
				Page: result.Pages + 1,
				Err:  fmt.Errorf("more than %d pages: %w", c.maxPages, gsverrors.ErrPageLimit),
			}
		}

		// The next link already carries every query parameter.
		ref, query = nextURL, nil
	}
}

// pageKey identifies the page a URL points at regardless of how the link
// was written: host case, query parameter order and an explicit page=1 do
// not matter.
func pageKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	query := u.Query()
	if query.Get("page") == "" {
		query.Set("page", "1")
	}

	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + u.EscapedPath() + "?" + query.Encode()
}

// fetchPage requests one page of code search results and returns it along
// with its link relations and the URL that was requested.
func (c *RESTClient) fetchPage(ctx context.Context, ref string, query url.Values) (*gh.CodeSearchResult, LinkRelations, string, error) {
	resp, err := c.get(ctx, ref, query)
	if err != nil {
		return nil, nil, "", err
	}

	var page gh.CodeSearchResult
	if err := resp.Decode(&page); err != nil {
		return nil, nil, "", &TransportError{Op: "decode", URL: resp.URL, Err: err}
	}

	return &page, ParseLinkHeader(resp.Header), resp.URL, nil
}
