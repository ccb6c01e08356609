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
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

const (
	// textMatchMediaType asks GitHub to include text_matches in search results.
	textMatchMediaType = "application/vnd.github.v3.text-match+json"

	// anonymousUser stands in for the username in the User-Agent header.
	anonymousUser = "(anon)"

	// maxResponseSize caps how much of a single response body is read.
	maxResponseSize = 10 * 1024 * 1024
)

// userAgent identifies gsv and the configured user to GitHub.
func userAgent(username string) string {
	if username == "" {
		username = anonymousUser
	}
	return fmt.Sprintf("gsv cli (github search vehicle, user=%s)", username)
}

// newTransport layers token authentication and identification headers
// on top of base. The token is sent as "Authorization: Bearer <token>".
func newTransport(token, username string, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	return &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		Base: &identityTransport{
			userAgent: userAgent(username),
			base:      base,
		},
	}
}

// identityTransport sets the User-Agent header and limits response sizes.
type identityTransport struct {
	userAgent string
	base      http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *identityTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseSize,
		}
	}

	return resp, nil
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (int, error) {
	if lr.read >= lr.limit {
		// A body of exactly limit bytes is fine; anything more is not.
		var extra [1]byte
		n, err := lr.ReadCloser.Read(extra[:])
		if n == 0 {
			return 0, err
		}
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}
