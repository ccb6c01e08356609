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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	gsverrors "github.com/sirseerhq/gsv/internal/errors"
)

// Client defines the interface for interacting with GitHub's API.
// This interface allows for easy mocking in tests.
type Client interface {
	// Search runs a code search for terms, scoped to the default
	// organizations, and follows pagination until every page is fetched.
	// It returns either the complete result or an error, never a partial
	// result.
	Search(ctx context.Context, terms []string) (*SearchResult, error)

	// GetSelf returns the user the token belongs to.
	GetSelf(ctx context.Context) (*User, error)

	// GetOrganizations lists the organizations the user belongs to.
	GetOrganizations(ctx context.Context) ([]*Organization, error)
}

// RESTClient implements Client against the GitHub REST API.
type RESTClient struct {
	config     ClientConfig
	httpClient *http.Client
	logger     zerolog.Logger
	maxPages   int
}

var _ Client = (*RESTClient)(nil)

// Option configures a RESTClient.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
	maxPages   int
}

// WithHTTPClient sets the HTTP client whose transport and timeout are used.
// Authentication and identification are layered on top of its transport.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithTimeout bounds every single request. Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithMaxPages makes Search fail instead of fetching more than n pages.
// Zero means no limit.
func WithMaxPages(n int) Option {
	return func(o *clientOptions) {
		o.maxPages = n
	}
}

// NewClient creates a REST client from cfg. The configuration must carry
// a base URL and a token; resolving an incomplete configuration (running
// setup) is the caller's job.
func NewClient(cfg ClientConfig, opts ...Option) (*RESTClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("github API URL is required: %w", gsverrors.ErrNotConfigured)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("github token is required: %w", gsverrors.ErrNotConfigured)
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid github API URL %q", cfg.BaseURL)
	}

	o := &clientOptions{
		timeout: 30 * time.Second,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	var baseTransport http.RoundTripper
	if o.httpClient != nil {
		baseTransport = o.httpClient.Transport
		if o.httpClient.Timeout > 0 {
			o.timeout = o.httpClient.Timeout
		}
	}

	orgs := make([]string, len(cfg.DefaultOrganizations))
	copy(orgs, cfg.DefaultOrganizations)

	return &RESTClient{
		config: ClientConfig{
			BaseURL:              strings.TrimRight(cfg.BaseURL, "/"),
			Token:                cfg.Token,
			Username:             cfg.Username,
			DefaultOrganizations: orgs,
		},
		httpClient: &http.Client{
			Transport: newTransport(cfg.Token, cfg.Username, baseTransport),
			Timeout:   o.timeout,
		},
		logger:   o.logger,
		maxPages: o.maxPages,
	}, nil
}

// DefaultOrganizations returns a copy of the organizations every search is scoped to.
func (c *RESTClient) DefaultOrganizations() []string {
	orgs := make([]string, len(c.config.DefaultOrganizations))
	copy(orgs, c.config.DefaultOrganizations)
	return orgs
}

// GetSelf returns the user the token belongs to.
func (c *RESTClient) GetSelf(ctx context.Context) (*User, error) {
	resp, err := c.get(ctx, selfPath, nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := resp.Decode(&user); err != nil {
		return nil, &TransportError{Op: "decode", URL: resp.URL, Err: err}
	}
	return &user, nil
}

// GetOrganizations lists the organizations the user belongs to. It issues a
// single request and does not follow pagination.
func (c *RESTClient) GetOrganizations(ctx context.Context) ([]*Organization, error) {
	params := url.Values{}
	params.Set("per_page", "100")

	resp, err := c.get(ctx, orgsPath, params)
	if err != nil {
		return nil, err
	}

	var orgs []*Organization
	if err := resp.Decode(&orgs); err != nil {
		return nil, &TransportError{Op: "decode", URL: resp.URL, Err: err}
	}
	return orgs, nil
}

// get executes a request and classifies the response.
func (c *RESTClient) get(ctx context.Context, ref string, query url.Values) (*Response, error) {
	resp, err := c.do(ctx, ref, query, nil)
	if err != nil {
		return nil, err
	}
	if err := Classify(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// do issues one authenticated GET and returns the response envelope.
// ref is either a path relative to the base URL or an absolute URL, such
// as a pagination link, which is used verbatim. HTTP error statuses are
// not treated as errors here; see Classify.
func (c *RESTClient) do(ctx context.Context, ref string, query url.Values, header http.Header) (*Response, error) {
	target, err := c.requestURL(ref, query)
	if err != nil {
		return nil, &TransportError{Op: "GET", URL: ref, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Op: "GET", URL: target, Err: err}
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", textMatchMediaType)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "GET", URL: target, Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read", URL: target, Err: err}
	}

	c.logger.Debug().
		Str("url", target).
		Int("status", httpResp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("GitHub API request")

	resp := &Response{
		URL:        target,
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}

	if resp.StatusCode < http.StatusBadRequest && !json.Valid(body) {
		return nil, &TransportError{Op: "decode", URL: target, Err: ErrMalformedResponse}
	}

	return resp, nil
}

// requestURL resolves ref against the base URL and appends the encoded
// query, if any. Absolute URLs without extra parameters are returned
// verbatim since GitHub hands out pagination links already encoded.
func (c *RESTClient) requestURL(ref string, query url.Values) (string, error) {
	absolute := strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")

	raw := ref
	if !absolute {
		raw = c.config.BaseURL + "/" + strings.TrimLeft(ref, "/")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if len(query) == 0 {
		return raw, nil
	}

	if u.RawQuery != "" {
		u.RawQuery += "&" + query.Encode()
	} else {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}
