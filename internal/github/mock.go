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
	"sync"

	gh "github.com/google/go-github/v67/github"
)

// MockClient is a mock implementation of the GitHub Client interface for testing.
type MockClient struct {
	// Data to return
	Items         []*CodeResult
	Self          *User
	Organizations []*Organization

	// Error to return from every call
	Error error

	// Behavior flags
	ShouldFailAuth    bool
	ShouldFailNetwork bool

	// Track calls for verification
	mu        sync.Mutex
	CallCount int
	LastTerms []string
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates a new mock client with default test data
func NewMockClient() *MockClient {
	return &MockClient{
		Items: generateTestResults(),
		Self:  &User{Login: gh.String("octocat")},
		Organizations: []*Organization{
			{Login: gh.String("acme")},
			{Login: gh.String("wombat")},
		},
	}
}

// Search implements the Client interface
func (m *MockClient) Search(ctx context.Context, terms []string) (*SearchResult, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastTerms = append([]string(nil), terms...)
	m.mu.Unlock()

	if err := m.fail(ctx); err != nil {
		return nil, err
	}

	items := make([]*CodeResult, len(m.Items))
	copy(items, m.Items)

	return &SearchResult{
		Items:      items,
		TotalCount: len(items),
		Pages:      1,
	}, nil
}

// GetSelf implements the Client interface
func (m *MockClient) GetSelf(ctx context.Context) (*User, error) {
	m.mu.Lock()
	m.CallCount++
	m.mu.Unlock()

	if err := m.fail(ctx); err != nil {
		return nil, err
	}
	return m.Self, nil
}

// GetOrganizations implements the Client interface
func (m *MockClient) GetOrganizations(ctx context.Context) ([]*Organization, error) {
	m.mu.Lock()
	m.CallCount++
	m.mu.Unlock()

	if err := m.fail(ctx); err != nil {
		return nil, err
	}
	return m.Organizations, nil
}

// Calls returns the number of calls made so far.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

func (m *MockClient) fail(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return &APIError{
			Kind:       KindAuthentication,
			StatusCode: 401,
			Body:       `{"message":"Bad credentials"}`,
		}
	}

	if m.ShouldFailNetwork {
		return &TransportError{
			Op:  "GET",
			URL: DefaultBaseURL + searchCodePath,
			Err: fmt.Errorf("dial tcp: connection refused"),
		}
	}

	if m.Error != nil {
		return m.Error
	}

	return nil
}

// generateTestResults creates sample code search matches for testing
func generateTestResults() []*CodeResult {
	return []*CodeResult{
		NewCodeResult("acme/widgets", "cmd/widget/main.go", "3f2a9c1",
			"func main() {\n\twidget.Run()\n}"),
		NewCodeResult("acme/widgets", "internal/widget/run.go", "9b8e7d6",
			"// Run starts the widget loop\nfunc Run() {"),
		NewCodeResult("wombat/burrow", "README.md", "c0ffee1",
			"Run the widget with `widget run`"),
	}
}

// NewCodeResult builds a CodeResult with one text match per fragment.
func NewCodeResult(repo, path, sha string, fragments ...string) *CodeResult {
	matches := make([]*TextMatch, 0, len(fragments))
	for _, f := range fragments {
		matches = append(matches, &TextMatch{
			ObjectType: gh.String("FileContent"),
			Property:   gh.String("content"),
			Fragment:   gh.String(f),
		})
	}

	return &CodeResult{
		Name:        gh.String(path),
		Path:        gh.String(path),
		SHA:         gh.String(sha),
		Repository:  &gh.Repository{FullName: gh.String(repo)},
		TextMatches: matches,
	}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithItems sets the search matches returned by the mock.
func WithItems(items []*CodeResult) MockClientOption {
	return func(m *MockClient) {
		m.Items = items
	}
}

// WithError makes every call fail with err.
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes every call fail with a 401 APIError.
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
