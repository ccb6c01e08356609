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
)

// CodeItemBuilder provides a fluent API for creating code search items
type CodeItemBuilder struct {
	repo      string
	path      string
	sha       string
	fragments []string
}

// NewCodeItemBuilder creates a new item builder with defaults derived from n
func NewCodeItemBuilder(n int) *CodeItemBuilder {
	return &CodeItemBuilder{
		repo:      fmt.Sprintf("acme/repo%d", n),
		path:      fmt.Sprintf("pkg/file%d.go", n),
		sha:       fmt.Sprintf("%040d", n),
		fragments: []string{fmt.Sprintf("func Widget%d() {}", n)},
	}
}

// WithRepository sets the repository full name
func (b *CodeItemBuilder) WithRepository(repo string) *CodeItemBuilder {
	b.repo = repo
	return b
}

// WithPath sets the file path
func (b *CodeItemBuilder) WithPath(path string) *CodeItemBuilder {
	b.path = path
	return b
}

// WithSHA sets the blob sha
func (b *CodeItemBuilder) WithSHA(sha string) *CodeItemBuilder {
	b.sha = sha
	return b
}

// WithFragments replaces the text match fragments
func (b *CodeItemBuilder) WithFragments(fragments ...string) *CodeItemBuilder {
	b.fragments = fragments
	return b
}

// Build returns the item in GitHub's wire format
func (b *CodeItemBuilder) Build() map[string]interface{} {
	matches := make([]map[string]interface{}, 0, len(b.fragments))
	for _, f := range b.fragments {
		matches = append(matches, map[string]interface{}{
			"object_type": "FileContent",
			"property":    "content",
			"fragment":    f,
			"matches":     []interface{}{},
		})
	}

	return map[string]interface{}{
		"name": b.path,
		"path": b.path,
		"sha":  b.sha,
		"repository": map[string]interface{}{
			"full_name": b.repo,
		},
		"text_matches": matches,
	}
}
