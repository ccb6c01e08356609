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

package output

import (
	"github.com/sirseerhq/gsv/internal/github"
)

// Match is the flattened form of a code search match used by every format.
type Match struct {
	Repository string   `json:"repository" yaml:"repository"`
	Path       string   `json:"path" yaml:"path"`
	SHA        string   `json:"sha" yaml:"sha"`
	URL        string   `json:"url,omitempty" yaml:"url,omitempty"`
	Fragments  []string `json:"fragments" yaml:"fragments"`
}

// NewMatch flattens a search result item. Fragments keep GitHub's order.
func NewMatch(item *github.CodeResult) Match {
	fragments := make([]string, 0, len(item.TextMatches))
	for _, tm := range item.TextMatches {
		fragments = append(fragments, tm.GetFragment())
	}

	return Match{
		Repository: item.GetRepository().GetFullName(),
		Path:       item.GetPath(),
		SHA:        item.GetSHA(),
		URL:        item.GetHTMLURL(),
		Fragments:  fragments,
	}
}
