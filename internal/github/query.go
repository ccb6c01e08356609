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

import "strings"

// ComposeQuery builds a GitHub code search query from free-text terms and
// the default organizations. Terms come first, followed by one org:<name>
// filter per organization, all separated by single spaces. Input order is
// preserved for both groups.
//
// Terms are passed through verbatim. A term containing spaces is read by
// GitHub as several terms.
func ComposeQuery(terms, organizations []string) string {
	parts := make([]string, 0, len(terms)+len(organizations))
	parts = append(parts, terms...)
	for _, org := range organizations {
		parts = append(parts, "org:"+org)
	}
	return strings.Join(parts, " ")
}
