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
	"net/http"
	"strings"
)

// LinkRelations maps a relation name (next, prev, first, last) to its
// target URL. A nil LinkRelations means the response carried no Link
// header at all; an empty, non-nil one means the header was present but
// nothing in it could be parsed.
type LinkRelations map[string]string

// Next returns the URL of the next page, if any.
func (l LinkRelations) Next() (string, bool) {
	next, ok := l["next"]
	return next, ok && next != ""
}

// ParseLinkHeader extracts RFC 8288 link relations from the Link header of h.
// Multiple Link header lines are treated as a single comma-separated list.
// Entries that do not have the <url>; rel="name" shape are skipped.
func ParseLinkHeader(h http.Header) LinkRelations {
	values := h.Values("Link")
	if len(values) == 0 {
		return nil
	}
	return parseLinkValue(strings.Join(values, ","))
}

func parseLinkValue(value string) LinkRelations {
	relations := LinkRelations{}
	for _, entry := range strings.Split(value, ",") {
		target, names, ok := parseLinkEntry(entry)
		if !ok {
			continue
		}
		for _, name := range names {
			relations[name] = target
		}
	}
	return relations
}

// parseLinkEntry parses one `<url>; rel="a b"; other=x` entry.
func parseLinkEntry(entry string) (string, []string, bool) {
	params := strings.Split(entry, ";")

	ref := strings.TrimSpace(params[0])
	if len(ref) < 3 || ref[0] != '<' || ref[len(ref)-1] != '>' {
		return "", nil, false
	}
	target := ref[1 : len(ref)-1]

	var names []string
	for _, param := range params[1:] {
		key, value, found := strings.Cut(strings.TrimSpace(param), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "rel") {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)
		// rel may hold several space-separated names
		names = append(names, strings.Fields(value)...)
	}

	if len(names) == 0 {
		return "", nil, false
	}
	return target, names, true
}
