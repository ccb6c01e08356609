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

package metadata

import (
	"time"
)

// SearchMetadata is the record written for one search when --metadata is set.
type SearchMetadata struct {
	GSVVersion string        `json:"gsv_version"`
	SearchID   string        `json:"search_id"`
	Parameters SearchParams  `json:"parameters"`
	Results    SearchResults `json:"results"`
}

// SearchParams captures the inputs of the search.
type SearchParams struct {
	Terms         []string `json:"terms"`
	Organizations []string `json:"organizations"`
	Query         string   `json:"query"`
	APIURL        string   `json:"api_url"`
	MaxPages      int      `json:"max_pages,omitempty"`
}

// SearchResults holds statistics about a completed search.
type SearchResults struct {
	TotalCount        int       `json:"total_count"`
	ItemsReturned     int       `json:"items_returned"`
	Repositories      int       `json:"repositories"`
	PagesFetched      int       `json:"pages_fetched"`
	IncompleteResults bool      `json:"incomplete_results"`
	Duration          string    `json:"search_duration"`
	StartedAt         time.Time `json:"started_at"`
	CompletedAt       time.Time `json:"completed_at"`
}
