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

// Package metadata records statistics about a search: what was asked,
// how many pages and items came back and how long it took. The record is
// written as JSON for scripts that post-process gsv output.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sirseerhq/gsv/internal/github"
)

// Tracker collects statistics during a search. Create one right before
// the search starts.
type Tracker struct {
	searchID  string
	startTime time.Time
	stats     ResultStats
}

// ResultStats summarizes a search result.
type ResultStats struct {
	TotalCount        int
	Items             int
	Repositories      int
	Pages             int
	IncompleteResults bool
}

// New creates a tracker and starts its clock.
func New() *Tracker {
	return &Tracker{
		searchID:  uuid.NewString(),
		startTime: time.Now(),
	}
}

// SearchID returns the identifier of the tracked search.
func (t *Tracker) SearchID() string {
	return t.searchID
}

// RecordResult records the aggregate of a completed search.
func (t *Tracker) RecordResult(result *github.SearchResult) {
	repos := make(map[string]struct{})
	for _, item := range result.Items {
		repos[item.GetRepository().GetFullName()] = struct{}{}
	}

	t.stats = ResultStats{
		TotalCount:        result.TotalCount,
		Items:             len(result.Items),
		Repositories:      len(repos),
		Pages:             result.Pages,
		IncompleteResults: result.IncompleteResults,
	}
}

// Stats returns the statistics recorded so far.
func (t *Tracker) Stats() ResultStats {
	return t.stats
}

// GenerateMetadata creates the metadata record. Call it once the search
// has completed.
func (t *Tracker) GenerateMetadata(version string, params SearchParams) *SearchMetadata {
	completedAt := time.Now()

	if params.Terms == nil {
		params.Terms = []string{}
	}
	if params.Organizations == nil {
		params.Organizations = []string{}
	}

	return &SearchMetadata{
		GSVVersion: version,
		SearchID:   t.searchID,
		Parameters: params,
		Results: SearchResults{
			TotalCount:        t.stats.TotalCount,
			ItemsReturned:     t.stats.Items,
			Repositories:      t.stats.Repositories,
			PagesFetched:      t.stats.Pages,
			IncompleteResults: t.stats.IncompleteResults,
			Duration:          completedAt.Sub(t.startTime).String(),
			StartedAt:         t.startTime,
			CompletedAt:       completedAt,
		},
	}
}

// SaveMetadata writes metadata as indented JSON to path. The file is
// written atomically using a temporary file and rename.
func SaveMetadata(metadata *SearchMetadata, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metadata directory: %w", err)
		}
	}

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}

	if err := WriteMetadataToWriter(metadata, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to save metadata file: %w", err)
	}

	return nil
}

// LoadMetadata reads a record written by SaveMetadata.
func LoadMetadata(path string) (*SearchMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	var metadata SearchMetadata
	if err := json.NewDecoder(file).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &metadata, nil
}

// WriteMetadataToWriter serializes metadata to indented JSON.
func WriteMetadataToWriter(metadata *SearchMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
