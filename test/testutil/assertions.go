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
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

// AssertNDJSONOutput checks that output holds expectedCount match records,
// one JSON object per line, and returns them.
func AssertNDJSONOutput(t *testing.T, output string, expectedCount int) []map[string]interface{} {
	t.Helper()

	var records []map[string]interface{}
	scanner := bufio.NewScanner(strings.NewReader(output))
	line := 0

	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}

		var record map[string]interface{}
		if err := json.Unmarshal([]byte(text), &record); err != nil {
			t.Errorf("Line %d: invalid JSON: %v", line, err)
			continue
		}

		for _, field := range []string{"repository", "path", "sha", "fragments"} {
			if _, ok := record[field]; !ok {
				t.Errorf("Line %d: missing required field '%s'", line, field)
			}
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		t.Fatalf("Error reading output: %v", err)
	}

	if len(records) != expectedCount {
		t.Errorf("Expected %d records, got %d", expectedCount, len(records))
	}
	return records
}

// AssertMetadataFile validates a search metadata file and returns it decoded.
func AssertMetadataFile(t *testing.T, path string, expectedItems int) map[string]interface{} {
	t.Helper()

	var metadata map[string]interface{}
	ReadJSON(t, path, &metadata)

	for _, field := range []string{"gsv_version", "search_id", "parameters", "results"} {
		if _, ok := metadata[field]; !ok {
			t.Errorf("Metadata missing required field '%s'", field)
		}
	}

	results, ok := metadata["results"].(map[string]interface{})
	if !ok {
		t.Fatalf("Metadata results is not an object: %v", metadata["results"])
	}
	if got, _ := results["items_returned"].(float64); int(got) != expectedItems {
		t.Errorf("Expected items_returned %d, got %v", expectedItems, results["items_returned"])
	}
	return metadata
}

// AssertFilePermissions checks the permission bits of path.
func AssertFilePermissions(t *testing.T, path string, expected os.FileMode) {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat %s: %v", path, err)
	}
	if perm := info.Mode().Perm(); perm != expected {
		t.Errorf("Expected permissions %o on %s, got %o", expected, path, perm)
	}
}
