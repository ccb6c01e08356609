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
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/olekukonko/tablewriter"
)

// TableWriter collects matches and renders them as one table on Close.
type TableWriter struct {
	mu     sync.Mutex
	output io.Writer
	rows   [][]string
}

// NewTableWriter creates a table writer.
func NewTableWriter(w io.Writer) *TableWriter {
	return &TableWriter{output: w}
}

// Write buffers one Match.
func (t *TableWriter) Write(record interface{}) error {
	m, err := asMatch(record)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows = append(t.rows, []string{m.Repository, m.Path, shortSHA(m.SHA), strconv.Itoa(len(m.Fragments))})
	return nil
}

// Close renders the table.
func (t *TableWriter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	table := tablewriter.NewWriter(t.output)
	table.Header("Repository", "Path", "SHA", "Fragments")
	for _, row := range t.rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to add table row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
