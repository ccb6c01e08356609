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
	"strings"
)

// OutputWriter defines the interface for writing search matches.
type OutputWriter interface {
	// Write writes a single record to the output.
	Write(record interface{}) error

	// Close flushes buffered records. It does not close the underlying
	// io.Writer, which stays owned by the caller.
	Close() error
}

// Supported output formats.
const (
	FormatText   = "text"
	FormatTable  = "table"
	FormatNDJSON = "ndjson"
	FormatYAML   = "yaml"
)

// Formats lists every supported format name.
var Formats = []string{FormatText, FormatTable, FormatNDJSON, FormatYAML}

// Options tune the human-readable formats. Machine formats ignore them.
type Options struct {
	// FilesOnly prints one line per match without fragments.
	FilesOnly bool

	// Color enables ANSI colors in text output.
	Color bool

	// Terms are highlighted inside fragments.
	Terms []string
}

// New creates the writer for format.
func New(format string, w io.Writer, opts Options) (OutputWriter, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return NewTextWriter(w, opts), nil
	case FormatTable:
		return NewTableWriter(w), nil
	case FormatNDJSON, "json":
		return NewWriter(w), nil
	case FormatYAML, "yml":
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// asMatch accepts Match values and pointers.
func asMatch(record interface{}) (Match, error) {
	switch m := record.(type) {
	case Match:
		return m, nil
	case *Match:
		if m == nil {
			return Match{}, fmt.Errorf("nil match record")
		}
		return *m, nil
	default:
		return Match{}, fmt.Errorf("unsupported record type %T", record)
	}
}
