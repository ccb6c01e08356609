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
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// fragmentPrefix starts every fragment line.
const fragmentPrefix = "... "

// TextWriter prints matches the way grep does: a header line per match
// followed by its fragments, with search terms highlighted.
type TextWriter struct {
	mu        sync.Mutex
	output    io.Writer
	filesOnly bool
	highlight *regexp.Regexp

	repo, path, sha, prefix, term *color.Color
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer, opts Options) *TextWriter {
	t := &TextWriter{
		output:    w,
		filesOnly: opts.FilesOnly,
		highlight: highlighter(opts.Terms),
		repo:      color.New(color.FgGreen),
		path:      color.New(color.FgMagenta),
		sha:       color.New(color.FgBlue),
		prefix:    color.New(color.FgHiBlack),
		term:      color.New(color.FgYellow, color.Bold),
	}

	for _, c := range []*color.Color{t.repo, t.path, t.sha, t.prefix, t.term} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return t
}

// Write prints one Match.
func (t *TextWriter) Write(record interface{}) error {
	m, err := asMatch(record)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s):\n", t.repo.Sprint(m.Repository), t.path.Sprint(m.Path), t.sha.Sprint(m.SHA))

	if !t.filesOnly {
		for _, fragment := range m.Fragments {
			for _, line := range strings.Split(fragment, "\n") {
				b.WriteString(t.prefix.Sprint(fragmentPrefix))
				b.WriteString(t.highlightLine(line))
				b.WriteByte('\n')
			}
		}
	}

	if _, err := io.WriteString(t.output, b.String()); err != nil {
		return fmt.Errorf("failed to write match: %w", err)
	}
	return nil
}

// Close is a no-op.
func (t *TextWriter) Close() error {
	return nil
}

func (t *TextWriter) highlightLine(line string) string {
	if t.highlight == nil {
		return line
	}
	return t.highlight.ReplaceAllStringFunc(line, func(s string) string {
		return t.term.Sprint(s)
	})
}

// highlighter builds a case-insensitive pattern matching any plain term.
// Qualifiers such as language:go are not part of the file content and
// are left out.
func highlighter(terms []string) *regexp.Regexp {
	var words []string
	for _, term := range terms {
		term = strings.Trim(term, `"`)
		if term == "" || strings.Contains(term, ":") {
			continue
		}
		words = append(words, regexp.QuoteMeta(term))
	}
	if len(words) == 0 {
		return nil
	}

	// Longest first so overlapping terms highlight the widest match.
	sort.SliceStable(words, func(i, j int) bool {
		return len(words[i]) > len(words[j])
	})

	return regexp.MustCompile("(?i)" + strings.Join(words, "|"))
}
