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
	"sync"

	"gopkg.in/yaml.v3"
)

// YAMLWriter writes every record as its own YAML document.
type YAMLWriter struct {
	mu      sync.Mutex
	encoder *yaml.Encoder
	count   int
}

// NewYAMLWriter creates a YAML stream writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	return &YAMLWriter{encoder: encoder}
}

// Write encodes record as the next document of the stream.
func (w *YAMLWriter) Write(record interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	w.count++
	return nil
}

// Count returns the number of records written.
func (w *YAMLWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close flushes the encoder.
func (w *YAMLWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.encoder.Close()
}
