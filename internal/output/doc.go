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

// Package output renders code search matches.
//
// Every format implements OutputWriter. Records are written one at a time
// as the CLI walks the search result; formats that need the whole set
// before rendering (the table) buffer until Close.
//
//	w, err := output.New(output.FormatText, os.Stdout, output.Options{
//	    Color: true,
//	    Terms: []string{"widget"},
//	})
//	if err != nil {
//	    return err
//	}
//	for _, item := range result.Items {
//	    if err := w.Write(output.NewMatch(item)); err != nil {
//	        return err
//	    }
//	}
//	return w.Close()
//
// Supported formats are text (the default, grep-like with highlighted
// terms), table, ndjson and yaml.
package output
