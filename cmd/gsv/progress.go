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

package main

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/rs/zerolog"
)

// startProgress shows a spinner with message on stderr and returns the
// function that removes it. Nothing is shown unless stderr is a terminal
// or when info logs would interleave with it.
func (a *app) startProgress(logger zerolog.Logger, message string) func() {
	stderr, ok := a.stderr.(*os.File)
	if !ok || !a.isTerminal(stderr) || logger.GetLevel() <= zerolog.InfoLevel {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriterFile(stderr),
		spinner.WithSuffix(" "+message),
		spinner.WithHiddenCursor(true),
	)
	s.Start()
	return s.Stop
}
