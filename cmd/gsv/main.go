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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/gsv/internal/giterror"
	"github.com/sirseerhq/gsv/internal/github"
)

var version = "dev"

// clientFactory builds the GitHub client used by a command.
type clientFactory func(cfg github.ClientConfig, opts ...github.Option) (github.Client, error)

// app carries what commands share: streams, global flags and the seams
// tests replace.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	newClient  clientFactory
	isTerminal func(w io.Writer) bool
	openURL    func(url string) error
	prompter   prompter

	configPath string
	logLevel   string
	logFormat  string
}

func newApp() *app {
	return &app{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		newClient:  newRESTClient,
		isTerminal: isTerminal,
		openURL:    open.Run,
	}
}

func newRESTClient(cfg github.ClientConfig, opts ...github.Option) (github.Client, error) {
	client, err := github.NewClient(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp()
	rootCmd := newRootCommand(a)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(a.stderr, err)
		stop()
		os.Exit(mapErrorToExitCode(err))
	}
}

func newRootCommand(a *app) *cobra.Command {
	opts := &searchOptions{}

	rootCmd := &cobra.Command{
		Use:   "gsv [flags] <terms...>",
		Short: "Search code on GitHub from the terminal",
		Long: `gsv (github search vehicle) runs GitHub code searches and prints the
matching files with highlighted fragments.

Searches are scoped to the organizations chosen during 'gsv setup'.
Run 'gsv search <terms>' when a term collides with a command name.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return a.runSearch(cmd, opts, args)
		},
	}

	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: ~/.gsvrc)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: console, json (default from config)")

	addSearchFlags(rootCmd, opts)

	rootCmd.AddCommand(newSearchCommand(a))
	rootCmd.AddCommand(newSetupCommand(a))
	rootCmd.AddCommand(newVersionCommand(a))

	return rootCmd
}

// reportError prints err and, when one applies, a hint for fixing it.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if hint := giterror.Hint(giterror.NewInspector().Categorize(err)); hint != "" {
		fmt.Fprintln(w, hint)
	}
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch giterror.NewInspector().Categorize(err) {
	case giterror.CategoryAuth,
		giterror.CategoryForbidden,
		giterror.CategoryNotFound,
		giterror.CategoryRateLimit:
		return 2 // Authentication/authorization errors
	case giterror.CategoryNetwork:
		return 3 // Network errors
	default:
		return 1 // General error
	}
}
