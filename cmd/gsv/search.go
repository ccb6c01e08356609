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
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/gsv/internal/config"
	gsverrors "github.com/sirseerhq/gsv/internal/errors"
	"github.com/sirseerhq/gsv/internal/github"
	"github.com/sirseerhq/gsv/internal/metadata"
	"github.com/sirseerhq/gsv/internal/output"
)

// searchOptions holds the flags of a search.
type searchOptions struct {
	filesOnly    bool
	format       string
	orgs         []string
	noColor      bool
	maxPages     int
	metadataFile string
	outputFile   string
	timeout      time.Duration
}

func addSearchFlags(cmd *cobra.Command, opts *searchOptions) {
	flags := cmd.Flags()
	flags.BoolVarP(&opts.filesOnly, "files-only", "l", false, "Print only the repository, path and sha of each match")
	flags.StringVar(&opts.format, "format", output.FormatText, "Output format: text, table, ndjson, yaml")
	flags.StringSliceVar(&opts.orgs, "org", nil, "Search these organizations instead of the configured defaults (repeatable)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.IntVar(&opts.maxPages, "max-pages", 0, "Fail instead of fetching more than this many result pages (0 = no limit)")
	flags.StringVar(&opts.metadataFile, "metadata", "", "Write search statistics as JSON to this file")
	flags.StringVarP(&opts.outputFile, "output", "o", "", "Output file path (default: stdout)")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Timeout for each GitHub API request")
}

func newSearchCommand(a *app) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search [flags] <terms...>",
		Short: "Search code on GitHub",
		Long: `Search code on GitHub and print every match.

Terms are combined into one GitHub code search query, so qualifiers such as
language:go or path:cmd work as they do on github.com. Each configured
default organization is added as an org: filter; --org replaces them.

All result pages are fetched before anything is printed. If any page fails
nothing is printed and gsv exits with an error.`,
		Example: `  gsv search 'func main' language:go
  gsv search -l --org kubernetes TODO
  gsv search --format ndjson widget > matches.ndjson`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd, opts, args)
		},
	}

	addSearchFlags(cmd, opts)
	return cmd
}

// runSearch executes a search command
func (a *app) runSearch(cmd *cobra.Command, opts *searchOptions, terms []string) error {
	cfg, err := a.loadConfig(false)
	if err != nil {
		return err
	}
	logger := a.logger(cfg)

	if _, err := output.New(opts.format, io.Discard, output.Options{}); err != nil {
		return err
	}

	if !cfg.HasToken() {
		return fmt.Errorf("no GitHub token configured, run 'gsv setup' or set GITHUB_TOKEN: %w", gsverrors.ErrNotConfigured)
	}

	clientCfg := cfg.ClientConfig()
	if cmd.Flags().Changed("org") {
		clientCfg.DefaultOrganizations = opts.orgs
	}

	client, err := a.newClient(clientCfg,
		github.WithLogger(logger),
		github.WithTimeout(opts.timeout),
		github.WithMaxPages(opts.maxPages),
	)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	tracker := metadata.New()
	logger.Info().
		Strs("terms", terms).
		Strs("orgs", clientCfg.DefaultOrganizations).
		Str("search_id", tracker.SearchID()).
		Msg("Starting search")

	stopProgress := a.startProgress(logger, "Searching GitHub...")
	result, err := client.Search(cmd.Context(), terms)
	stopProgress()
	if err != nil {
		return err
	}
	tracker.RecordResult(result)

	if result.IncompleteResults {
		logger.Warn().Msg("GitHub reported incomplete results; the search timed out on its side")
	}

	if err := a.writeResults(result, opts, terms); err != nil {
		return err
	}

	stats := tracker.Stats()
	logger.Info().
		Int("items", stats.Items).
		Int("total", stats.TotalCount).
		Int("pages", stats.Pages).
		Int("repositories", stats.Repositories).
		Msg("Search complete")

	if opts.metadataFile != "" {
		md := tracker.GenerateMetadata(version, metadata.SearchParams{
			Terms:         terms,
			Organizations: clientCfg.DefaultOrganizations,
			Query:         github.ComposeQuery(terms, clientCfg.DefaultOrganizations),
			APIURL:        clientCfg.BaseURL,
			MaxPages:      opts.maxPages,
		})
		if err := metadata.SaveMetadata(md, opts.metadataFile); err != nil {
			return err
		}
		logger.Debug().Str("path", opts.metadataFile).Msg("Wrote search metadata")
	}

	return nil
}

// writeResults renders every match to stdout or the output file.
func (a *app) writeResults(result *github.SearchResult, opts *searchOptions, terms []string) (err error) {
	dest := a.stdout
	if opts.outputFile != "" {
		file, fErr := os.Create(opts.outputFile)
		if fErr != nil {
			return fmt.Errorf("failed to create output file: %w", fErr)
		}
		defer func() {
			if cErr := file.Close(); cErr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", cErr)
			}
		}()
		dest = file
	}

	writer, err := output.New(opts.format, dest, output.Options{
		FilesOnly: opts.filesOnly,
		Color:     a.useColor(opts, dest),
		Terms:     terms,
	})
	if err != nil {
		return err
	}

	for _, item := range result.Items {
		if err := writer.Write(output.NewMatch(item)); err != nil {
			return fmt.Errorf("failed to write match: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	if len(result.Items) == 0 && (opts.format == "" || opts.format == output.FormatText) {
		fmt.Fprintln(a.stderr, "No results found.")
	}
	return nil
}

// useColor enables colors only for terminals and honors NO_COLOR.
func (a *app) useColor(opts *searchOptions, dest io.Writer) bool {
	if opts.noColor {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return a.isTerminal(dest)
}

// loadConfig reads the configuration and applies the logging flags.
// With allowMissing a nonexistent --config file yields the defaults.
func (a *app) loadConfig(allowMissing bool) (*config.Config, error) {
	load := config.Load
	if allowMissing {
		load = config.LoadOptional
	}

	cfg, err := load(a.configPath)
	if err != nil {
		return nil, err
	}

	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (a *app) logger(cfg *config.Config) zerolog.Logger {
	return setupLogger(cfg.Logging.Level, cfg.Logging.Format, a.stderr, a.isTerminal(a.stderr))
}
