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
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/gsv/internal/config"
	"github.com/sirseerhq/gsv/internal/github"
)

const tokenHelp = `Please generate an access token and paste it into the following prompt:

  %s

gsv requests the following scopes:
- "read:user": to read your username.
- "read:org": to read the list of orgs that your user belongs to.
- "repo": to allow code search to find results from private repositories.

`

type setupOptions struct {
	url       string
	token     string
	orgs      []string
	noBrowser bool
}

func newSetupCommand(a *app) *cobra.Command {
	opts := &setupOptions{}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Configure the GitHub token and default organizations",
		Long: `Setup asks for a GitHub personal access token, verifies it, lets you
pick the organizations searched by default and saves everything to ~/.gsvrc
(or the file named by --config) in TOML format.

Pass --token and --org to run without prompts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSetup(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", config.DefaultURL, "GitHub API URL, e.g. https://ghe.example.com/api/v3")
	cmd.Flags().StringVar(&opts.token, "token", "", "Personal access token (skips the token prompts)")
	cmd.Flags().StringSliceVar(&opts.orgs, "org", nil, "Default organizations (skips the selection prompt)")
	cmd.Flags().BoolVar(&opts.noBrowser, "no-browser", false, "Print the token page URL instead of opening it")

	return cmd
}

// runSetup executes the setup wizard
func (a *app) runSetup(cmd *cobra.Command, opts *setupOptions) error {
	cfg, err := a.loadConfig(true)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("url") {
		cfg.URL = strings.TrimRight(opts.url, "/")
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logger := a.logger(cfg)

	path := a.configPath
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	token := strings.TrimSpace(opts.token)
	if token == "" {
		prompts := a.prompts()
		hasToken, err := prompts.Confirm("Do you have a GitHub personal access token you would like to use?")
		if err != nil {
			return err
		}
		if !hasToken {
			tokenURL := cfg.TokenURL()
			fmt.Fprintf(a.stdout, tokenHelp, tokenURL)
			if !opts.noBrowser {
				if err := a.openURL(tokenURL); err != nil {
					logger.Debug().Err(err).Str("url", tokenURL).Msg("Could not open browser")
				}
			}
		}

		if token, err = prompts.Password("Please enter a GitHub personal access token:"); err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = strings.TrimSpace(token)
	}
	if token == "" {
		return errors.New("no token entered")
	}

	anonymous, err := a.newClient(github.ClientConfig{BaseURL: cfg.URL, Token: token}, github.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	user, err := anonymous.GetSelf(cmd.Context())
	if err != nil {
		var apiErr *github.APIError
		if errors.As(err, &apiErr) && apiErr.Kind == github.KindAuthentication {
			return fmt.Errorf("authentication failed, did you enter the token correctly? %w", err)
		}
		return fmt.Errorf("unexpected error talking to GitHub: %w", err)
	}
	login := user.GetLogin()
	fmt.Fprintf(a.stdout, "Successfully logged in as %s!\n", login)

	client, err := a.newClient(github.ClientConfig{BaseURL: cfg.URL, Token: token, Username: login}, github.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	var selected []string
	if cmd.Flags().Changed("org") {
		selected = opts.orgs
	} else {
		orgs, err := client.GetOrganizations(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list organizations: %w", err)
		}
		if selected, err = a.selectOrganizations(orgs); err != nil {
			return err
		}
	}

	cfg.Token = token
	cfg.Username = login
	cfg.Defaults.Orgs = selected

	fmt.Fprintf(a.stdout, "Saving %s in TOML format. To re-run this prompt, run 'gsv setup'. Happy searching! <3\n", path)
	if err := config.Save(cfg, path); err != nil {
		return err
	}

	logger.Debug().Str("path", path).Strs("orgs", selected).Msg("Saved configuration")
	return nil
}

// selectOrganizations lets the user pick the organizations searched by
// default.
func (a *app) selectOrganizations(orgs []*github.Organization) ([]string, error) {
	logins := make([]string, 0, len(orgs))
	for _, org := range orgs {
		logins = append(logins, org.GetLogin())
	}
	sort.Strings(logins)

	if len(logins) == 0 {
		fmt.Fprintln(a.stdout, "You are not a member of any organization; searches will cover all of GitHub.")
		return []string{}, nil
	}

	return a.prompts().MultiSelect("Select the orgs you would like to search by default:", logins)
}

// parseSelection resolves a comma or space separated list of 1-based
// indexes or names against choices. Duplicates are dropped.
func parseSelection(answer string, choices []string) ([]string, error) {
	fields := strings.FieldsFunc(answer, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	selected := []string{}
	seen := make(map[string]bool)
	add := func(choice string) {
		if !seen[choice] {
			seen[choice] = true
			selected = append(selected, choice)
		}
	}

	for _, field := range fields {
		if strings.EqualFold(field, "all") {
			for _, c := range choices {
				add(c)
			}
			continue
		}

		if n, err := strconv.Atoi(field); err == nil {
			if n < 1 || n > len(choices) {
				return nil, fmt.Errorf("selection %d out of range 1-%d", n, len(choices))
			}
			add(choices[n-1])
			continue
		}

		found := false
		for _, c := range choices {
			if strings.EqualFold(c, field) {
				add(c)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown organization %q", field)
		}
	}

	return selected, nil
}
