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

// Package github provides a client for GitHub's REST code search API.
// It composes search queries, sends authenticated requests, classifies
// HTTP failures and follows Link header pagination to assemble complete
// result sets.
//
// The package includes:
//   - A Client interface for searching code and looking up the token owner
//   - A REST implementation that follows rel="next" links sequentially
//   - Typed errors: APIError, TransportError and PaginationAbortedError
//   - Mock client for testing
//
// Basic usage:
//
//	client, err := github.NewClient(github.ClientConfig{
//	    BaseURL:              "https://api.github.com",
//	    Token:                "your-github-token",
//	    DefaultOrganizations: []string{"golang"},
//	})
//	if err != nil {
//	    // Handle error
//	}
//	result, err := client.Search(ctx, []string{"ReadAll"})
//	if err != nil {
//	    // Handle error
//	}
//	for _, item := range result.Items {
//	    // Render match
//	}
//
// Search never returns partial data: a failure on any page discards the
// pages collected so far and is reported as a *PaginationAbortedError
// wrapping the cause.
package github
