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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

var (
	// ErrInvalidToken indicates GitHub rejected the configured token (HTTP 401).
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrForbidden indicates the token is valid but lacks access (HTTP 403).
	// Maps to exit code 2.
	ErrForbidden = errors.New("access to github resource forbidden")

	// ErrNotFound indicates the requested endpoint or resource does not exist.
	// Maps to exit code 2.
	ErrNotFound = errors.New("github resource not found")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrServerError indicates GitHub answered with a 5xx status.
	ErrServerError = errors.New("github server error")

	// ErrNetworkFailure indicates a network connection problem or an unreadable response.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrNotConfigured indicates the configuration record lacks a token or URL.
	ErrNotConfigured = errors.New("gsv is not configured")

	// ErrPageLimit indicates a search needed more pages than the configured maximum.
	ErrPageLimit = errors.New("search page limit reached")
)
