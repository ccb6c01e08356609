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

package giterror

import (
	"context"
	"errors"
	"strings"

	gsverrors "github.com/sirseerhq/gsv/internal/errors"
)

// Category is the coarse kind of a failure.
type Category int

const (
	CategoryNone Category = iota
	CategoryAuth
	CategoryForbidden
	CategoryNotFound
	CategoryRateLimit
	CategoryNetwork
	CategoryServer
	CategoryNotConfigured
	CategoryCanceled
	CategoryGeneral
)

// String returns the string representation of a Category
func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryAuth:
		return "authentication"
	case CategoryForbidden:
		return "forbidden"
	case CategoryNotFound:
		return "not found"
	case CategoryRateLimit:
		return "rate limit"
	case CategoryNetwork:
		return "network"
	case CategoryServer:
		return "server"
	case CategoryNotConfigured:
		return "not configured"
	case CategoryCanceled:
		return "canceled"
	default:
		return "general"
	}
}

// Inspector defines methods for inspecting errors returned by the GitHub client.
type Inspector interface {
	// IsAuthError returns true if the token was rejected.
	IsAuthError(err error) bool

	// IsForbiddenError returns true if access was denied for a reason other than rate limiting.
	IsForbiddenError(err error) bool

	// IsNotFoundError returns true if the error represents a not found error.
	IsNotFoundError(err error) bool

	// IsRateLimitError returns true if the error represents a rate limit error.
	IsRateLimitError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool

	// IsServerError returns true if GitHub answered with a 5xx status.
	IsServerError(err error) bool

	// Categorize returns the most specific category for err.
	Categorize(err error) Category
}

// GitHubErrorInspector implements Inspector. Each predicate matches the
// sentinel errors of the GitHub client first and falls back to the error
// text for errors that do not wrap one.
type GitHubErrorInspector struct{}

// NewInspector creates a new GitHubErrorInspector.
func NewInspector() Inspector {
	return &GitHubErrorInspector{}
}

// IsAuthError checks if the token was rejected.
func (i *GitHubErrorInspector) IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gsverrors.ErrInvalidToken) ||
		containsAny(err, "401", "unauthorized", "bad credentials", "authentication")
}

// IsForbiddenError checks if access was denied. Rate limited 403s are not
// forbidden errors.
func (i *GitHubErrorInspector) IsForbiddenError(err error) bool {
	if err == nil || i.IsRateLimitError(err) {
		return false
	}
	return errors.Is(err, gsverrors.ErrForbidden) ||
		containsAny(err, "403", "forbidden")
}

// IsNotFoundError checks if the error is a not found error.
func (i *GitHubErrorInspector) IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gsverrors.ErrNotFound) ||
		containsAny(err, "404", "not found")
}

// IsRateLimitError checks if the error is a rate limit error.
func (i *GitHubErrorInspector) IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gsverrors.ErrRateLimit) ||
		containsAny(err, "rate limit", "429")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *GitHubErrorInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gsverrors.ErrNetworkFailure) ||
		errors.Is(err, context.DeadlineExceeded) ||
		containsAny(err,
			"connection refused",
			"no such host",
			"timeout",
			"temporary failure",
			"dial tcp",
			"tls handshake",
			"network is unreachable",
		)
}

// IsServerError checks if GitHub answered with a 5xx status.
func (i *GitHubErrorInspector) IsServerError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gsverrors.ErrServerError) ||
		containsAny(err,
			"500", "502", "503", "504",
			"internal server error",
			"bad gateway",
			"service unavailable",
		)
}

// Categorize returns the most specific category for err. Sentinel matches
// win over text matches, and rate limiting is checked before authorization
// since GitHub reports it with 403.
func (i *GitHubErrorInspector) Categorize(err error) Category {
	if err == nil {
		return CategoryNone
	}

	for _, s := range sentinelCategories {
		if errors.Is(err, s.err) {
			return s.category
		}
	}

	switch {
	case i.IsRateLimitError(err):
		return CategoryRateLimit
	case i.IsAuthError(err):
		return CategoryAuth
	case i.IsForbiddenError(err):
		return CategoryForbidden
	case i.IsNotFoundError(err):
		return CategoryNotFound
	case i.IsServerError(err):
		return CategoryServer
	case i.IsNetworkError(err):
		return CategoryNetwork
	default:
		return CategoryGeneral
	}
}

// sentinelCategories is checked in order.
var sentinelCategories = []struct {
	err      error
	category Category
}{
	{context.Canceled, CategoryCanceled},
	{gsverrors.ErrNotConfigured, CategoryNotConfigured},
	{gsverrors.ErrRateLimit, CategoryRateLimit},
	{gsverrors.ErrInvalidToken, CategoryAuth},
	{gsverrors.ErrForbidden, CategoryForbidden},
	{gsverrors.ErrNotFound, CategoryNotFound},
	{gsverrors.ErrServerError, CategoryServer},
	{gsverrors.ErrNetworkFailure, CategoryNetwork},
	{context.DeadlineExceeded, CategoryNetwork},
}

// Hint returns a short suggestion for the user, or an empty string.
func Hint(c Category) string {
	switch c {
	case CategoryAuth:
		return "Check your token, or run 'gsv setup' to configure a new one."
	case CategoryForbidden:
		return "Your token may lack the read:org, read:user or repo scope."
	case CategoryNotFound:
		return "Check the API url in your configuration."
	case CategoryRateLimit:
		return "GitHub rate limit reached. Wait a minute and try again."
	case CategoryNetwork:
		return "Check your network connection and the API url."
	case CategoryServer:
		return "GitHub is having trouble. Try again later."
	case CategoryNotConfigured:
		return "Run 'gsv setup' to create a configuration."
	default:
		return ""
	}
}

func containsAny(err error, needles ...string) bool {
	errStr := strings.ToLower(err.Error())
	for _, n := range needles {
		if strings.Contains(errStr, n) {
			return true
		}
	}
	return false
}
