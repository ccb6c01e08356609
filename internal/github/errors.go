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

package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	gsverrors "github.com/sirseerhq/gsv/internal/errors"
)

// ErrMalformedResponse is wrapped by a TransportError when a successful
// response does not carry a JSON body.
var ErrMalformedResponse = errors.New("malformed response body")

// ErrorKind classifies an HTTP failure reported by the API.
type ErrorKind int

const (
	// KindUnknown is any status >= 400 without a more specific kind.
	KindUnknown ErrorKind = iota
	// KindAuthentication is HTTP 401.
	KindAuthentication
	// KindForbidden is HTTP 403. GitHub also uses it for some rate-limit
	// responses; see APIError.IsRateLimited.
	KindForbidden
	// KindNotFound is HTTP 404.
	KindNotFound
	// KindRateLimited is reserved for callers that reclassify a Forbidden
	// or Unknown error after inspecting it. Classify never produces it.
	KindRateLimited
	// KindServerError is any 5xx status.
	KindServerError
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindRateLimited:
		return "rate limited"
	case KindServerError:
		return "server error"
	default:
		return "unknown"
	}
}

// APIError is returned when GitHub answers with a status code >= 400.
// Body is the raw response text; error bodies are not assumed to be JSON.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Body       string
	Header     http.Header
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := fmt.Sprintf("github API error: status %d (%s)", e.StatusCode, e.Kind)
	if m := e.Message(); m != "" {
		msg += ": " + m
	}
	return msg
}

// Message returns the "message" field of a JSON error body, or an empty
// string when the body is not a GitHub error document.
func (e *APIError) Message() string {
	var doc struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(e.Body), &doc); err != nil {
		return ""
	}
	return doc.Message
}

// IsRateLimited reports whether the failure looks like a rate limit.
// GitHub answers with 403 or 429 and either drains X-RateLimit-Remaining
// or mentions the limit in the body.
func (e *APIError) IsRateLimited() bool {
	switch {
	case e.Kind == KindRateLimited, e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode != http.StatusForbidden:
		return false
	case e.Header != nil && e.Header.Get("X-RateLimit-Remaining") == "0":
		return true
	default:
		return strings.Contains(strings.ToLower(e.Body), "rate limit")
	}
}

// Is lets errors.Is match an APIError against the sentinel errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case gsverrors.ErrRateLimit:
		return e.IsRateLimited()
	case gsverrors.ErrInvalidToken:
		return e.Kind == KindAuthentication
	case gsverrors.ErrForbidden:
		return e.Kind == KindForbidden && !e.IsRateLimited()
	case gsverrors.ErrNotFound:
		return e.Kind == KindNotFound
	case gsverrors.ErrServerError:
		return e.Kind == KindServerError
	}
	return false
}

// TransportError reports a failure below the HTTP status layer: the
// request could not be sent, the body could not be read, or a successful
// response carried something other than JSON.
type TransportError struct {
	Op  string
	URL string
	Err error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("github %s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports every TransportError as a network failure.
func (e *TransportError) Is(target error) bool {
	return target == gsverrors.ErrNetworkFailure
}

// PaginationAbortedError wraps a failure that happened after at least one
// page had been fetched. The pages collected so far were discarded.
type PaginationAbortedError struct {
	// Page is the 1-based number of the page that failed.
	Page int
	Err  error
}

// Error implements the error interface
func (e *PaginationAbortedError) Error() string {
	return fmt.Sprintf("pagination aborted at page %d, partial results discarded: %v", e.Page, e.Err)
}

// Unwrap returns the failure that aborted pagination.
func (e *PaginationAbortedError) Unwrap() error {
	return e.Err
}

// Classify returns nil for a response with a status below 400 and an
// *APIError describing the failure otherwise.
func Classify(resp *Response) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}
	return &APIError{
		Kind:       kindForStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Body:       string(resp.Body),
		Header:     resp.Header,
	}
}

func kindForStatus(code int) ErrorKind {
	switch {
	case code == http.StatusUnauthorized:
		return KindAuthentication
	case code == http.StatusForbidden:
		return KindForbidden
	case code == http.StatusNotFound:
		return KindNotFound
	case code >= 500 && code <= 599:
		return KindServerError
	default:
		return KindUnknown
	}
}
