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

// Package main implements the gsv command-line interface, a terminal
// client for GitHub code search.
//
// Usage:
//
//	gsv [flags] <terms...>
//	gsv search [flags] <terms...>
//	gsv setup
//	gsv version
//
// The first run of `gsv setup` asks for a personal access token, checks it
// against GitHub, lets you choose the organizations searched by default
// and writes ~/.gsvrc.
//
// Example:
//
//	gsv setup
//	gsv 'func main' language:go
//	gsv -l --org kubernetes TODO
//	gsv --format ndjson widget > matches.ndjson
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication, authorization, not found or rate limit error
//   - 3: Network error
package main
