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

// Package giterror decides what kind of failure an error from the GitHub
// client represents. The CLI uses it to pick exit codes and user hints.
// Typed errors from internal/github are matched through errors.Is against
// the sentinels in internal/errors; anything else falls back to inspecting
// the error text.
package giterror
