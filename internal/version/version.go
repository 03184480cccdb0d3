/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package version exposes the application version for logging, crash
// reports, and the CLI banner.
package version

// Version is the semantic version; overridable at build time via
// -ldflags "-X goscreenwriter/internal/version.Version=...".
var Version = "0.3.0"

// Channel distinguishes development builds from releases.
var Channel = "dev"

// String returns the human-readable version, e.g. "0.3.0-dev".
func String() string {
	if Channel == "" {
		return Version
	}
	return Version + "-" + Channel
}
