/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// screenwriterd is the thin sync service: it stores shared screenplay
// documents and their pushed revisions in Postgres and serves them to the
// desktop tooling over HTTP.
package main

import (
	"fmt"
	"os"

	"goscreenwriter/internal/backend"
	applog "goscreenwriter/internal/log"
	"goscreenwriter/internal/version"
)

func main() {
	applog.Init(applog.FromEnv())

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			fmt.Println("screenwriterd", version.String())
			return
		}
	}

	if err := backend.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
