// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

// Command n8n-dashboard serves the template browser API and its
// administration commands.
//
// Usage:
//
//	go run . serve
//	./n8n-dashboard session create --user alice
//
// See --help for all commands.
package main

import (
	"os"

	"github.com/altafpasha/n8n-dashboard/internal/cli"
	"github.com/altafpasha/n8n-dashboard/internal/logging"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}
