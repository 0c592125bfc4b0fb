// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package buildvars contains variables injected at build time.
package buildvars

// Set at link time, e.g.
// -ldflags "-X github.com/altafpasha/n8n-dashboard/buildvars.Version=1.2.3".
// They are empty for local builds.
var (
	Version   string
	GitCommit string
	BuildDate string
)

// VersionOrDefault returns Version if set, otherwise def.
func VersionOrDefault(def string) string {
	if len(Version) > 0 {
		return Version
	}
	return def
}
