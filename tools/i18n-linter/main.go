// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks that every message ID passed to i18n.T exists in the
// primary locale, that every other locale carries the same IDs, and lists
// IDs no code refers to.
//
// Usage:
//
//	go run ./tools/i18n-linter [-root .] [-locales internal/i18n/locales]
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const primaryLocale = "active.en.yaml"

var (
	// i18n.T("engine.api_error", ...)
	callRe = regexp.MustCompile(`i18n\.T\("([^"]+)"`)
	// Any literal shaped like a message ID, e.g. fallbacks handed to helpers.
	literalRe = regexp.MustCompile(`"([a-z]+\.[a-z_]+)"`)
)

// Report is the outcome of one lint run.
type Report struct {
	// Undefined IDs are called through i18n.T but absent from the primary
	// locale, keyed by ID with the first call site.
	Undefined map[string]string
	// Missing lists, per secondary locale file, the primary IDs it lacks.
	Missing map[string][]string
	// Orphaned IDs are in the primary locale but referenced nowhere.
	Orphaned []string
}

// Failed reports whether the run found errors. Orphans are warnings only.
func (r Report) Failed() bool {
	if len(r.Undefined) > 0 {
		return true
	}
	for _, keys := range r.Missing {
		if len(keys) > 0 {
			return true
		}
	}
	return false
}

func main() {
	root := flag.String("root", ".", "module root to scan")
	locales := flag.String("locales", "internal/i18n/locales", "locale directory")
	flag.Parse()

	rep, err := lint(*root, *locales)
	if err != nil {
		fmt.Fprintf(os.Stderr, "i18n-linter: %v\n", err)
		os.Exit(1)
	}
	writeReport(os.Stdout, rep)
	if rep.Failed() {
		os.Exit(1)
	}
}

func lint(root, localesDir string) (Report, error) {
	rep := Report{Undefined: map[string]string{}, Missing: map[string][]string{}}

	called, referenced, err := scanSources(root)
	if err != nil {
		return rep, err
	}
	primary, err := loadKeysFromLocale(filepath.Join(localesDir, primaryLocale))
	if err != nil {
		return rep, fmt.Errorf("load primary locale: %w", err)
	}

	for id, site := range called {
		if _, ok := primary[id]; !ok {
			rep.Undefined[id] = site
		}
	}
	for id := range primary {
		_, c := called[id]
		_, r := referenced[id]
		if !c && !r {
			rep.Orphaned = append(rep.Orphaned, id)
		}
	}
	slices.Sort(rep.Orphaned)

	files, err := filepath.Glob(filepath.Join(localesDir, "*.yaml"))
	if err != nil {
		return rep, err
	}
	for _, f := range files {
		if filepath.Base(f) == primaryLocale {
			continue
		}
		keys, err := loadKeysFromLocale(f)
		if err != nil {
			return rep, fmt.Errorf("load %s: %w", f, err)
		}
		var missing []string
		for id := range primary {
			if _, ok := keys[id]; !ok {
				missing = append(missing, id)
			}
		}
		slices.Sort(missing)
		rep.Missing[filepath.Base(f)] = missing
	}
	return rep, nil
}

// scanSources walks the non-test Go files under root, skipping tools/ and
// underscore or dot directories.
func scanSources(root string) (called map[string]string, referenced map[string]struct{}, err error) {
	called = map[string]string{}
	referenced = map[string]struct{}{}
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "tools" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for i, line := range strings.Split(string(content), "\n") {
			for _, m := range callRe.FindAllStringSubmatch(line, -1) {
				if _, seen := called[m[1]]; !seen {
					called[m[1]] = fmt.Sprintf("%s:%d", path, i+1)
				}
			}
			for _, m := range literalRe.FindAllStringSubmatch(line, -1) {
				referenced[m[1]] = struct{}{}
			}
		}
		return nil
	})
	return called, referenced, err
}

// loadKeysFromLocale returns the message IDs of a locale file. Nested maps
// are flattened with dots, so "a: {b: x}" and "a.b: x" give the same ID.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	keys := map[string]struct{}{}
	flattenYAML("", data, keys)
	return keys, nil
}

func flattenYAML(prefix string, node any, keys map[string]struct{}) {
	m, ok := node.(map[string]any)
	if !ok {
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
		return
	}
	for k, v := range m {
		if prefix != "" {
			k = prefix + "." + k
		}
		flattenYAML(k, v, keys)
	}
}

func writeReport(w io.Writer, rep Report) {
	ids := make([]string, 0, len(rep.Undefined))
	for id := range rep.Undefined {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "undefined: %s (%s)\n", id, rep.Undefined[id])
	}

	files := make([]string, 0, len(rep.Missing))
	for f := range rep.Missing {
		files = append(files, f)
	}
	slices.Sort(files)
	for _, f := range files {
		for _, id := range rep.Missing[f] {
			fmt.Fprintf(w, "missing in %s: %s\n", f, id)
		}
	}
	for _, id := range rep.Orphaned {
		fmt.Fprintf(w, "orphaned: %s\n", id)
	}
	if !rep.Failed() {
		fmt.Fprintln(w, "locales are consistent")
	}
}
