// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is returned when a required input is empty.
	ErrMissingField = errors.New("required field missing")
	// ErrNotJSONFile rejects uploads whose name does not end in .json.
	ErrNotJSONFile = errors.New("only .json files are allowed")
)

func missing(fields ...string) error {
	return fmt.Errorf("%w: %v", ErrMissingField, fields)
}
