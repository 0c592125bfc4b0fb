// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package workflow validates n8n workflow documents before they are stored
// or sent to an n8n instance.
package workflow

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/altafpasha/n8n-dashboard/internal/model"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schemas/workflow.json
var workflowSchema []byte

// ErrInvalid is returned for documents that are not JSON or do not have the
// shape of an n8n workflow.
var ErrInvalid = errors.New("invalid workflow document")

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(workflowSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse workflow schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("workflow.json", doc); err != nil {
			compileErr = fmt.Errorf("add workflow schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile("workflow.json")
	})
	return compiled, compileErr
}

// Validate checks that data is a JSON object with a nodes array and a
// connections object. The returned error wraps ErrInvalid and names the
// offending locations.
func Validate(data []byte) error {
	s, err := schema()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: not valid JSON: %v", ErrInvalid, err)
	}
	if err := s.Validate(inst); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, describe(err))
	}
	return nil
}

// Parse validates data and decodes it.
func Parse(data []byte) (*model.Workflow, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var w model.Workflow
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &w, nil
}

// describe flattens a schema validation error into "path: message" pairs.
func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	p := message.NewPrinter(language.English)
	var parts []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := "/" + strings.Join(e.InstanceLocation, "/")
			parts = append(parts, fmt.Sprintf("%s: %s", loc, e.ErrorKind.LocalizedString(p)))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return strings.Join(parts, "; ")
}
