// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned by New when the host or API key is empty.
	ErrNotConfigured = errors.New("n8n host and api key are required")
	// ErrInvalidToken maps an HTTP 401 from n8n.
	ErrInvalidToken = errors.New("invalid api token")
	// ErrEndpointNotFound maps an HTTP 404 from n8n, usually a wrong host URL.
	ErrEndpointNotFound = errors.New("n8n api endpoint not found")
)

// StatusError is any other non-2xx answer from n8n.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("n8n api error: %s", e.Status)
}

// ConnectivityError wraps transport failures, including timeouts.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("n8n %s: cannot connect: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// IsConnectivity reports whether err is a transport failure.
func IsConnectivity(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}
