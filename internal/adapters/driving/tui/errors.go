// Package tui provides an interactive terminal interface for asking
// questions against the local index, built on the Elm architecture.
package tui

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("tui: query service is required")
