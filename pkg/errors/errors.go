package errors

import (
	"fmt"
)

// ParseError represents a decoding failure (config file, cache artifact or
// design metadata) with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConfigLoadError reports a config file that exists but could not be used.
// Callers warn and keep the defaults.
type ConfigLoadError struct {
	Path string
	Err  error
}

// NewConfigLoadError constructs a ConfigLoadError.
func NewConfigLoadError(path string, err error) error {
	return &ConfigLoadError{Path: path, Err: err}
}

func (e *ConfigLoadError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("config load error: %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying error.
func (e *ConfigLoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// SourceError indicates the design source could not produce any rectangles
// for a node.
type SourceError struct {
	Source string
	NodeID string
	Err    error
}

// NewSourceError constructs a SourceError for the named source.
func NewSourceError(source, nodeID string, err error) error {
	return &SourceError{Source: source, NodeID: nodeID, Err: err}
}

func (e *SourceError) Error() string {
	if e == nil {
		return ""
	}
	if e.NodeID != "" {
		return fmt.Sprintf("source error [%s] node %s: %v", e.Source, e.NodeID, e.Err)
	}
	return fmt.Sprintf("source error [%s]: %v", e.Source, e.Err)
}

// Unwrap exposes the underlying error.
func (e *SourceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RenderError represents a failure while driving the browser against the
// live page. Op names the stage that failed (launch, navigate, wait, measure).
type RenderError struct {
	Op       string
	URL      string
	Selector string
	Err      error
}

// NewRenderError constructs a RenderError.
func NewRenderError(op, url, selector string, err error) error {
	return &RenderError{Op: op, URL: url, Selector: selector, Err: err}
}

func (e *RenderError) Error() string {
	if e == nil {
		return ""
	}
	if e.Selector != "" {
		return fmt.Sprintf("render error: %s %s (selector %q): %v", e.Op, e.URL, e.Selector, e.Err)
	}
	return fmt.Sprintf("render error: %s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap exposes the root error.
func (e *RenderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
