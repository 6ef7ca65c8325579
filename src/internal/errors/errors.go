package errors

import (
	"context"
	"fmt"
	"strings"
)

// AttachConfigMessage is the fixed message for attach requests that carry no
// connection target. Callers surface it verbatim.
const AttachConfigMessage = `"request":"attach" requires either "connect", "listen", or "processId"`

// NoInterpreterMessage is the fixed rejection message when the interpreter
// resolution chain is exhausted.
const NoInterpreterMessage = "Debug Adapter Executable not provided"

// VersionParseError indicates a folder or package file name that does not match
// the expected version-encoding pattern. Entries producing it are skipped, the
// error is never surfaced to the user.
type VersionParseError struct {
	Name  string `json:"name"`
	Cause error  `json:"cause,omitempty"`
}

func (e *VersionParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot parse version from %q: %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("cannot parse version from %q", e.Name)
}

func (e *VersionParseError) Unwrap() error {
	return e.Cause
}

// RemoteFeedError indicates a network or parse failure while querying a remote
// package feed. The folder service recovers by falling back to the local version.
type RemoteFeedError struct {
	Feed  string `json:"feed"`
	Cause error  `json:"cause,omitempty"`
}

func (e *RemoteFeedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("remote feed %s failed: %v", e.Feed, e.Cause)
	}
	return fmt.Sprintf("remote feed %s failed", e.Feed)
}

func (e *RemoteFeedError) Unwrap() error {
	return e.Cause
}

// DebugConfigurationError indicates a debug configuration that cannot produce a
// descriptor. Propagated to the caller and surfaced as an error dialog.
type DebugConfigurationError struct {
	Message string `json:"message"`
}

func (e *DebugConfigurationError) Error() string {
	return e.Message
}

// NoInterpreterError indicates the interpreter resolution chain found nothing.
// The debug session launch aborts and the user is shown an error dialog.
type NoInterpreterError struct {
	Message string `json:"message"`
}

func (e *NoInterpreterError) Error() string {
	return e.Message
}

// Error constructors

// NewVersionParseError creates a version parse error for the given entry name
func NewVersionParseError(name string, cause error) *VersionParseError {
	return &VersionParseError{Name: name, Cause: cause}
}

// NewRemoteFeedError creates a remote feed error carrying the underlying cause
func NewRemoteFeedError(feed string, cause error) *RemoteFeedError {
	return &RemoteFeedError{Feed: feed, Cause: cause}
}

// NewAttachConfigError creates the fixed error for attach requests missing all
// of port/connect/listen/processId
func NewAttachConfigError() *DebugConfigurationError {
	return &DebugConfigurationError{Message: AttachConfigMessage}
}

// NewNoInterpreterError creates the fixed error for an exhausted interpreter
// resolution chain
func NewNoInterpreterError() *NoInterpreterError {
	return &NoInterpreterError{Message: NoInterpreterMessage}
}

// Error classification functions

// IsVersionParseError checks if the error is a version parse error
func IsVersionParseError(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(*VersionParseError); ok {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "cannot parse version") ||
		strings.Contains(errMsg, "invalid semantic version")
}

// IsRemoteFeedError checks if the error is a remote feed error
func IsRemoteFeedError(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(*RemoteFeedError); ok {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "remote feed") ||
		strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "unreachable") ||
		strings.Contains(errMsg, "unexpected status")
}

// IsDebugConfigurationError checks if the error is a debug configuration error
func IsDebugConfigurationError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DebugConfigurationError)
	return ok
}

// IsNoInterpreterError checks if the error indicates no usable interpreter
func IsNoInterpreterError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*NoInterpreterError)
	return ok
}

// IsTimeoutError checks if the error is a timeout error
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if err == context.DeadlineExceeded {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "deadline exceeded")
}

// Error wrapping utilities

// WrapWithContext wraps an error with operation context
func WrapWithContext(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", operation, err)
}

// WrapRemoteFeedError wraps an error as a remote feed error for a specific feed
func WrapRemoteFeedError(feed string, err error) error {
	if err == nil {
		return nil
	}
	return NewRemoteFeedError(feed, err)
}
