// Package errors provides the structured error types used across launchdeck.
//
// Sentinel errors describe the condition; the wrapped types add the context a
// caller needs to render a user-visible message (which step failed, which
// workflow, which config file).
//
// # Error Types
//
// Base errors (sentinel errors):
//   - ErrDataNotReady - the app/workflow snapshot has not been loaded yet
//   - ErrAppNotFound - the resolver exhausted every pass
//   - ErrWorkflowNotFound - workflow name lookup missed
//   - ErrLaunchFailed - the launcher reported failure or returned an error
//   - ErrNotFound - generic missing resource
//   - ErrAlreadyExists - duplicate resource
//   - ErrInvalid - validation failed
//   - ErrIO - file I/O error
//   - ErrCanceled - the caller canceled an operation
//
// Wrapped error types:
//   - LaunchError{Step, StepName, App, Err} - a workflow step failed to launch
//   - WorkflowError{Op, Err, Name} - workflow operation errors
//   - ConfigError{Path, Err} - configuration errors
//
// # Usage
//
//	if errors.IsDataNotReady(err) {
//	    // retry after the next snapshot
//	}
//
//	if le, ok := errors.AsLaunchError(err); ok {
//	    fmt.Printf("step %d (%s) failed\n", le.Step+1, le.App)
//	}
package errors

import (
	"errors"
	"fmt"
)

// Base error types (sentinel errors).
var (
	// ErrDataNotReady indicates the apps/workflows snapshot is not loaded yet.
	ErrDataNotReady = baseError("data not ready")

	// ErrAppNotFound indicates no app matched a query.
	ErrAppNotFound = baseError("app not found")

	// ErrWorkflowNotFound indicates no workflow matched a name.
	ErrWorkflowNotFound = baseError("workflow not found")

	// ErrLaunchFailed indicates a launch call reported failure.
	ErrLaunchFailed = baseError("launch failed")

	// ErrNotFound indicates a resource was not found.
	ErrNotFound = baseError("not found")

	// ErrAlreadyExists indicates a duplicate resource.
	ErrAlreadyExists = baseError("already exists")

	// ErrInvalid indicates validation failed.
	ErrInvalid = baseError("invalid")

	// ErrIO indicates a file I/O error.
	ErrIO = baseError("I/O error")

	// ErrCanceled indicates the caller canceled an operation.
	ErrCanceled = baseError("canceled")
)

// baseError is a string that implements error.
type baseError string

func (e baseError) Error() string { return string(e) }

// LaunchError reports the workflow step whose launch failed.
// Steps before it have already been launched and stay open.
type LaunchError struct {
	// Step is the zero-based index of the failed step.
	Step int
	// StepName is the step's display name (optional).
	StepName string
	// App is the name of the app the step tried to open.
	App string
	// Err is the underlying cause. It always wraps ErrLaunchFailed.
	Err error
}

func (e *LaunchError) Error() string {
	if e.StepName != "" && e.StepName != e.App {
		return fmt.Sprintf("step %d %q (%s): %s", e.Step+1, e.StepName, e.App, e.Err)
	}
	return fmt.Sprintf("step %d (%s): %s", e.Step+1, e.App, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// WorkflowError represents an error that occurred during a workflow operation.
type WorkflowError struct {
	// Op is the operation being performed (e.g., "load", "run", "delete").
	Op string
	// Err is the underlying error.
	Err error
	// Name is the workflow name (optional).
	Name string
}

func (e *WorkflowError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("workflow %s %q: %s", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("workflow %s: %s", e.Op, e.Err)
}

func (e *WorkflowError) Unwrap() error { return e.Err }

// ConfigError represents an error related to configuration.
type ConfigError struct {
	// Path is the configuration file path (optional).
	Path string
	// Err is the underlying error.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %s", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Wrap adds context to an error by wrapping it with an operation name.
// The returned error implements Unwrap() allowing errors.Is and errors.As
// to work with the wrapped error. Wrap returns nil for a nil error.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{op: op, err: err}
}

// wrappedError is an error with an operation context.
type wrappedError struct {
	op  string
	err error
}

func (e *wrappedError) Error() string { return fmt.Sprintf("%s: %s", e.op, e.err) }
func (e *wrappedError) Unwrap() error { return e.err }

// IsDataNotReady reports whether err is or wraps ErrDataNotReady.
func IsDataNotReady(err error) bool {
	return errors.Is(err, ErrDataNotReady)
}

// IsAppNotFound reports whether err is or wraps ErrAppNotFound.
func IsAppNotFound(err error) bool {
	return errors.Is(err, ErrAppNotFound)
}

// IsWorkflowNotFound reports whether err is or wraps ErrWorkflowNotFound.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsLaunchFailed reports whether err is or wraps ErrLaunchFailed.
func IsLaunchFailed(err error) bool {
	return errors.Is(err, ErrLaunchFailed)
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists reports whether err is or wraps ErrAlreadyExists.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInvalid reports whether err is or wraps ErrInvalid.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

// IsIO reports whether err is or wraps ErrIO.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsCanceled reports whether err is or wraps ErrCanceled.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

func as[T error](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}

// AsLaunchError returns the *LaunchError in err's chain, if any.
func AsLaunchError(err error) (*LaunchError, bool) { return as[*LaunchError](err) }

// AsWorkflowError returns the *WorkflowError in err's chain, if any.
func AsWorkflowError(err error) (*WorkflowError, bool) { return as[*WorkflowError](err) }

// AsConfigError returns the *ConfigError in err's chain, if any.
func AsConfigError(err error) (*ConfigError, bool) { return as[*ConfigError](err) }
