package errors_test

import (
	"errors"
	"fmt"
	"testing"

	deckerrors "github.com/chazuruo/launchdeck/internal/errors"
)

// TestBaseErrors verifies that all base error types have correct messages.
func TestBaseErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrDataNotReady", deckerrors.ErrDataNotReady, "data not ready"},
		{"ErrAppNotFound", deckerrors.ErrAppNotFound, "app not found"},
		{"ErrWorkflowNotFound", deckerrors.ErrWorkflowNotFound, "workflow not found"},
		{"ErrLaunchFailed", deckerrors.ErrLaunchFailed, "launch failed"},
		{"ErrNotFound", deckerrors.ErrNotFound, "not found"},
		{"ErrAlreadyExists", deckerrors.ErrAlreadyExists, "already exists"},
		{"ErrInvalid", deckerrors.ErrInvalid, "invalid"},
		{"ErrIO", deckerrors.ErrIO, "I/O error"},
		{"ErrCanceled", deckerrors.ErrCanceled, "canceled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestLaunchError verifies LaunchError formatting and unwrapping.
func TestLaunchError(t *testing.T) {
	tests := []struct {
		name string
		err  *deckerrors.LaunchError
		want string
	}{
		{
			name: "app only",
			err:  &deckerrors.LaunchError{Step: 0, App: "Slack", Err: deckerrors.ErrLaunchFailed},
			want: "step 1 (Slack): launch failed",
		},
		{
			name: "step name differs from app",
			err:  &deckerrors.LaunchError{Step: 2, StepName: "Chat", App: "Slack", Err: deckerrors.ErrLaunchFailed},
			want: `step 3 "Chat" (Slack): launch failed`,
		},
		{
			name: "step name equals app",
			err:  &deckerrors.LaunchError{Step: 1, StepName: "Slack", App: "Slack", Err: deckerrors.ErrLaunchFailed},
			want: "step 2 (Slack): launch failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("wraps launch failure", func(t *testing.T) {
		cause := fmt.Errorf("%w: exit status 1", deckerrors.ErrLaunchFailed)
		err := deckerrors.Wrap(&deckerrors.LaunchError{Step: 0, App: "A", Err: cause}, "run")
		if !deckerrors.IsLaunchFailed(err) {
			t.Error("IsLaunchFailed(wrapped LaunchError) = false, want true")
		}
		le, ok := deckerrors.AsLaunchError(err)
		if !ok {
			t.Fatal("AsLaunchError(wrapped) = false, want true")
		}
		if le.App != "A" {
			t.Errorf("AsLaunchError returned App=%q, want 'A'", le.App)
		}
	})
}

// TestWorkflowError verifies WorkflowError formatting and unwrapping.
func TestWorkflowError(t *testing.T) {
	tests := []struct {
		name string
		err  *deckerrors.WorkflowError
		want string
	}{
		{
			name: "with name",
			err:  &deckerrors.WorkflowError{Op: "load", Err: deckerrors.ErrWorkflowNotFound, Name: "morning"},
			want: `workflow load "morning": workflow not found`,
		},
		{
			name: "without name",
			err:  &deckerrors.WorkflowError{Op: "run", Err: deckerrors.ErrInvalid},
			want: "workflow run: invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("Unwrap returns original error", func(t *testing.T) {
		wrapped := &deckerrors.WorkflowError{Op: "load", Err: deckerrors.ErrWorkflowNotFound}
		if !deckerrors.IsWorkflowNotFound(wrapped) {
			t.Error("IsWorkflowNotFound(WorkflowError) = false, want true")
		}
	})
}

// TestConfigError verifies ConfigError formatting and unwrapping.
func TestConfigError(t *testing.T) {
	withPath := &deckerrors.ConfigError{Path: "/etc/launchdeck.toml", Err: deckerrors.ErrInvalid}
	if got := withPath.Error(); got != "config /etc/launchdeck.toml: invalid" {
		t.Errorf("Error() = %q", got)
	}

	withoutPath := &deckerrors.ConfigError{Err: deckerrors.ErrNotFound}
	if got := withoutPath.Error(); got != "config: not found" {
		t.Errorf("Error() = %q", got)
	}

	if _, ok := deckerrors.AsConfigError(deckerrors.Wrap(withPath, "load")); !ok {
		t.Error("AsConfigError(wrapped) = false, want true")
	}
	if _, ok := deckerrors.AsConfigError(deckerrors.ErrInvalid); ok {
		t.Error("AsConfigError(ErrInvalid) = true, want false")
	}
}

// TestWrap verifies the Wrap helper function.
func TestWrap(t *testing.T) {
	wrapped := deckerrors.Wrap(deckerrors.ErrDataNotReady, "classify")

	if got := wrapped.Error(); got != "classify: data not ready" {
		t.Errorf("Error() = %q, want 'classify: data not ready'", got)
	}
	if !errors.Is(wrapped, deckerrors.ErrDataNotReady) {
		t.Error("Wrap() did not preserve the original error for errors.Is")
	}
	if deckerrors.Wrap(nil, "noop") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	layered := deckerrors.Wrap(deckerrors.Wrap(wrapped, "layer2"), "layer3")
	if got := layered.Error(); got != "layer3: layer2: classify: data not ready" {
		t.Errorf("Chained error message = %q", got)
	}
}

// TestIsHelpers verifies the Is<TYPE>() helper functions.
func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name    string
		baseErr error
		isFunc  func(error) bool
	}{
		{"IsDataNotReady", deckerrors.ErrDataNotReady, deckerrors.IsDataNotReady},
		{"IsAppNotFound", deckerrors.ErrAppNotFound, deckerrors.IsAppNotFound},
		{"IsWorkflowNotFound", deckerrors.ErrWorkflowNotFound, deckerrors.IsWorkflowNotFound},
		{"IsLaunchFailed", deckerrors.ErrLaunchFailed, deckerrors.IsLaunchFailed},
		{"IsNotFound", deckerrors.ErrNotFound, deckerrors.IsNotFound},
		{"IsAlreadyExists", deckerrors.ErrAlreadyExists, deckerrors.IsAlreadyExists},
		{"IsInvalid", deckerrors.ErrInvalid, deckerrors.IsInvalid},
		{"IsIO", deckerrors.ErrIO, deckerrors.IsIO},
		{"IsCanceled", deckerrors.ErrCanceled, deckerrors.IsCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.isFunc(tt.baseErr) {
				t.Errorf("%s(%v) = false, want true", tt.name, tt.baseErr)
			}
			if !tt.isFunc(fmt.Errorf("outer: %w", tt.baseErr)) {
				t.Errorf("%s(wrapped) = false, want true", tt.name)
			}
		})
	}

	if deckerrors.IsAppNotFound(deckerrors.ErrNotFound) {
		t.Error("IsAppNotFound(ErrNotFound) = true, want false")
	}
}
