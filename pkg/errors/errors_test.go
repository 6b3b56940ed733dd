// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, taxonomy constructors and predicates

package errors_test

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/settle/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "timer not found",
			wantStr: "[NOT_FOUND] timer not found",
		},
		{
			name:    "invalid_input_error",
			code:    errors.ErrInvalidInput,
			message: "invalid configuration",
			wantStr: "[INVALID_INPUT] invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrCommandExecute, "echo failed")

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[COMMAND_EXECUTE] echo failed: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		err := errors.Wrap(nil, errors.ErrCommandExecute, "echo failed")
		if err != nil {
			t.Error("Wrap(nil) should return nil")
		}
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrNotFound, "no timer").
		WithDetail("key", "typing:42").
		WithDetail("attempt", 2)

	if err.Details["key"] != "typing:42" {
		t.Errorf("WithDetail() key = %v", err.Details["key"])
	}
	if err.Details["attempt"] != 2 {
		t.Errorf("WithDetail() attempt = %v", err.Details["attempt"])
	}

	var zero errors.SettleError
	if zero.WithDetail("key", "x").Details["key"] != "x" {
		t.Error("WithDetail() should initialize missing details")
	}
}

func TestUnknown(t *testing.T) {
	err := errors.Unknown("a string panic")

	if err.Message != errors.UnknownErrorMessage {
		t.Errorf("Unknown() message = %q, want %q", err.Message, errors.UnknownErrorMessage)
	}
	if err.Details["value"] != "a string panic" {
		t.Errorf("Unknown() value detail = %v", err.Details["value"])
	}
	if !errors.IsUnknown(err) {
		t.Error("IsUnknown() should be true")
	}
}

func TestNormalize(t *testing.T) {
	domain := stderrors.New("disk full")

	t.Run("error_values_pass_through", func(t *testing.T) {
		if got := errors.Normalize(domain); got != domain {
			t.Errorf("Normalize() = %v, want the same error", got)
		}
	})

	t.Run("non_errors_become_unknown", func(t *testing.T) {
		for _, v := range []interface{}{"text", 42, struct{}{}, nil} {
			got := errors.Normalize(v)
			if !errors.IsUnknown(got) {
				t.Errorf("Normalize(%v) = %v, want unknown error", v, got)
			}
		}
	})
}

func TestAborted(t *testing.T) {
	t.Run("with_reason", func(t *testing.T) {
		err := errors.Aborted("user left")
		if got := err.Error(); got != "[ABORTED] operation aborted: user left" {
			t.Errorf("Error() = %q", got)
		}
		if errors.Reason(err) != "user left" {
			t.Errorf("Reason() = %q", errors.Reason(err))
		}
	})

	t.Run("without_reason", func(t *testing.T) {
		err := errors.Aborted("")
		if got := err.Error(); got != "[ABORTED] operation aborted" {
			t.Errorf("Error() = %q", got)
		}
		if errors.Reason(err) != "" {
			t.Errorf("Reason() = %q, want empty", errors.Reason(err))
		}
	})
}

func TestTimedOut(t *testing.T) {
	err := errors.TimedOut(20 * time.Millisecond)

	if !strings.Contains(err.Error(), "20ms") {
		t.Errorf("Error() = %q, want it to mention 20ms", err.Error())
	}
	if !errors.IsTimeout(err) {
		t.Error("IsTimeout() should be true")
	}
	if errors.IsAborted(err) {
		t.Error("IsAborted() should be false for a timeout")
	}
}

func TestCleanup(t *testing.T) {
	cause := stderrors.New("close failed")
	err := errors.Cleanup(cause, 2)

	if !errors.IsCleanup(err) {
		t.Error("IsCleanup() should be true")
	}
	if !stderrors.Is(err, cause) {
		t.Error("cleanup error should wrap its cause")
	}
	if err.Details["index"] != 2 {
		t.Errorf("index detail = %v, want 2", err.Details["index"])
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrNotFound, "error 1")
	err2 := errors.New(errors.ErrNotFound, "error 2")
	err3 := errors.New(errors.ErrClosed, "error 3")

	t.Run("same_code_is_equal", func(t *testing.T) {
		if !err1.Is(err2) {
			t.Error("Is() should return true for same code")
		}
	})

	t.Run("different_code_not_equal", func(t *testing.T) {
		if err1.Is(err3) {
			t.Error("Is() should return false for different codes")
		}
	})

	t.Run("works_with_errors_Is", func(t *testing.T) {
		if !stderrors.Is(errors.Aborted("x"), errors.Aborted("")) {
			t.Error("errors.Is() should match abort errors by code")
		}
	})
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{
			name:     "matching_code",
			err:      errors.New(errors.ErrNotFound, "not found"),
			code:     errors.ErrNotFound,
			expected: true,
		},
		{
			name:     "different_code",
			err:      errors.New(errors.ErrNotFound, "not found"),
			code:     errors.ErrClosed,
			expected: false,
		},
		{
			name:     "wrapped_error",
			err:      errors.Wrap(stderrors.New("base"), errors.ErrConfigLoad, "denied"),
			code:     errors.ErrConfigLoad,
			expected: true,
		},
		{
			name:     "non_settle_error",
			err:      stderrors.New("standard error"),
			code:     errors.ErrNotFound,
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			code:     errors.ErrNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected errors.ErrorCode
	}{
		{
			name:     "settle_error",
			err:      errors.TimedOut(time.Second),
			expected: errors.ErrTimeout,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			expected: errors.ErrUnknown,
		},
		{
			name:     "nil_error",
			err:      nil,
			expected: errors.ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	cleanupErr := errors.Cleanup(rootCause, 0)
	configErr := errors.Wrap(cleanupErr, errors.ErrConfigLoad, "failed to load config")

	t.Run("top_level_has_correct_code", func(t *testing.T) {
		if !errors.IsErrorCode(configErr, errors.ErrConfigLoad) {
			t.Error("Top level should have ErrConfigLoad code")
		}
	})

	t.Run("can_find_middle_error", func(t *testing.T) {
		var settleErr *errors.SettleError
		if stderrors.As(configErr.Unwrap(), &settleErr) {
			if !errors.IsErrorCode(settleErr, errors.ErrCleanup) {
				t.Error("Middle error should have ErrCleanup code")
			}
		}
	})

	t.Run("can_find_root_cause", func(t *testing.T) {
		if !stderrors.Is(configErr, rootCause) {
			t.Error("Should find root cause with errors.Is")
		}
	})
}
