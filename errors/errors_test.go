package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorTransient, "transient"},
		{ErrorInvalid, "invalid"},
		{ErrorFatal, "fatal"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			result := test.class.String()
			if result != test.expected {
				t.Errorf("expected %s, got %s", test.expected, result)
			}
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"missing feature", ErrMissingFeature, true},
		{"non-numeric feature", ErrNonNumericFeature, true},
		{"wrapped missing feature", fmt.Errorf("field thal: %w", ErrMissingFeature), true},
		{"inference error", ErrInference, false},
		{"audit write error", ErrAuditWrite, false},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("test")}, true},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsInvalid(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"artifact not found", ErrArtifactNotFound, true},
		{"artifact corrupt", ErrArtifactCorrupt, true},
		{"schema mismatch", ErrSchemaMismatch, true},
		{"inference", ErrInference, true},
		{"invalid config", ErrInvalidConfig, true},
		{"missing feature", ErrMissingFeature, false},
		{"audit write", ErrAuditWrite, false},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, true},
		{"classified transient", &ClassifiedError{Class: ErrorTransient, Err: fmt.Errorf("test")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsFatal(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"audit write", ErrAuditWrite, true},
		{"wrapped audit write", fmt.Errorf("append: %w", ErrAuditWrite), true},
		{"missing feature", ErrMissingFeature, false},
		{"classified transient", &ClassifiedError{Class: ErrorTransient, Err: fmt.Errorf("test")}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsTransient(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"validation error", ErrMissingFeature, ErrorInvalid},
		{"inference error", ErrInference, ErrorFatal},
		{"audit error", ErrAuditWrite, ErrorTransient},
		{"unknown error", fmt.Errorf("something else"), ErrorTransient},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Classify(test.err); got != test.expected {
				t.Errorf("expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestWrapHelpers(t *testing.T) {
	base := fmt.Errorf("disk full")

	err := WrapTransient(base, "Logger", "Append", "write row")
	if !IsTransient(err) {
		t.Errorf("expected transient classification")
	}
	if !errors.Is(err, base) {
		t.Errorf("expected wrapped error to unwrap to base")
	}
	if !strings.Contains(err.Error(), "Logger.Append: write row failed") {
		t.Errorf("unexpected message: %s", err.Error())
	}

	if WrapInvalid(nil, "a", "b", "c") != nil {
		t.Errorf("wrapping nil should return nil")
	}

	var ce *ClassifiedError
	if !errors.As(WrapFatal(base, "Predictor", "Load", "decode artifact"), &ce) {
		t.Fatalf("expected ClassifiedError")
	}
	if ce.Component != "Predictor" || ce.Operation != "Load" {
		t.Errorf("unexpected context: %+v", ce)
	}
}
