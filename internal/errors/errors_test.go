package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestMenuError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *MenuError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestMenuError_WithContext(t *testing.T) {
	err := RetrievalError("store unreachable").
		WithContext("url", "https://store.example.com").
		WithContext("status", 503)

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}
	if err.Context["url"] != "https://store.example.com" {
		t.Errorf("Context[url] = %v, want store URL", err.Context["url"])
	}
	if err.Context["status"] != 503 {
		t.Errorf("Context[status] = %v, want 503", err.Context["status"])
	}
}

func TestIsCategory(t *testing.T) {
	retrievalErr := RetrievalError("timeout")
	parseErr := ParseError("no declaration")
	standardErr := fmt.Errorf("standard error")
	wrappedErr := fmt.Errorf("outer: %w", parseErr)

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		want     bool
	}{
		{"matching category", retrievalErr, CategoryRetrieval, true},
		{"non-matching category", retrievalErr, CategoryParse, false},
		{"standard error", standardErr, CategoryRetrieval, false},
		{"wrapped structured error", wrappedErr, CategoryParse, true},
		{"nil error", nil, CategoryRetrieval, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsCategory(test.err, test.category); got != test.want {
				t.Errorf("IsCategory() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(RetrievalError("connection reset")) {
		t.Error("retrieval errors should be retryable")
	}
	for _, err := range []error{
		ParseError("bad shape"),
		ValidationError("no navigation"),
		CacheCorruptionError("bad entry"),
		ConfigError("bad duration"),
		fmt.Errorf("plain"),
		nil,
	} {
		if IsRetryable(err) {
			t.Errorf("IsRetryable(%v) = true, want false", err)
		}
	}
}

func TestWithRetryable(t *testing.T) {
	if !IsRetryable(Wrap(fmt.Errorf("refused"), CategoryRetrieval, SeverityWarning, "dial failed").WithRetryable(true)) {
		t.Error("WithRetryable(true) should mark a wrapped error retryable")
	}
	if IsRetryable(RetrievalError("moved").WithRetryable(false)) {
		t.Error("WithRetryable(false) should override the constructor default")
	}
}

func TestCategoryShorthands(t *testing.T) {
	if !IsRetrieval(RetrievalError("x")) || IsRetrieval(ParseError("x")) {
		t.Error("IsRetrieval misclassified")
	}
	if !IsParse(ParseError("x")) || IsParse(ValidationError("x")) {
		t.Error("IsParse misclassified")
	}
	if !IsValidation(ValidationError("x")) || IsValidation(RetrievalError("x")) {
		t.Error("IsValidation misclassified")
	}
}

func TestGetCategory(t *testing.T) {
	if got := GetCategory(ParseError("x")); got != CategoryParse {
		t.Errorf("GetCategory() = %v, want parse", got)
	}
	if got := GetCategory(fmt.Errorf("plain")); got != CategoryInternal {
		t.Errorf("GetCategory() = %v, want internal for foreign errors", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(cause, CategoryCache, SeverityWarning, "read failed")
	if !stdErrors.Is(err, cause) {
		t.Error("wrapped cause should satisfy errors.Is")
	}
}
