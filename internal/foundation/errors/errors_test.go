package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "apidocgen.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}
		file, exists := err.Context().GetString("file")
		if !exists || file != "apidocgen.yaml" {
			t.Errorf("expected context file=apidocgen.yaml, got %v", file)
		}
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		err := fmt.Errorf("generate: %w", RenderError("render html").Build())

		if !IsClassified(err) {
			t.Error("expected wrapped error to be classified")
		}
		if !HasCategory(err, CategoryRender) {
			t.Error("expected render category")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected unclassified errors to report internal category")
		}
	})

	t.Run("Retry semantics", func(t *testing.T) {
		if !BundleError("bundle").Build().CanRetry() {
			t.Error("bundle failures should be retryable")
		}
		if RenderError("render").Build().CanRetry() {
			t.Error("render failures should not be retryable")
		}
		if ToolchainError("missing").Build().CanRetry() {
			t.Error("a missing toolchain needs user action")
		}
		if !ConfigError("bad").Build().IsFatal() {
			t.Error("config errors should be fatal")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	original := errors.New("connection refused")
	err := WrapError(original, CategoryBundle, "bundle failed").
		Warning().
		Retryable().
		WithContext("source", "http://localhost:8080/v3/api-docs").
		Build()

	if !errors.Is(err, original) {
		t.Error("expected wrapped cause to be reachable with errors.Is")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("expected warning severity, got %s", err.Severity())
	}
	if err.RetryStrategy() != RetryBackoff {
		t.Errorf("expected backoff retry, got %s", err.RetryStrategy())
	}
	want := "[bundle:warning] bundle failed: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWithContextDoesNotMutateOriginal(t *testing.T) {
	base := BundleError("bundle").WithContext("attempt", 1).Build()
	derived := base.WithContext("attempt", 2)

	if v, _ := base.Context().Get("attempt"); v != 1 {
		t.Errorf("base context mutated: %v", v)
	}
	if v, _ := derived.Context().Get("attempt"); v != 2 {
		t.Errorf("derived context = %v, want 2", v)
	}
}

func TestIsMatchesCategoryAndMessage(t *testing.T) {
	a := RenderError("render html").Build()
	b := RenderError("render html").WithCause(errors.New("x")).Build()
	c := BundleError("render html").Build()

	if !errors.Is(a, b) {
		t.Error("expected same category+message to match")
	}
	if errors.Is(a, c) {
		t.Error("expected different categories not to match")
	}
}

func TestErrorContextMerge(t *testing.T) {
	var nilCtx ErrorContext
	other := ErrorContext{"a": 1}
	if got := nilCtx.Merge(other); got["a"] != 1 {
		t.Errorf("merge into nil lost values: %v", got)
	}
	merged := ErrorContext{"a": 1, "b": 2}.Merge(ErrorContext{"b": 3})
	if merged["a"] != 1 || merged["b"] != 3 {
		t.Errorf("unexpected merge result: %v", merged)
	}
}
