package vectorace

import (
	"errors"
	"testing"
)

func TestNewErrorFormatsMessage(t *testing.T) {
	err := newError(CodeInvalidParameter, "bad value %d", 7)
	if err.Code != CodeInvalidParameter {
		t.Fatalf("expected CodeInvalidParameter, got %v", err.Code)
	}
	if err.Error() == "" {
		t.Fatal("expected a non-empty error message")
	}
}

func TestWrapErrorUnwraps(t *testing.T) {
	inner := errors.New("boom")
	wrapped := wrapError(CodeAlgorithmFailure, inner, "stage failed")
	if !errors.Is(wrapped, inner) {
		t.Fatal("expected wrapped error to unwrap to the inner error")
	}
}

func TestAsErrorRejectsForeignErrors(t *testing.T) {
	_, ok := AsError(errors.New("not a vectorace error"))
	if ok {
		t.Fatal("expected AsError to reject a plain error")
	}
}

func TestCodeStringCoversAllValues(t *testing.T) {
	codes := []Code{CodeInvalidDimensions, CodeInsufficientData, CodeInvalidParameter, CodeAlgorithmFailure, CodeCancelled}
	for _, c := range codes {
		if c.String() == "Unknown" {
			t.Fatalf("code %d stringified to Unknown", c)
		}
	}
}
