package helpers

import (
	"errors"
	"fmt"
	"testing"
)

// -----------------------------------------------------------------------------

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUpstreamError("request to /commodities failed", cause)

	want := "request to /commodities failed: connection refused"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause must survive errors.Is")
	}
}

// -----------------------------------------------------------------------------

func TestErrorMessageWithoutCause(t *testing.T) {
	err := NewNotFoundError("no observations for Gold")
	if err.Error() != "no observations for Gold" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

// -----------------------------------------------------------------------------

func TestClassificationSurvivesWrapping(t *testing.T) {
	notFound := fmt.Errorf("query failed: %w", NewNotFoundError("nothing"))
	invalid := fmt.Errorf("rejected: %w", NewInvalidInputError("bad amount"))
	upstream := fmt.Errorf("cycle failed: %w", NewUpstreamError("api down", nil))

	if !IsNotFound(notFound) {
		t.Error("IsNotFound must see through wrapping")
	}
	if !IsInvalidInput(invalid) {
		t.Error("IsInvalidInput must see through wrapping")
	}
	if !IsUpstream(upstream) {
		t.Error("IsUpstream must see through wrapping")
	}
}

// -----------------------------------------------------------------------------

func TestClassificationIsExclusive(t *testing.T) {
	err := NewPersistenceError("disk full", nil)

	if IsNotFound(err) || IsInvalidInput(err) || IsUpstream(err) {
		t.Error("a persistence error must not match any other class")
	}
	if IsNotFound(nil) || IsInvalidInput(nil) || IsUpstream(nil) {
		t.Error("nil is never classified")
	}
}
