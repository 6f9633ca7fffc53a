package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/ITKKhan/HorrorWatchBot/internal/errors"
)

func TestIsKind(t *testing.T) {
	err := errors.NotFound("no schedule found")

	if !errors.IsKind(err, errors.ErrNotFound) {
		t.Error("expected ErrNotFound kind to match")
	}
	if errors.IsKind(err, errors.ErrTimeout) {
		t.Error("expected ErrTimeout kind not to match")
	}
	if errors.IsKind(nil, errors.ErrNotFound) {
		t.Error("expected nil not to match any kind")
	}
	if errors.IsKind(stderrors.New("plain"), errors.ErrNotFound) {
		t.Error("expected a plain error not to match")
	}
}

func TestIsKindThroughWrapping(t *testing.T) {
	inner := errors.Timeout("no reply received in time")
	wrapped := fmt.Errorf("running flow: %w", inner)

	if !errors.IsKind(wrapped, errors.ErrTimeout) {
		t.Error("expected kind to match through fmt.Errorf wrapping")
	}
}

func TestPersistenceCarriesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := errors.Persistence("saving schedule", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected the cause to be reachable via errors.Is")
	}
	if err.Error() != "saving schedule: disk full" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestErrorMessageWithoutCause(t *testing.T) {
	err := errors.Conflictf("%s (%s) is already in %s", "Alien", "1979", "Horror")
	if err.Error() != "Alien (1979) is already in Horror" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Error("expected no underlying error")
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := errors.Wrap(cause, errors.ErrPersistence, "loading library")

	if !errors.IsKind(err, errors.ErrPersistence) {
		t.Error("expected wrapped kind to match")
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected the cause to be reachable")
	}
}
