package serrors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"watcher/pkg/serrors"

	"github.com/stretchr/testify/require"
)

type customError struct{ msg string }

func (e customError) Error() string { return e.msg }

func TestKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrFetch,
		serrors.ErrTimeout,
		serrors.ErrNotify,
		serrors.ErrPersistence,
		serrors.ErrBadRequest,
		serrors.ErrInternal,
	}

	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}

	require.NotEqual(t, serrors.ErrFetch, serrors.ErrPersistence)
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("disk full")

	e1 := serrors.With(serrors.ErrFetch, "status %d", 503)
	require.Equal(t, "status 503", e1.Error(), "With() Error() mismatch")

	e2 := serrors.Wrap(serrors.ErrPersistence, base, "could not write registry")
	require.Equal(t, "could not write registry: disk full", e2.Error(), "Wrap() Error() mismatch")

	e3 := serrors.Wrap(serrors.ErrNotify, base, "")
	require.Equal(t, "disk full", e3.Error(), "Wrap() without message mismatch")

	e4 := serrors.With(serrors.ErrNotify, "")
	require.Equal(t, "NOTIFY", e4.Error(), "empty error should render its kind")
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := customError{"root cause"}
	e := serrors.Wrap(serrors.ErrPersistence, base, "reading")

	require.ErrorIs(t, e, serrors.ErrPersistence)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrFetch, "errors.Is should not match a different kind")
}

func TestIsMatchesNestedKinds(t *testing.T) {
	timeout := serrors.Wrap(serrors.ErrTimeout, context.DeadlineExceeded, "fetch timed out")
	e := fmt.Errorf("page https://x: %w", serrors.Wrap(serrors.ErrFetch, timeout, "could not fetch"))

	require.ErrorIs(t, e, serrors.ErrFetch)
	require.ErrorIs(t, e, serrors.ErrTimeout)
	require.ErrorIs(t, e, context.DeadlineExceeded)
}

func TestAsMatchesKindAndWrapped(t *testing.T) {
	base := &customError{"root cause"}
	e := serrors.Wrap(serrors.ErrNotify, base, "sending")

	var k serrors.Kind
	require.ErrorAs(t, e, &k, "errors.As should extract Kind")
	require.Equal(t, serrors.ErrNotify, k)

	var ce *customError
	require.ErrorAs(t, e, &ce, "errors.As should extract wrapped error type")
	require.Equal(t, base, ce, "extracted cause pointer mismatch")
}

func TestAccessors(t *testing.T) {
	base := errors.New("boom")
	e := serrors.Wrap(serrors.ErrBadRequest, base, "bad pattern")
	require.Equal(t, serrors.ErrBadRequest, e.Kind())
	require.Equal(t, "bad pattern", e.Message())
	require.Equal(t, base, e.Cause())
}

func TestKindOf(t *testing.T) {
	require.Nil(t, serrors.KindOf(errors.New("plain")))
	require.Nil(t, serrors.KindOf(nil))

	wrapped := fmt.Errorf("invocation: %w", serrors.With(serrors.ErrPersistence, "save failed"))
	require.Equal(t, serrors.ErrPersistence, serrors.KindOf(wrapped))
}
