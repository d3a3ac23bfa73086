package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = New("something went wrong")

func TestErrorsWrap(t *testing.T) {
	cause := fmt.Errorf("io failure")
	err := errSentinel.Wrap(cause)

	assert.EqualError(t, err, "something went wrong: io failure")
	assert.True(t, Is(err, errSentinel))
	assert.Equal(t, cause, err.Unwrap())

	// wrapping does not mutate the sentinel
	assert.NoError(t, errSentinel.Unwrap())
}

func TestErrorsWrapMessage(t *testing.T) {
	err := errSentinel.WrapMessage("key %q", "abc")
	assert.EqualError(t, err, `something went wrong: key "abc"`)
	assert.True(t, Is(err, errSentinel))
}

func TestErrorsNested(t *testing.T) {
	inner := New("inner")
	outer := New("outer").Wrap(inner.Wrap(fmt.Errorf("root cause")))

	require.True(t, Is(outer, inner))
	require.True(t, Is(outer, outer))
	require.False(t, Is(outer, New("unrelated")))

	var asErr *Error
	require.True(t, As(outer, &asErr))
}
