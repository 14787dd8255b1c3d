package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codedError struct{ code string }

func (e *codedError) Error() string { return e.code }

func TestWrapPreservesCause(t *testing.T) {
	base := New("boom")
	wrapped := Wrap(base, "doing work")

	assert.True(t, Is(wrapped, base))
	assert.Equal(t, "doing work: boom", wrapped.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestAsType(t *testing.T) {
	err := Wrapf(&codedError{code: "E1"}, "op %d", 1)

	target, ok := AsType[*codedError](err)
	require.True(t, ok)
	assert.Equal(t, "E1", target.code)

	_, ok = AsType[*codedError](New("plain"))
	assert.False(t, ok)
}
