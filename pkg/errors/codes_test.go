package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	base := New(KindUnknownPeer, "host %q is not a peer", "c")
	wrapped := fmt.Errorf("add-brick: %w", base)

	assert.Equal(t, KindUnknownPeer, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindUnknownPeer))
	assert.True(t, IsValidation(wrapped))
	assert.True(t, stderrors.Is(wrapped, &Error{Kind: KindUnknownPeer}))
	assert.False(t, stderrors.Is(wrapped, &Error{Kind: KindUnknownUser}))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(stderrors.New("boom")))
	assert.False(t, IsKind(nil, KindExecution))
	assert.False(t, IsValidation(nil))
}

func TestErrorMessage(t *testing.T) {
	cause := stderrors.New("executable file not found in $PATH")
	err := Wrap(KindExecution, cause, "could not run %s", "gluster").WithDetail("program", "gluster")

	assert.Equal(t, "could not run gluster: executable file not found in $PATH", err.Error())
	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.Equal(t, "gluster", err.Details["program"])
	assert.False(t, err.Kind.IsValidation())
}

func TestValidationKinds(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindInsufficientBricks, true},
		{KindUnknownPeer, true},
		{KindUnknownUser, true},
		{KindMalformedBrickSpec, true},
		{KindProtectedPath, true},
		{KindInvalidInput, true},
		{KindExecution, false},
		{KindCommandFailed, false},
		{KindAborted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.IsValidation())
		})
	}
}
