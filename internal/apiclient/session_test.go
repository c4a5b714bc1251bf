package apiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestSession_RevokeClosesDone(t *testing.T) {
	s := NewSession("tok")
	require.True(t, s.Authenticated())
	done := s.Done()
	assert.False(t, closed(done))

	s.Revoke()
	assert.False(t, s.Authenticated())
	assert.True(t, closed(done))

	s.Revoke()
	assert.True(t, closed(s.Done()), "second revoke is a no-op")
}

func TestSession_SetTokenRearms(t *testing.T) {
	s := NewSession("")
	assert.True(t, closed(s.Done()), "signed-out session is already done")

	s.SetToken("tok")
	assert.False(t, closed(s.Done()))

	_, err := s.TokenSource().Token()
	require.NoError(t, err)

	s.SetToken("")
	assert.False(t, s.Authenticated())
	_, err = s.TokenSource().Token()
	assert.ErrorIs(t, err, ErrNoToken)
}
