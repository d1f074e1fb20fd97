package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	j := &JWTer{Secret: []byte("s3cret"), Issuer: "discord-offices", TTL: time.Minute}

	tok, err := j.IssueState("/offices/3")
	require.NoError(t, err)

	c, err := j.ParseState(tok)
	require.NoError(t, err)
	assert.Equal(t, "/offices/3", c.ReturnTo)
	assert.NotEmpty(t, c.Nonce)
}

func TestParseStateRejects(t *testing.T) {
	j := &JWTer{Secret: []byte("s3cret"), Issuer: "discord-offices", TTL: time.Minute}
	tok, err := j.IssueState("")
	require.NoError(t, err)

	other := &JWTer{Secret: []byte("other"), Issuer: "discord-offices", TTL: time.Minute}
	_, err = other.ParseState(tok)
	assert.ErrorIs(t, err, ErrBadState, "wrong secret")

	wrongIssuer := &JWTer{Secret: []byte("s3cret"), Issuer: "someone-else", TTL: time.Minute}
	_, err = wrongIssuer.ParseState(tok)
	assert.ErrorIs(t, err, ErrBadState, "wrong issuer")

	expired := &JWTer{Secret: []byte("s3cret"), Issuer: "discord-offices", TTL: -time.Hour}
	old, err := expired.IssueState("")
	require.NoError(t, err)
	_, err = j.ParseState(old)
	assert.ErrorIs(t, err, ErrBadState, "expired")

	_, err = j.ParseState("not-a-token")
	assert.ErrorIs(t, err, ErrBadState)
}
