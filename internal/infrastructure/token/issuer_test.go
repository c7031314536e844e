package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greia/internal/domain/entity"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	signed, expiresAt, err := issuer.Issue("user-1", entity.RoleAgent)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	uid, err := issuer.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	signed, _, err := NewIssuer("one", time.Hour).Issue("user-1", entity.RoleUser)
	require.NoError(t, err)

	_, err = NewIssuer("two", time.Hour).Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	signed, _, err := issuer.Issue("user-1", entity.RoleUser)
	require.NoError(t, err)

	_, err = issuer.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := NewIssuer("secret", time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
