package auth

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chaeeun2/alolot/errs"
)

func TestService_RoundTrip(t *testing.T) {
	s := NewService("secret", time.Hour)

	token, expires, err := s.GenerateToken(AdminSubject, "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, AdminSubject, claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestService_RejectsExpiredToken(t *testing.T) {
	s := NewService("secret", time.Minute)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := s.GenerateToken(AdminSubject, "admin")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.ValidateToken(token)
	assert.True(t, errs.IsExpiredTokenError(err))
}

func TestService_RejectsForeignTokens(t *testing.T) {
	s := NewService("secret", time.Hour)

	other, _, err := NewService("other", time.Hour).GenerateToken(AdminSubject, "admin")
	require.NoError(t, err)
	_, err = s.ValidateToken(other)
	assert.True(t, errs.IsInvalidTokenError(err))

	unsigned, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, Claims{Role: "admin"}).
		SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.ValidateToken(unsigned)
	assert.True(t, errs.IsInvalidTokenError(err))

	_, err = s.ValidateToken("")
	assert.True(t, errs.IsMissingTokenError(err))
}

func TestCredentials(t *testing.T) {
	creds, err := NewCredentials("", "hunter2")
	require.NoError(t, err)
	assert.NoError(t, creds.Check("hunter2"))
	assert.True(t, errs.IsInvalidCredentialsError(creds.Check("wrong")))
	assert.True(t, errs.IsInvalidCredentialsError(creds.Check("")))

	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	creds, err = NewCredentials(hash, "ignored")
	require.NoError(t, err)
	assert.NoError(t, creds.Check("s3cret"))
	assert.Error(t, creds.Check("ignored"))

	_, err = NewCredentials("not-a-hash", "")
	assert.Error(t, err)

	_, err = NewCredentials("", "")
	assert.ErrorIs(t, err, ErrNoCredentials)
}
