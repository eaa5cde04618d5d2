package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	Cost = bcrypt.MinCost
	t.Cleanup(func() { Cost = bcrypt.DefaultCost })

	hash, err := HashPassword("password123")
	require.NoError(t, err)
	require.NotEqual(t, "password123", hash)

	require.NoError(t, CheckPassword(hash, "password123"))
	require.ErrorIs(t, CheckPassword(hash, "wrong-password"), ErrMismatchedPassword)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	err := CheckPassword("not-a-bcrypt-hash", "password123")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrMismatchedPassword)
}
