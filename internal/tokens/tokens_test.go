package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = []byte("access-secret")
	refreshSecret = []byte("refresh-secret")
)

func TestSign_AccessRoundTrip(t *testing.T) {
	t.Parallel()

	sub := uuid.NewString()
	exp := time.Now().Add(AccessTTL)

	tok, err := Sign(sub, accessSecret, exp, "")
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, accessSecret)
	require.NoError(t, err)
	assert.Equal(t, sub, claims.Subject)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestRefreshClaims_RequiresJTI(t *testing.T) {
	t.Parallel()

	sub := uuid.NewString()
	withJTI, err := Sign(sub, refreshSecret, time.Now().Add(RefreshTTL), NewJTI())
	require.NoError(t, err)
	withoutJTI, err := Sign(sub, refreshSecret, time.Now().Add(RefreshTTL), "")
	require.NoError(t, err)

	claims, err := RefreshClaimsFromToken(withJTI, refreshSecret)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	_, err = RefreshClaimsFromToken(withoutJTI, refreshSecret)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestAccessClaims_RejectsRefreshToken(t *testing.T) {
	t.Parallel()

	shared := []byte("shared-secret")
	refresh, err := Sign(uuid.NewString(), shared, time.Now().Add(RefreshTTL), NewJTI())
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(refresh, shared)
	assert.ErrorIs(t, err, ErrInvalid)

	claims, err := RefreshClaimsFromToken(refresh, shared)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
}

func TestParse_Rejects(t *testing.T) {
	t.Parallel()

	sub := uuid.NewString()
	expired, err := Sign(sub, accessSecret, time.Now().Add(-time.Minute), "")
	require.NoError(t, err)
	foreign, err := Sign(sub, refreshSecret, time.Now().Add(time.Hour), NewJTI())
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: sub}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: expired},
		{name: "signed with refresh secret", token: foreign},
		{name: "alg none", token: none},
		{name: "garbage", token: "not.a.token"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := AccessClaimsFromToken(tt.token, accessSecret)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Nil(t, claims)
		})
	}
}
