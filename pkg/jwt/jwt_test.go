package jwt

import (
	"testing"
	"time"

	"kinship/backend/internal/apperr"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	id := uuid.New()
	token, err := GenerateToken("secret", id, time.Hour)
	require.NoError(t, err)

	got, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParseTokenRejects(t *testing.T) {
	id := uuid.New()
	good, err := GenerateToken("secret", id, time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken("secret", id, -time.Minute)
	require.NoError(t, err)
	none, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.RegisteredClaims{Subject: id.String()}).
		SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	badSubject, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := map[string]struct{ secret, token string }{
		"wrong secret": {"other", good},
		"expired":      {"secret", expired},
		"alg none":     {"secret", none},
		"bad subject":  {"secret", badSubject},
		"garbage":      {"secret", "not.a.token"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(tt.secret, tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
		})
	}
}
