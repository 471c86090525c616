package token

import (
	"testing"
	"time"

	"paintshop/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTIssuer_Issue(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	iss := NewJWTIssuer("test-secret", 15*time.Minute)

	raw, exp, err := iss.Issue(42, model.RoleAdmin, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(15*time.Minute), exp)

	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, jwt.SigningMethodHS256, parsed.Method)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "42", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, float64(exp.Unix()), claims["exp"])
	assert.Equal(t, float64(now.Unix()), claims["iat"])
}

func TestJWTVerifier_RoundTrip(t *testing.T) {
	raw, _, err := NewJWTIssuer("s", time.Minute).Issue(7, model.RoleUser, time.Now())
	require.NoError(t, err)

	id, role, err := NewJWTVerifier("s").Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, model.RoleUser, role)
}

func sign(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJWTVerifier_Rejects(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()
	past := time.Now().Add(-time.Hour).Unix()
	wrong, _, err := NewJWTIssuer("wrong", time.Minute).Issue(1, model.RoleUser, time.Now())
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "abc.def.ghi"},
		{"wrong secret", wrong},
		{"wrong alg", sign(t, jwt.SigningMethodHS512, "s", jwt.MapClaims{"sub": "1", "role": "user", "exp": future})},
		{"expired", sign(t, jwt.SigningMethodHS256, "s", jwt.MapClaims{"sub": "1", "role": "user", "exp": past})},
		{"no exp", sign(t, jwt.SigningMethodHS256, "s", jwt.MapClaims{"sub": "1", "role": "user"})},
		{"numeric sub", sign(t, jwt.SigningMethodHS256, "s", jwt.MapClaims{"sub": 1, "role": "user", "exp": future})},
		{"zero sub", sign(t, jwt.SigningMethodHS256, "s", jwt.MapClaims{"sub": "0", "role": "user", "exp": future})},
		{"unknown role", sign(t, jwt.SigningMethodHS256, "s", jwt.MapClaims{"sub": "1", "role": "ADMIN", "exp": future})},
	}

	v := NewJWTVerifier("s")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := v.Verify(tt.raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
