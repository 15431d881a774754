package utils

import (
	"testing"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   domain.Amount
		expected string
	}{
		{"rounds to cents", domain.NewAmount("USD", decimal.RequireFromString("12.3456")), "12.35"},
		{"pads to cents", domain.NewAmount("EUR", decimal.NewFromInt(7)), "7.00"},
		{"zero decimal currency", domain.NewAmount("JPY", decimal.RequireFromString("12.3456")), "12"},
		{"negative", domain.NewAmount("USD", decimal.RequireFromString("-0.5")), "-0.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatAmount(tt.amount))
		})
	}
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("ops-user", "secret", time.Hour, OperatorTokenIssuer)
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "ops-user", claims.Subject)
	assert.Equal(t, OperatorTokenIssuer, claims.Issuer)
}

func TestParseAndValidateJWT_Rejects(t *testing.T) {
	expired, err := GenerateJWT("ops-user", "secret", -time.Hour, OperatorTokenIssuer)
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	valid, err := GenerateJWT("ops-user", "secret", time.Hour, OperatorTokenIssuer)
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(valid, "other-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(noSubject, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidClaims)
}

func TestGenerateJWT_RequiresSubjectAndSecret(t *testing.T) {
	_, err := GenerateJWT("", "secret", time.Hour, OperatorTokenIssuer)
	assert.Error(t, err)
	_, err = GenerateJWT("ops-user", "", time.Hour, OperatorTokenIssuer)
	assert.Error(t, err)
}
