package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/SscSPs/card_ledger_app/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test-secret")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--subject", "ops-alice", "--ttl", "1h"})
	require.NoError(t, rootCmd.Execute())

	claims, err := utils.ParseAndValidateJWT(strings.TrimSpace(out.String()), "cli-test-secret")
	require.NoError(t, err)
	assert.Equal(t, "ops-alice", claims.Subject)
	assert.Equal(t, utils.OperatorTokenIssuer, claims.Issuer)
}

func TestMintToken_RejectsNonPositiveTTL(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--subject", "ops-alice", "--ttl", "0s"})
	assert.Error(t, rootCmd.Execute())
}
