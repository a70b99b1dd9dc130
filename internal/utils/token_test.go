package utils

import (
	"strings"
	"testing"

	"github.com/nodehq/node-admin-api/internal/constants"
	"github.com/stretchr/testify/require"
)

func TestGenerateInvitationToken(t *testing.T) {
	token, err := GenerateInvitationToken()
	require.NoError(t, err)
	require.Len(t, token, constants.InvitationTokenBytes*2)

	other, err := GenerateInvitationToken()
	require.NoError(t, err)
	require.NotEqual(t, token, other)
}

func TestGenerateAPIKey(t *testing.T) {
	plaintext, hashed, err := GenerateAPIKey()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(plaintext, constants.APIKeyPrefix))
	require.Len(t, hashed, 64)
	require.Equal(t, hashed, HashAPIKey(plaintext))

	otherPlaintext, otherHashed, err := GenerateAPIKey()
	require.NoError(t, err)
	require.NotEqual(t, plaintext, otherPlaintext)
	require.NotEqual(t, hashed, otherHashed)
}
