package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	key := sha256.Sum256([]byte("crypto-secret"))
	return key[:]
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	sealed, err := Encrypt(testKey(), "hello world")
	require.NoError(t, err)

	plain, err := Decrypt(testKey(), sealed)
	require.NoError(t, err)
	assert.Equal(t, "hello world", plain)
}

func TestEncrypt_OutputFormat(t *testing.T) {
	sealed, err := Encrypt(testKey(), "payload")
	require.NoError(t, err)

	ivPart, ctPart, ok := strings.Cut(sealed, ":")
	require.True(t, ok, "sealed value must be iv:ciphertext")

	iv, err := hex.DecodeString(ivPart)
	require.NoError(t, err)
	assert.Len(t, iv, 16)

	ct, err := hex.DecodeString(ctPart)
	require.NoError(t, err)
	assert.Len(t, ct, len("payload"))
}

func TestEncrypt_RandomIVPerCall(t *testing.T) {
	a, err := Encrypt(testKey(), "same input")
	require.NoError(t, err)
	b, err := Encrypt(testKey(), "same input")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecrypt_WrongKeyGivesGarbage(t *testing.T) {
	sealed, err := Encrypt(testKey(), "secret session")
	require.NoError(t, err)

	other := sha256.Sum256([]byte("different-secret"))
	plain, err := Decrypt(other[:], sealed)
	require.NoError(t, err)
	assert.NotEqual(t, "secret session", plain)
}

func TestDecrypt_Malformed(t *testing.T) {
	for _, sealed := range []string{"", "nocolon", "zz:zz", "abcd:zz", "abcd:"} {
		_, err := Decrypt(testKey(), sealed)
		assert.Error(t, err, "input %q", sealed)
	}
}
