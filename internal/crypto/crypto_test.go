package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCipher(t *testing.T, passphrase string) *Cipher {
	t.Helper()
	c, err := NewCipher(passphrase, nil, DefaultIterations)
	require.NoError(t, err)
	return c
}

func TestCipher_RoundTrip(t *testing.T) {
	c := newTestCipher(t, "master")

	token, err := c.Encrypt("hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	plaintext, err := c.Decrypt(token)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", plaintext)
}

func TestCipher_RoundTripEmptyPlaintext(t *testing.T) {
	c := newTestCipher(t, "master")

	token, err := c.Encrypt("")
	require.NoError(t, err)

	plaintext, err := c.Decrypt(token)
	require.NoError(t, err)
	assert.Equal(t, "", plaintext)
}

func TestCipher_EncryptIsNonDeterministic(t *testing.T) {
	c := newTestCipher(t, "master")

	t1, err := c.Encrypt("same secret")
	require.NoError(t, err)
	t2, err := c.Encrypt("same secret")
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2, "fresh nonce must produce distinct tokens")

	p1, err := c.Decrypt(t1)
	require.NoError(t, err)
	p2, err := c.Decrypt(t2)
	require.NoError(t, err)
	assert.Equal(t, "same secret", p1)
	assert.Equal(t, "same secret", p2)
}

func TestCipher_DecryptWrongKey(t *testing.T) {
	c1 := newTestCipher(t, "right passphrase")
	c2 := newTestCipher(t, "wrong passphrase")

	token, err := c1.Encrypt("hunter2")
	require.NoError(t, err)

	_, err = c2.Decrypt(token)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestCipher_DecryptTamperedToken(t *testing.T) {
	c := newTestCipher(t, "master")

	token, err := c.Encrypt("hunter2")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err = c.Decrypt(tampered)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestCipher_DecryptMalformedToken(t *testing.T) {
	c := newTestCipher(t, "master")

	for name, token := range map[string]string{
		"not base64": "%%%not-base64%%%",
		"too short":  base64.StdEncoding.EncodeToString([]byte("short")),
		"empty":      "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decrypt(token)
			assert.ErrorIs(t, err, ErrDecryptionFailed)
		})
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	k1 := DeriveKey("pass", DefaultSalt, DefaultIterations)
	k2 := DeriveKey("pass", DefaultSalt, DefaultIterations)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, KeyLen)

	k3 := DeriveKey("other", DefaultSalt, DefaultIterations)
	assert.NotEqual(t, k1, k3)
}

func TestNewCipher_EnforcesIterationFloor(t *testing.T) {
	// A below-floor iteration count must produce the same key schedule as
	// the floor itself, so weak configs cannot change the token format.
	c1, err := NewCipher("pass", nil, 1)
	require.NoError(t, err)
	c2, err := NewCipher("pass", nil, DefaultIterations)
	require.NoError(t, err)

	token, err := c1.Encrypt("secret")
	require.NoError(t, err)
	plaintext, err := c2.Decrypt(token)
	require.NoError(t, err)
	assert.Equal(t, "secret", plaintext)
}
