// Package crypto derives the vault's symmetric key from a master passphrase
// and encrypts/decrypts secret values with AES-256-GCM. All operations are
// pure in-memory transforms; the derived key lives for the process lifetime
// and is never persisted.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeyLen is the AES-256 key size in bytes.
	KeyLen = 32

	// DefaultIterations matches the PBKDF2 cost of existing vault files.
	// NewCipher treats it as a floor; callers may raise it, never lower it.
	DefaultIterations = 100_000

	// DefaultPassphrase is used when no master passphrase is configured.
	// Kept for compatibility with vaults created before the passphrase was
	// configurable.
	DefaultPassphrase = "default_secure_key_change_in_production"
)

// DefaultSalt is the fixed key-derivation salt of the on-disk token format.
// Changing it orphans every stored token, so it only changes together with a
// re-encryption migration.
var DefaultSalt = []byte("password_vault_salt")

// ErrDecryptionFailed is returned for any token that cannot be authenticated
// and decrypted: truncated or malformed encoding, a tampered ciphertext, or
// a key derived from the wrong passphrase.
var ErrDecryptionFailed = errors.New("decryption failed")

// Cipher encrypts and decrypts secret values under a passphrase-derived key.
// Safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// DeriveKey stretches passphrase into a KeyLen-byte key with
// PBKDF2-HMAC-SHA256.
func DeriveKey(passphrase string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, iterations, KeyLen, sha256.New)
}

// NewCipher derives a key from passphrase and returns a Cipher ready for
// Encrypt/Decrypt. A nil salt selects DefaultSalt; iterations below
// DefaultIterations are raised to it.
func NewCipher(passphrase string, salt []byte, iterations int) (*Cipher, error) {
	if salt == nil {
		salt = DefaultSalt
	}
	if iterations < DefaultIterations {
		iterations = DefaultIterations
	}

	key := DeriveKey(passphrase, salt, iterations)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext with a fresh random nonce and returns the token as
// base64(nonce || ciphertext || tag). Encrypting the same plaintext twice
// yields different tokens.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a token produced by Encrypt. The authentication check fails
// closed: any malformed, tampered, or wrong-key token yields
// ErrDecryptionFailed and no plaintext.
func (c *Cipher) Decrypt(token string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("%w: token too short", ErrDecryptionFailed)
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}
