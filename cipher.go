package ticketreg

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// Cipher encrypts ticket payloads at rest. A disabled cipher keeps tickets
// in plaintext passthrough and disables id/attribute digesting with it.
// Implementations must be safe for concurrent use; the registry treats its
// cipher as read-only after construction.
type Cipher interface {
	Encrypt(data []byte) ([]byte, error)
	Decrypt(data []byte) ([]byte, error)
	Enabled() bool
}

// NoCipher is the disabled [Cipher]: passthrough on both directions.
type NoCipher struct{}

// Encrypt implements [Cipher].
func (NoCipher) Encrypt(data []byte) ([]byte, error) { return data, nil }

// Decrypt implements [Cipher].
func (NoCipher) Decrypt(data []byte) ([]byte, error) { return data, nil }

// Enabled implements [Cipher].
func (NoCipher) Enabled() bool { return false }

// ErrCipherKeySize is returned by [NewAESCipher] for keys that are not
// 16, 24, or 32 bytes.
var ErrCipherKeySize = errors.New("cipher key must be 16, 24, or 32 bytes")

// AESCipher is an AES-GCM [Cipher] with a random nonce prepended to every
// sealed payload.
type AESCipher struct {
	aead cipher.AEAD
}

// NewAESCipher creates an [AESCipher] from a raw AES key.
func NewAESCipher(key []byte) (*AESCipher, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrCipherKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESCipher{aead: aead}, nil
}

// Encrypt implements [Cipher].
func (c *AESCipher) Encrypt(data []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, data, nil), nil
}

// Decrypt implements [Cipher].
func (c *AESCipher) Decrypt(data []byte) ([]byte, error) {
	size := c.aead.NonceSize()
	if len(data) < size {
		return nil, fmt.Errorf("%w: payload shorter than nonce", ErrSerialization)
	}
	plain, err := c.aead.Open(nil, data[:size], data[size:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return plain, nil
}

// Enabled implements [Cipher].
func (c *AESCipher) Enabled() bool { return true }
