package ticketreg

import (
	"bytes"
	"errors"
	"testing"
)

func TestAESCipherRoundTrip(t *testing.T) {
	for _, size := range []int{16, 24, 32} {
		key := bytes.Repeat([]byte{0xAB}, size)
		c, err := NewAESCipher(key)
		if err != nil {
			t.Fatalf("key size %d: %v", size, err)
		}
		if !c.Enabled() {
			t.Fatal("aes cipher reports disabled")
		}

		plain := []byte("ticket payload")
		sealed, err := c.Encrypt(plain)
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}
		if bytes.Equal(sealed, plain) {
			t.Fatal("ciphertext equals plaintext")
		}
		opened, err := c.Decrypt(sealed)
		if err != nil {
			t.Fatalf("decrypt: %v", err)
		}
		if !bytes.Equal(opened, plain) {
			t.Fatalf("round trip = %q, want %q", opened, plain)
		}
	}
}

func TestAESCipherRejectsBadKeyAndPayload(t *testing.T) {
	if _, err := NewAESCipher([]byte("short")); !errors.Is(err, ErrCipherKeySize) {
		t.Fatalf("bad key err = %v, want ErrCipherKeySize", err)
	}

	c, err := NewAESCipher(bytes.Repeat([]byte{1}, 16))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := c.Decrypt([]byte{1, 2}); !errors.Is(err, ErrSerialization) {
		t.Fatalf("short payload err = %v, want ErrSerialization", err)
	}
	sealed, err := c.Encrypt([]byte("data"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xFF
	if _, err := c.Decrypt(sealed); !errors.Is(err, ErrSerialization) {
		t.Fatalf("tampered payload err = %v, want ErrSerialization", err)
	}
}

func TestNoCipherPassthrough(t *testing.T) {
	var c NoCipher
	if c.Enabled() {
		t.Fatal("NoCipher reports enabled")
	}
	data := []byte("plain")
	out, err := c.Encrypt(data)
	if err != nil || !bytes.Equal(out, data) {
		t.Fatalf("encrypt = (%q, %v), want passthrough", out, err)
	}
	out, err = c.Decrypt(data)
	if err != nil || !bytes.Equal(out, data) {
		t.Fatalf("decrypt = (%q, %v), want passthrough", out, err)
	}
}
