// Package credential turns structured session records into opaque,
// tamper-resistant strings suitable for browser cookies, and back.
package credential

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"

	errs "github.com/tunubeya/collasco-front-sub002/internal/errors"
)

// DecodeStatus is the tagged result of a Decode. A missing cookie and a
// corrupt cookie are distinct for observability, but both mean
// "no session" to callers.
type DecodeStatus int

const (
	DecodeOK DecodeStatus = iota
	DecodeAbsent
	DecodeInvalid
)

// hkdfInfo domain-separates the cookie key from any other key derived
// from the same secret.
const hkdfInfo = "collasco-session-cookie-v1"

const keySize = 32 // AES-256

// Codec encrypts and decrypts cookie payloads with AES-GCM. The key is
// derived from the configured secret with HKDF-SHA256, so the secret can
// be any sufficiently long string rather than a raw key.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec derives the encryption key from secret and prepares the AEAD.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("[credential NewCodec] secret is required")
	}

	key := make([]byte, keySize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, errors.Wrap(err, "[credential NewCodec] key derivation")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "[credential NewCodec] cipher init")
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "[credential NewCodec] gcm init")
	}

	return &Codec{aead: aead}, nil
}

// Encode serializes v, encrypts it, and returns a cookie-safe string.
// Errors only on marshal failure, which is not expected in normal
// operation.
func (c *Codec) Encode(v any) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", errs.Wrapf(errs.ErrEncoding, "[Codec Encode] marshal payload: %s", err.Error())
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrap(err, "[Codec Encode] nonce generation")
	}

	// Nonce is prepended so Decode can recover it.
	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode reverses Encode into v. It never returns an error: an empty
// string yields DecodeAbsent, anything that fails decoding, decryption,
// or unmarshalling yields DecodeInvalid. Callers treat both as
// "no session".
func (c *Codec) Decode(s string, v any) DecodeStatus {
	if s == "" {
		return DecodeAbsent
	}

	sealed, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil || len(sealed) < c.aead.NonceSize() {
		return DecodeInvalid
	}

	nonce, ciphertext := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return DecodeInvalid
	}

	if err := json.Unmarshal(plaintext, v); err != nil {
		return DecodeInvalid
	}
	return DecodeOK
}
