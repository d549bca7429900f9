// Package crypto provides the value-encryption primitive injected into the
// DLP engine. Tokens are AES-256-GCM ciphertexts with a key derived from a
// passphrase via PBKDF2.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keyLength     = 32
	pbkdf2Rounds  = 100000
	gcmNonceSize  = 12
	tokenPrefix   = "enc:"
	minSaltLength = 8
)

// ErrInvalidToken is returned when a token cannot be parsed or authenticated.
var ErrInvalidToken = errors.New("crypto: invalid token")

// Cipher encrypts individual entity values into printable tokens. The nonce
// is derived from an HMAC of the plaintext, so the same value always maps to
// the same token. That makes the scheme deterministic on purpose: redacted
// documents stay diffable and duplicate values collapse to one token.
type Cipher struct {
	aead    cipher.AEAD
	nonceMA []byte
}

// NewCipher derives an AES-256 key from the passphrase and salt.
func NewCipher(passphrase, salt string) (*Cipher, error) {
	if passphrase == "" {
		return nil, errors.New("crypto: passphrase is required")
	}
	if len(salt) < minSaltLength {
		return nil, fmt.Errorf("crypto: salt must be at least %d bytes", minSaltLength)
	}

	key := pbkdf2.Key([]byte(passphrase), []byte(salt), pbkdf2Rounds, keyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: creating gcm: %w", err)
	}

	// Separate key for nonce derivation so the AEAD key is never reused
	// as a MAC key.
	nonceMA := pbkdf2.Key([]byte(passphrase), []byte(salt+"/nonce"), pbkdf2Rounds, keyLength, sha256.New)

	return &Cipher{aead: aead, nonceMA: nonceMA}, nil
}

// EncryptValue encrypts a single entity value into a printable token.
func (c *Cipher) EncryptValue(value string) (string, error) {
	nonce := c.nonceFor(value)
	sealed := c.aead.Seal(nil, nonce, []byte(value), nil)

	out := make([]byte, 0, len(nonce)+len(sealed))
	out = append(out, nonce...)
	out = append(out, sealed...)
	return tokenPrefix + base64.RawURLEncoding.EncodeToString(out), nil
}

// DecryptValue reverses EncryptValue.
func (c *Cipher) DecryptValue(token string) (string, error) {
	raw, ok := strings.CutPrefix(token, tokenPrefix)
	if !ok {
		return "", ErrInvalidToken
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if len(data) < gcmNonceSize+c.aead.Overhead() {
		return "", ErrInvalidToken
	}

	nonce, sealed := data[:gcmNonceSize], data[gcmNonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return string(plaintext), nil
}

func (c *Cipher) nonceFor(value string) []byte {
	mac := hmac.New(sha256.New, c.nonceMA)
	mac.Write([]byte(value))
	return mac.Sum(nil)[:gcmNonceSize]
}

// HashText returns the hex SHA-256 digest of text, used to reference scanned
// content in alerts and logs without storing it.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
