// Package cryptox implements the vault envelope: AES-256-GCM sealing of an
// opaque payload into a single self-describing blob, plus the passcode key
// derivation used by the local verifier.
//
// Blob layout (single fixed scheme, no version byte):
//
//	[NonceSize bytes nonce][ciphertext][TagSize bytes GCM tag]
//
// Blobs are portable between implementations of this exact scheme only.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/securepass/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// NonceSize is the standard GCM nonce length in bytes.
	NonceSize = 12
	// TagSize is the standard GCM authentication tag length in bytes.
	TagSize = 16
)

// ErrInvalidKey is returned when a key is not KeySize bytes long.
var ErrInvalidKey = errors.New("invalid key size")

// MakeVerifier returns the SHA-256 digest of a derived key. Only the
// verifier is persisted, never the key it was computed from.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// DeriveMasterKey stretches a low-entropy secret with argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// GenerateKey returns a fresh random 256-bit key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with key and returns nonce || ciphertext || tag.
// A new random nonce is drawn for every call.
func Seal(plaintext, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize, NonceSize+len(plaintext)+TagSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	// Seal appends ciphertext and tag to the nonce prefix.
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. Truncated blobs and tag mismatches fail with
// common.ErrDecryptionFailed and never return partial plaintext.
func Open(blob, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(blob) < NonceSize+TagSize {
		return nil, fmt.Errorf("%w: blob too short (%d bytes)", common.ErrDecryptionFailed, len(blob))
	}

	nonce, sealed := blob[:NonceSize], blob[NonceSize:]
	plaintext, err := aesgcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// SealJSON serializes v to JSON and seals it with key.
func SealJSON(v any, key []byte) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}
	defer common.WipeByteArray(plaintext)

	return Seal(plaintext, key)
}

// OpenJSON opens blob with key and unmarshals the plaintext into v.
// A payload that decrypts but does not decode is reported as
// common.ErrDeserializationFailed.
func OpenJSON(blob, key []byte, v any) error {
	plaintext, err := Open(blob, key)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(plaintext)

	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrDeserializationFailed, err)
	}
	return nil
}
