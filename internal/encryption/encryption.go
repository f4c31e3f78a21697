// Package encryption seals stored diary entries.
package encryption

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the length in bytes of a generated salt.
	SaltSize = 16

	// DefaultIterations is the PBKDF2 iteration count used when none is
	// configured.
	DefaultIterations = 100000

	// MinIterations is the lowest iteration count accepted.
	MinIterations = 10000
)

var (
	// ErrAuthentication is returned when a payload cannot be opened: the
	// password is wrong or the data was modified.
	ErrAuthentication = errors.New("authentication failed: wrong password or tampered data")

	// ErrEmptyPassword is returned when a password encryptor is created
	// without a password.
	ErrEmptyPassword = errors.New("password must not be empty")

	// ErrInvalidSalt is returned when the salt is shorter than SaltSize.
	ErrInvalidSalt = errors.New("salt is too short")
)

// Encryptor seals and opens entry payloads.
type Encryptor interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// Passthrough stores payloads unchanged.
type Passthrough struct{}

// Encrypt returns a copy of plaintext.
func (Passthrough) Encrypt(plaintext []byte) ([]byte, error) {
	return append([]byte(nil), plaintext...), nil
}

// Decrypt returns a copy of ciphertext.
func (Passthrough) Decrypt(ciphertext []byte) ([]byte, error) {
	return append([]byte(nil), ciphertext...), nil
}

// Password derives a key from a password with PBKDF2-HMAC-SHA256 and seals
// payloads with XChaCha20-Poly1305. Each payload is prefixed with its
// random nonce.
type Password struct {
	salt       []byte
	iterations int
	aead       aeadCipher
}

type aeadCipher interface {
	NonceSize() int
	Overhead() int
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

// NewPassword creates an encryptor for password and salt. An iterations
// value of zero selects DefaultIterations.
func NewPassword(password, salt []byte, iterations int) (*Password, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	if len(salt) < SaltSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSalt, len(salt), SaltSize)
	}
	if iterations == 0 {
		iterations = DefaultIterations
	}
	if iterations < MinIterations {
		return nil, fmt.Errorf("iterations must be at least %d; got %d", MinIterations, iterations)
	}

	key := pbkdf2.Key(password, salt, iterations, chacha20poly1305.KeySize, sha256.New)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher; %w", err)
	}

	return &Password{
		salt:       append([]byte(nil), salt...),
		iterations: iterations,
		aead:       aead,
	}, nil
}

// Salt returns the salt the key was derived with.
func (p *Password) Salt() []byte {
	return append([]byte(nil), p.salt...)
}

// Iterations returns the PBKDF2 iteration count.
func (p *Password) Iterations() int {
	return p.iterations
}

// Encrypt seals plaintext under a fresh random nonce.
func (p *Password) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, p.aead.NonceSize(), p.aead.NonceSize()+len(plaintext)+p.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce; %w", err)
	}
	return p.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a payload produced by Encrypt.
func (p *Password) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < p.aead.NonceSize()+p.aead.Overhead() {
		return nil, ErrAuthentication
	}
	nonce, sealed := ciphertext[:p.aead.NonceSize()], ciphertext[p.aead.NonceSize():]
	plaintext, err := p.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}

// NewSalt returns SaltSize random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt; %w", err)
	}
	return salt, nil
}
