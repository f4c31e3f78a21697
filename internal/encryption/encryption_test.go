package encryption

import (
	"bytes"
	"errors"
	"testing"
)

func testSalt() []byte {
	return bytes.Repeat([]byte{0x5a}, SaltSize)
}

func TestPassword_RoundTrip(t *testing.T) {
	p, err := NewPassword([]byte("hunter2"), testSalt(), MinIterations)
	if err != nil {
		t.Fatalf("NewPassword() error = %v", err)
	}

	plaintext := []byte(`{"Key 1;":"Here is some data for key 1"}`)
	sealed, err := p.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if bytes.Contains(sealed, plaintext) {
		t.Error("Encrypt() output contains the plaintext")
	}

	opened, err := p.Decrypt(sealed)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Errorf("Decrypt() = %q, want %q", opened, plaintext)
	}
}

func TestPassword_FreshNoncePerPayload(t *testing.T) {
	p, err := NewPassword([]byte("hunter2"), testSalt(), MinIterations)
	if err != nil {
		t.Fatalf("NewPassword() error = %v", err)
	}

	a, _ := p.Encrypt([]byte("same"))
	b, _ := p.Encrypt([]byte("same"))
	if bytes.Equal(a, b) {
		t.Error("Encrypt() produced identical payloads for identical input")
	}
}

func TestPassword_WrongPassword(t *testing.T) {
	right, _ := NewPassword([]byte("right"), testSalt(), MinIterations)
	wrong, _ := NewPassword([]byte("wrong"), testSalt(), MinIterations)

	sealed, err := right.Encrypt([]byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if _, err := wrong.Decrypt(sealed); !errors.Is(err, ErrAuthentication) {
		t.Errorf("Decrypt() error = %v, want ErrAuthentication", err)
	}
}

func TestPassword_Tampered(t *testing.T) {
	p, _ := NewPassword([]byte("hunter2"), testSalt(), MinIterations)
	sealed, _ := p.Encrypt([]byte("secret"))

	tests := []struct {
		name    string
		payload []byte
	}{
		{"flipped byte", func() []byte {
			b := append([]byte(nil), sealed...)
			b[len(b)-1] ^= 0xff
			return b
		}()},
		{"truncated", sealed[:len(sealed)-1]},
		{"too short", sealed[:4]},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Decrypt(tt.payload); !errors.Is(err, ErrAuthentication) {
				t.Errorf("Decrypt() error = %v, want ErrAuthentication", err)
			}
		})
	}
}

func TestNewPassword_Validation(t *testing.T) {
	tests := []struct {
		name       string
		password   []byte
		salt       []byte
		iterations int
		wantErr    error
	}{
		{"empty password", nil, testSalt(), 0, ErrEmptyPassword},
		{"short salt", []byte("pw"), []byte("short"), 0, ErrInvalidSalt},
		{"too few iterations", []byte("pw"), testSalt(), 10, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPassword(tt.password, tt.salt, tt.iterations)
			if err == nil {
				t.Fatal("NewPassword() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("NewPassword() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewPassword_DefaultIterations(t *testing.T) {
	p, err := NewPassword([]byte("pw"), testSalt(), 0)
	if err != nil {
		t.Fatalf("NewPassword() error = %v", err)
	}
	if p.Iterations() != DefaultIterations {
		t.Errorf("Iterations() = %d, want %d", p.Iterations(), DefaultIterations)
	}
}

func TestNewSalt(t *testing.T) {
	a, err := NewSalt()
	if err != nil {
		t.Fatalf("NewSalt() error = %v", err)
	}
	b, _ := NewSalt()

	if len(a) != SaltSize {
		t.Errorf("len(NewSalt()) = %d, want %d", len(a), SaltSize)
	}
	if bytes.Equal(a, b) {
		t.Error("NewSalt() returned the same salt twice")
	}
}

func TestPassthrough(t *testing.T) {
	var e Encryptor = Passthrough{}
	sealed, _ := e.Encrypt([]byte("plain"))
	opened, _ := e.Decrypt(sealed)
	if string(opened) != "plain" {
		t.Errorf("Decrypt(Encrypt()) = %q, want %q", opened, "plain")
	}
}
