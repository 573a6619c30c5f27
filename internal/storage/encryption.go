package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// encryptionMagic is prepended to encrypted backup files for
	// identification.
	encryptionMagic = "BLOGENC1"

	// Argon2 parameters (RFC 9106 recommendations)
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32 // 256 bits for AES-256

	saltLength = 32
)

// deriveKey derives an encryption key from a password using Argon2id.
func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
}

// EncryptData encrypts data using AES-256-GCM with password-based key
// derivation. Output layout: magic + salt + nonce + ciphertext.
func EncryptData(plaintext []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("encryption password required")
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := deriveKey(password, salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	out := make([]byte, 0, len(encryptionMagic)+len(salt)+len(nonce)+len(ciphertext))
	out = append(out, []byte(encryptionMagic)...)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// DecryptData reverses EncryptData. Fails when the magic header is
// missing, the password is wrong, or the payload was tampered with.
func DecryptData(data []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("decryption password required")
	}
	if len(data) < len(encryptionMagic)+saltLength {
		return nil, fmt.Errorf("encrypted payload too short")
	}
	if string(data[:len(encryptionMagic)]) != encryptionMagic {
		return nil, fmt.Errorf("not an encrypted backup (missing magic header)")
	}
	data = data[len(encryptionMagic):]

	salt := data[:saltLength]
	data = data[saltLength:]

	key := deriveKey(password, salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	if len(data) < gcm.NonceSize() {
		return nil, fmt.Errorf("encrypted payload too short")
	}
	nonce := data[:gcm.NonceSize()]
	ciphertext := data[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt (wrong password or corrupt data): %w", err)
	}
	return plaintext, nil
}

// IsEncrypted reports whether the data carries the encrypted-backup
// magic header.
func IsEncrypted(data []byte) bool {
	return len(data) >= len(encryptionMagic) && string(data[:len(encryptionMagic)]) == encryptionMagic
}
