package util

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

const (
	argon2Prefix  = "argon2id"
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

var (
	jwtSecretByte = []byte(getEnv("JWTSECRET", ""))
	jwtMutex      sync.RWMutex
)

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// SetJWTSecret updates the secret used to sign session tokens. Tests using
// this should avoid parallel execution if they need deterministic values.
func SetJWTSecret(secret string) {
	jwtMutex.Lock()
	defer jwtMutex.Unlock()
	jwtSecretByte = []byte(secret)
}

// GetJWTSecretByte returns a copy of the current JWT secret bytes.
func GetJWTSecretByte() []byte {
	jwtMutex.RLock()
	defer jwtMutex.RUnlock()
	return append([]byte(nil), jwtSecretByte...)
}

// GenerateSalt returns a random base64 salt for HashPasswordArgon2.
func GenerateSalt() (string, error) {
	b := make([]byte, saltLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return base64.RawStdEncoding.EncodeToString(b), nil
}

// HashPasswordArgon2 hashes password with argon2id and returns the encoded
// form "argon2id$<salt>$<hash>".
func HashPasswordArgon2(password, salt string) (string, error) {
	rawSalt, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("decode salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), rawSalt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	return strings.Join([]string{argon2Prefix, salt, base64.RawStdEncoding.EncodeToString(key)}, "$"), nil
}

// VerifyPassword checks password against an encoded argon2id hash in constant time.
func VerifyPassword(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != argon2Prefix {
		return false, fmt.Errorf("unsupported password hash format")
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}
	computed, err := HashPasswordArgon2(password, parts[1])
	if err != nil {
		return false, err
	}
	actual, _ := base64.RawStdEncoding.DecodeString(strings.Split(computed, "$")[2])
	return subtle.ConstantTimeCompare(expected, actual) == 1, nil
}

// Argon2Hasher is the password hasher used for staff accounts.
type Argon2Hasher struct{}

func (Argon2Hasher) Hash(plain string) (string, error) {
	salt, err := GenerateSalt()
	if err != nil {
		return "", err
	}
	return HashPasswordArgon2(plain, salt)
}

func (Argon2Hasher) Verify(plain, stored string) (bool, error) {
	return VerifyPassword(plain, stored)
}
