package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	RecoveryCodeLength = 8
	NumRecoveryCodes   = 10
)

// GenerateRecoveryCodes generates a set of random recovery codes
func GenerateRecoveryCodes() ([]string, error) {
	codes := make([]string, NumRecoveryCodes)

	for i := 0; i < NumRecoveryCodes; i++ {
		bytes := make([]byte, RecoveryCodeLength/2)
		if _, err := rand.Read(bytes); err != nil {
			return nil, err
		}

		code := strings.ToUpper(hex.EncodeToString(bytes))
		// Insert hyphen in middle for readability
		codes[i] = code[:4] + "-" + code[4:]
	}

	return codes, nil
}

const (
	argonIterations  = 3
	argonMemory      = 64 * 1024
	argonParallelism = 2
	argonKeyLength   = 32
)

// HashRecoveryCode hashes a single recovery code for storage.
func HashRecoveryCode(code string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.New("failed to generate salt")
	}

	hash := argon2.IDKey([]byte(code), salt, argonIterations, argonMemory, argonParallelism, argonKeyLength)

	encodedHash := base64.RawStdEncoding.EncodeToString(hash)
	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	return encodedSalt + "$" + encodedHash, nil
}

// HashRecoveryCodes hashes the recovery codes for storage
func HashRecoveryCodes(codes []string) ([]string, error) {
	hashedCodes := make([]string, len(codes))
	for i, code := range codes {
		hashed, err := HashRecoveryCode(code)
		if err != nil {
			return nil, err
		}
		hashedCodes[i] = hashed
	}
	return hashedCodes, nil
}

// VerifyRecoveryCode checks a code against a stored salt$hash value.
func VerifyRecoveryCode(code, stored string) bool {
	parts := strings.SplitN(stored, "$", 2)
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	got := argon2.IDKey([]byte(code), salt, argonIterations, argonMemory, argonParallelism, argonKeyLength)
	return subtle.ConstantTimeCompare(got, want) == 1
}
