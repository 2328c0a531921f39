package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// CookieKeys derives the cookie signing and encryption keys from one secret.
// The encryption key is 32 bytes, for AES-256.
func CookieKeys(secret string) (hashKey, blockKey []byte, err error) {
	if secret == "" {
		return nil, nil, errors.New("empty session secret")
	}
	hashKey, err = deriveKey(secret, "practicelog cookie signing", 64)
	if err != nil {
		return nil, nil, err
	}
	blockKey, err = deriveKey(secret, "practicelog cookie encryption", 32)
	if err != nil {
		return nil, nil, err
	}
	return hashKey, blockKey, nil
}

func deriveKey(secret, info string, size int) ([]byte, error) {
	key := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", info, err)
	}
	return key, nil
}

// GenerateSecureToken returns length random bytes, hex encoded.
func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
