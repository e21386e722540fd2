package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// RandomCasperAddress generates a well formed ed25519 account public key.
func RandomCasperAddress() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return "01" + hex.EncodeToString(key), nil
}

// RandomDeployHash generates a 32 byte hex deploy hash.
func RandomDeployHash() (string, error) {
	hash := make([]byte, 32)
	if _, err := rand.Read(hash); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash), nil
}

// RandomMotes generates a decimal mote amount with the given digit count.
func RandomMotes(digits int) (string, error) {
	if digits <= 0 {
		return "", fmt.Errorf("digits must be greater than 0")
	}
	raw := make([]byte, digits)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	out := make([]byte, digits)
	for i, b := range raw {
		out[i] = '0' + b%10
	}
	if out[0] == '0' {
		out[0] = '1'
	}
	return string(out), nil
}
