package pkg

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Casper account public keys are hex encoded with a one byte algorithm tag.
const (
	ed25519Tag   = "01"
	secp256k1Tag = "02"

	ed25519HexLen   = 2 + 64
	secp256k1HexLen = 2 + 66
)

// ValidateCasperAddress checks that the address is a well formed Casper
// account public key in hex form.
func ValidateCasperAddress(address string) error {
	lower := strings.ToLower(address)
	if _, err := hex.DecodeString(lower); err != nil {
		return fmt.Errorf("address is not valid hex: %w", err)
	}

	switch {
	case strings.HasPrefix(lower, ed25519Tag) && len(lower) == ed25519HexLen:
		return nil
	case strings.HasPrefix(lower, secp256k1Tag) && len(lower) == secp256k1HexLen:
		return nil
	default:
		return fmt.Errorf("unrecognized address format (len %d)", len(address))
	}
}
