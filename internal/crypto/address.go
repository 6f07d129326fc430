package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// AddressLength is the size of an account address in bytes.
const AddressLength = 20

// Address returns the account address of a raw public key: the first 20
// bytes of its SHA-256 digest, lower-case hex.
func Address(pub []byte) string {
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:AddressLength])
}

// AddressFromPublicKey is Address for a hex public key.
func AddressFromPublicKey(pubHex string) (string, error) {
	pub, err := DecodeHex(pubHex)
	if err != nil {
		return "", fmt.Errorf("decode public key: %w", err)
	}
	return Address(pub), nil
}
