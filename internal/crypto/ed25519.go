package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
)

// ErrInvalidPrivateKey is returned for private keys that are not a valid
// 64-byte seed‖public-key blob.
var ErrInvalidPrivateKey = errors.New("invalid ed25519 private key")

// GenerateEd25519 returns a new Ed25519 signing key pair.
func GenerateEd25519() (ed25519.PrivateKey, ed25519.PublicKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return priv, pub, nil
}

// KeyFromPrivate parses a hex private key laid out as seed(32)‖pub(32).
// The trailing public key must match the one derived from the seed.
func KeyFromPrivate(privHex string) (ed25519.PrivateKey, error) {
	raw, err := DecodeHex(privHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPrivateKey, len(raw), ed25519.PrivateKeySize)
	}
	priv := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
	if !bytes.Equal(priv[ed25519.SeedSize:], raw[ed25519.SeedSize:]) {
		return nil, fmt.Errorf("%w: public key does not match seed", ErrInvalidPrivateKey)
	}
	return priv, nil
}

// PublicFromPrivate returns the trailing 32 bytes of a 64-byte private key.
func PublicFromPrivate(priv ed25519.PrivateKey) ed25519.PublicKey {
	return priv.Public().(ed25519.PublicKey)
}

// SignEd25519 signs msg with priv and returns the signature.
func SignEd25519(priv ed25519.PrivateKey, msg []byte) []byte {
	return ed25519.Sign(priv, msg)
}

// VerifyEd25519 verifies sig over msg with pub.
func VerifyEd25519(pub ed25519.PublicKey, msg, sig []byte) bool {
	return len(pub) == ed25519.PublicKeySize && ed25519.Verify(pub, msg, sig)
}
