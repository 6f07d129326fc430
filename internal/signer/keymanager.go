package signer

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"pocketrelay/internal/crypto"
	"pocketrelay/internal/domain"
)

// ErrNotConnected is returned when signing with a KeyManager that holds no key.
var ErrNotConnected = errors.New("key manager has no account attached")

// KeyManager holds one account: address, public key and private key.
type KeyManager struct {
	address    string
	publicKey  string
	privateKey ed25519.PrivateKey
}

var _ domain.Signer = (*KeyManager)(nil)

// CreateRandom generates a new account from the system CSPRNG.
func CreateRandom() (*KeyManager, error) {
	priv, _, err := crypto.GenerateEd25519()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return newKeyManager(priv), nil
}

// FromPrivateKey imports a hex private key laid out as seed(32)‖pub(32).
func FromPrivateKey(privHex string) (*KeyManager, error) {
	priv, err := crypto.KeyFromPrivate(privHex)
	if err != nil {
		return nil, err
	}
	return newKeyManager(priv), nil
}

func newKeyManager(priv ed25519.PrivateKey) *KeyManager {
	pub := crypto.PublicFromPrivate(priv)
	return &KeyManager{
		address:    crypto.Address(pub),
		publicKey:  crypto.Hex(pub),
		privateKey: priv,
	}
}

// Sign decodes payloadHex and returns the hex Ed25519 signature of the bytes.
func (k *KeyManager) Sign(payloadHex string) (string, error) {
	if !k.IsConnected() {
		return "", ErrNotConnected
	}
	msg, err := crypto.DecodeHex(payloadHex)
	if err != nil {
		return "", fmt.Errorf("decode payload: %w", err)
	}
	return crypto.Hex(crypto.SignEd25519(k.privateKey, msg)), nil
}

// Address returns the account address (20 bytes, hex).
func (k *KeyManager) Address() string { return k.address }

// PublicKey returns the hex public key.
func (k *KeyManager) PublicKey() string { return k.publicKey }

// PrivateKey returns the hex private key.
func (k *KeyManager) PrivateKey() string { return crypto.Hex(k.privateKey) }

// Account returns address and both keys.
func (k *KeyManager) Account() domain.Account {
	return domain.Account{
		Address:    k.address,
		PublicKey:  k.publicKey,
		PrivateKey: k.PrivateKey(),
	}
}

// IsConnected reports whether all parts of the account are present.
func (k *KeyManager) IsConnected() bool {
	return k != nil && k.address != "" && k.publicKey != "" && len(k.privateKey) == ed25519.PrivateKeySize
}

// ExportPPK encrypts the held private key with password.
func (k *KeyManager) ExportPPK(password, hint string) (domain.PPK, error) {
	if !k.IsConnected() {
		return domain.PPK{}, ErrNotConnected
	}
	return ExportPPK(k.PrivateKey(), password, hint)
}
