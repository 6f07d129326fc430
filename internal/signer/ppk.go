package signer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/crypto/scrypt"

	"pocketrelay/internal/crypto"
	"pocketrelay/internal/domain"
	"pocketrelay/internal/util/memzero"
)

const (
	ppkKDF = "scrypt"

	saltBytes  = 16
	keyBytes   = 32
	tagBytes   = 16
	nonceBytes = 12 // secparam written on export
)

var (
	// ErrInvalidPPK is returned when a PPK is missing a field or a field is malformed.
	ErrInvalidPPK = errors.New("invalid PPK: one or more of its properties have been tampered with")

	// ErrDecrypt is returned when the password is wrong or the ciphertext has been modified.
	ErrDecrypt = errors.New("ppk decryption failed: wrong password or corrupted ciphertext")

	hexRe = regexp.MustCompile(`^[0-9a-fA-F]+$`)
)

// Tunables for scrypt key derivation.
func scryptParams() (N, r, p int) { return 1 << 15, 8, 1 }

// ExportPPK encrypts a hex private key into a PPK unlockable with password.
func ExportPPK(privHex, password, hint string) (domain.PPK, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return domain.PPK{}, err
	}
	key, err := deriveKey(password, salt)
	if err != nil {
		return domain.PPK{}, err
	}
	defer memzero.Zero(key)

	aead, nonce, err := newAEAD(key, nonceBytes)
	if err != nil {
		return domain.PPK{}, err
	}
	ct := aead.Seal(nil, nonce, []byte(privHex), nil)

	return domain.PPK{
		KDF:        ppkKDF,
		Salt:       crypto.Hex(salt),
		SecParam:   strconv.Itoa(nonceBytes),
		Hint:       hint,
		CipherText: crypto.B64(ct),
	}, nil
}

// FromPPK decrypts a serialized PPK with password and imports the key.
func FromPPK(password string, ppkJSON []byte) (*KeyManager, error) {
	ppk, nonceLen, err := parsePPK(ppkJSON)
	if err != nil {
		return nil, err
	}
	return open(password, ppk, nonceLen)
}

// FromPPKRecord is FromPPK for an already decoded record.
func FromPPKRecord(password string, ppk domain.PPK) (*KeyManager, error) {
	nonceLen, err := validate(ppk)
	if err != nil {
		return nil, err
	}
	return open(password, ppk, nonceLen)
}

// ValidatePPK checks the serialized PPK invariants without decrypting.
func ValidatePPK(ppkJSON []byte) error {
	_, err := ParsePPK(ppkJSON)
	return err
}

// ParsePPK decodes and validates a serialized PPK. A numeric secparam is
// normalized to its string form.
func ParsePPK(ppkJSON []byte) (domain.PPK, error) {
	ppk, _, err := parsePPK(ppkJSON)
	return ppk, err
}

func open(password string, ppk domain.PPK, nonceLen int) (*KeyManager, error) {
	salt, err := crypto.DecodeHex(ppk.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: salt: %v", ErrInvalidPPK, err)
	}
	sealed, err := crypto.UnB64(ppk.CipherText)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext: %v", ErrInvalidPPK, err)
	}
	if len(sealed) <= tagBytes {
		return nil, fmt.Errorf("%w: ciphertext shorter than tag", ErrInvalidPPK)
	}

	key, err := deriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)

	aead, nonce, err := newAEAD(key, nonceLen)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	defer memzero.Zero(pt)

	km, err := FromPrivateKey(string(pt))
	if err != nil {
		return nil, fmt.Errorf("ppk holds an unusable key: %w", err)
	}
	return km, nil
}

func deriveKey(password string, salt []byte) ([]byte, error) {
	N, r, p := scryptParams()
	return scrypt.Key([]byte(password), salt, N, r, p, keyBytes)
}

// newAEAD builds AES-256-GCM over key with a nonce taken from the key's
// leading nonceLen bytes.
func newAEAD(key []byte, nonceLen int) (cipher.AEAD, []byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceLen)
	if err != nil {
		return nil, nil, err
	}
	nonce := append([]byte(nil), key[:nonceLen]...)
	return aead, nonce, nil
}

// ppkWire accepts secparam as either a JSON string or number.
type ppkWire struct {
	KDF        *string         `json:"kdf"`
	Salt       *string         `json:"salt"`
	SecParam   json.RawMessage `json:"secparam"`
	Hint       string          `json:"hint"`
	CipherText *string         `json:"ciphertext"`
}

func parsePPK(data []byte) (domain.PPK, int, error) {
	var w ppkWire
	if err := json.Unmarshal(data, &w); err != nil {
		return domain.PPK{}, 0, fmt.Errorf("%w: %v", ErrInvalidPPK, err)
	}
	if w.KDF == nil || w.Salt == nil || len(w.SecParam) == 0 || w.CipherText == nil {
		return domain.PPK{}, 0, fmt.Errorf("%w: missing field", ErrInvalidPPK)
	}
	ppk := domain.PPK{
		KDF:        *w.KDF,
		Salt:       *w.Salt,
		SecParam:   strings.Trim(string(w.SecParam), `"`),
		Hint:       w.Hint,
		CipherText: *w.CipherText,
	}
	n, err := validate(ppk)
	if err != nil {
		return domain.PPK{}, 0, err
	}
	return ppk, n, nil
}

// validate checks the record invariants and returns the nonce length.
func validate(ppk domain.PPK) (int, error) {
	if ppk.KDF != ppkKDF {
		return 0, fmt.Errorf("%w: unsupported kdf %q", ErrInvalidPPK, ppk.KDF)
	}
	if !hexRe.MatchString(ppk.Salt) {
		return 0, fmt.Errorf("%w: salt is not hex", ErrInvalidPPK)
	}
	n, err := strconv.Atoi(ppk.SecParam)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: secparam %q", ErrInvalidPPK, ppk.SecParam)
	}
	if n > keyBytes {
		return 0, fmt.Errorf("%w: secparam %d exceeds derived key length", ErrInvalidPPK, n)
	}
	if ppk.CipherText == "" {
		return 0, fmt.Errorf("%w: empty ciphertext", ErrInvalidPPK)
	}
	return n, nil
}
