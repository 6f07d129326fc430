package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/99designs/keyring"

	"pocketrelay/internal/domain"
)

// ServiceName is the keyring service PPKs are stored under.
const ServiceName = "pocketrelay"

const keyPrefix = "ppk:"

// KeyringStore keeps PPK JSON in a keyring.
type KeyringStore struct {
	ring keyring.Keyring
}

var _ domain.PPKStore = (*KeyringStore)(nil)

// NewKeyringStore wraps an opened keyring.
func NewKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

// OpenKeyringStore opens the system keyring for ServiceName.
func OpenKeyringStore() (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{ServiceName: ServiceName})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return NewKeyringStore(ring), nil
}

// SavePPK stores ppk under name, replacing any previous key.
func (s *KeyringStore) SavePPK(name string, ppk domain.PPK) error {
	if err := checkName(name); err != nil {
		return err
	}
	b, err := json.Marshal(ppk)
	if err != nil {
		return err
	}
	return s.ring.Set(keyring.Item{
		Key:         keyPrefix + name,
		Data:        b,
		Label:       "Pocket PPK " + name,
		Description: "password-encrypted Pocket private key",
	})
}

// LoadPPK returns the PPK stored under name.
func (s *KeyringStore) LoadPPK(name string) (domain.PPK, error) {
	if err := checkName(name); err != nil {
		return domain.PPK{}, err
	}
	item, err := s.ring.Get(keyPrefix + name)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return domain.PPK{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return domain.PPK{}, fmt.Errorf("load %s: %w", name, err)
	}
	var ppk domain.PPK
	if err := json.Unmarshal(item.Data, &ppk); err != nil {
		return domain.PPK{}, fmt.Errorf("load %s: %w", name, err)
	}
	return ppk, nil
}

// ListPPKs returns the stored account names in lexical order.
func (s *KeyringStore) ListPPKs() ([]string, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, k := range keys {
		if name, ok := strings.CutPrefix(k, keyPrefix); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
