package app

import (
	"errors"
	"fmt"

	"pocketrelay/internal/domain"
	"pocketrelay/internal/signer"
	"pocketrelay/internal/store"
)

// ErrAccountExists is returned when creating or importing over a stored account.
var ErrAccountExists = errors.New("account already exists")

// App manages named accounts on top of a PPK store.
type App struct {
	keys domain.PPKStore
}

// New returns an App over keys.
func New(keys domain.PPKStore) *App {
	return &App{keys: keys}
}

// NewAccount generates a key and stores it under name, encrypted with password.
func (a *App) NewAccount(name, password, hint string) (*signer.KeyManager, error) {
	km, err := signer.CreateRandom()
	if err != nil {
		return nil, err
	}
	if err := a.save(name, km, password, hint); err != nil {
		return nil, err
	}
	return km, nil
}

// ImportAccount stores a hex private key under name, encrypted with password.
func (a *App) ImportAccount(name, privateKey, password, hint string) (*signer.KeyManager, error) {
	km, err := signer.FromPrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	if err := a.save(name, km, password, hint); err != nil {
		return nil, err
	}
	return km, nil
}

// ImportPPK stores a PPK file under name after checking password opens it.
func (a *App) ImportPPK(name string, raw []byte, password string) (*signer.KeyManager, error) {
	ppk, err := signer.ParsePPK(raw)
	if err != nil {
		return nil, err
	}
	km, err := signer.FromPPKRecord(password, ppk)
	if err != nil {
		return nil, err
	}
	if err := a.ensureFree(name); err != nil {
		return nil, err
	}
	return km, a.keys.SavePPK(name, ppk)
}

// ExportPPK returns the stored PPK for name.
func (a *App) ExportPPK(name string) (domain.PPK, error) {
	return a.keys.LoadPPK(name)
}

// Unlock decrypts the account stored under name.
func (a *App) Unlock(name, password string) (*signer.KeyManager, error) {
	ppk, err := a.keys.LoadPPK(name)
	if err != nil {
		return nil, err
	}
	km, err := signer.FromPPKRecord(password, ppk)
	if err != nil {
		return nil, fmt.Errorf("unlock %s: %w", name, err)
	}
	return km, nil
}

// Accounts lists stored account names.
func (a *App) Accounts() ([]string, error) {
	return a.keys.ListPPKs()
}

func (a *App) save(name string, km *signer.KeyManager, password, hint string) error {
	if err := a.ensureFree(name); err != nil {
		return err
	}
	ppk, err := km.ExportPPK(password, hint)
	if err != nil {
		return err
	}
	return a.keys.SavePPK(name, ppk)
}

func (a *App) ensureFree(name string) error {
	_, err := a.keys.LoadPPK(name)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrAccountExists, name)
	case errors.Is(err, store.ErrNotFound):
		return nil
	}
	return err
}
