package store

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrNotFound is returned when no PPK is stored under a name.
	ErrNotFound = errors.New("no key stored under that name")

	// ErrInvalidName is returned for account names that are not safe file names.
	ErrInvalidName = errors.New("invalid account name")
)

var nameRe = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9._-]{0,63}$`)

func checkName(name string) error {
	if !nameRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
