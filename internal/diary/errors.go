package diary

import (
	"errors"

	"github.com/leefowlercu/diary/internal/encryption"
	"github.com/leefowlercu/diary/internal/storage"
)

var (
	// ErrEntryNotFound is returned when no entry is stored under a name.
	ErrEntryNotFound = storage.ErrEntryNotFound

	// ErrAuthentication is returned when the password does not open the
	// diary or an entry payload fails authentication.
	ErrAuthentication = encryption.ErrAuthentication

	// ErrInvalidName is returned for entry names that cannot be used as a
	// workspace file name.
	ErrInvalidName = errors.New("invalid entry name")

	// ErrPasswordRequired is returned when an encrypted diary is opened
	// without a password.
	ErrPasswordRequired = errors.New("diary is encrypted; a password is required")

	// ErrNotEncrypted is returned when a password is supplied for a diary
	// created without encryption.
	ErrNotEncrypted = errors.New("diary is not encrypted; remove the password or create a new diary")
)
