package diary

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/leefowlercu/diary/internal/encryption"
	"github.com/leefowlercu/diary/internal/storage"
)

// Meta keys describing how the diary is sealed.
const (
	metaEncryption = "encryption"
	metaSalt       = "salt"
	metaIterations = "iterations"
	metaCheck      = "check"
)

const (
	modePassword = "password"
	modeNone     = "none"
)

// checkToken is sealed at creation so a wrong password fails at open time
// rather than on the first entry read.
var checkToken = []byte("diary-check-v1")

// setupEncryption returns the encryptor for the diary, recording the
// encryption settings the first time the diary is opened.
func setupEncryption(ctx context.Context, store *storage.Storage, password []byte, iterations int) (encryption.Encryptor, error) {
	mode, err := store.GetMeta(ctx, metaEncryption)
	if errors.Is(err, storage.ErrMetaNotFound) {
		return initEncryption(ctx, store, password, iterations)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read encryption mode; %w", err)
	}

	switch string(mode) {
	case modeNone:
		if len(password) > 0 {
			return nil, ErrNotEncrypted
		}
		return encryption.Passthrough{}, nil
	case modePassword:
		if len(password) == 0 {
			return nil, ErrPasswordRequired
		}
		return openEncryption(ctx, store, password)
	default:
		return nil, fmt.Errorf("unknown encryption mode %q", mode)
	}
}

func initEncryption(ctx context.Context, store *storage.Storage, password []byte, iterations int) (encryption.Encryptor, error) {
	if len(password) == 0 {
		if err := store.SetMeta(ctx, metaEncryption, []byte(modeNone)); err != nil {
			return nil, fmt.Errorf("failed to record encryption mode; %w", err)
		}
		return encryption.Passthrough{}, nil
	}

	salt, err := encryption.NewSalt()
	if err != nil {
		return nil, err
	}
	enc, err := encryption.NewPassword(password, salt, iterations)
	if err != nil {
		return nil, err
	}
	check, err := enc.Encrypt(checkToken)
	if err != nil {
		return nil, err
	}

	meta := []struct {
		key   string
		value []byte
	}{
		{metaSalt, salt},
		{metaIterations, []byte(strconv.Itoa(enc.Iterations()))},
		{metaCheck, check},
		{metaEncryption, []byte(modePassword)},
	}
	for _, m := range meta {
		if err := store.SetMeta(ctx, m.key, m.value); err != nil {
			return nil, fmt.Errorf("failed to record %s; %w", m.key, err)
		}
	}

	return enc, nil
}

func openEncryption(ctx context.Context, store *storage.Storage, password []byte) (encryption.Encryptor, error) {
	salt, err := store.GetMeta(ctx, metaSalt)
	if err != nil {
		return nil, fmt.Errorf("failed to read salt; %w", err)
	}
	rawIterations, err := store.GetMeta(ctx, metaIterations)
	if err != nil {
		return nil, fmt.Errorf("failed to read iterations; %w", err)
	}
	iterations, err := strconv.Atoi(string(rawIterations))
	if err != nil {
		return nil, fmt.Errorf("failed to parse iterations %q; %w", rawIterations, err)
	}
	check, err := store.GetMeta(ctx, metaCheck)
	if err != nil {
		return nil, fmt.Errorf("failed to read check token; %w", err)
	}

	enc, err := encryption.NewPassword(password, salt, iterations)
	if err != nil {
		return nil, err
	}
	if _, err := enc.Decrypt(check); err != nil {
		return nil, err
	}

	return enc, nil
}
