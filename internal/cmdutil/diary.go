// Package cmdutil holds helpers shared by the CLI commands.
package cmdutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/leefowlercu/diary/internal/config"
	"github.com/leefowlercu/diary/internal/converter"
	"github.com/leefowlercu/diary/internal/diary"
	"github.com/leefowlercu/diary/internal/events"
	"github.com/leefowlercu/diary/internal/textformat"
)

// PasswordPrompt reads a password from the terminal. Tests replace it.
var PasswordPrompt = promptPassword

// ConverterOptions builds converter options from the format config.
func ConverterOptions(cfg config.FormatConfig) converter.Options {
	opts := converter.Options{
		Delimiters: textformat.Delimiters{
			CategoryPrefix:    cfg.CategoryPrefix,
			CategorySuffix:    cfg.CategorySuffix,
			SubcategoryPrefix: cfg.SubcategoryPrefix,
			SubcategorySuffix: cfg.SubcategorySuffix,
		},
		Separator: cfg.Separator,
		Policy:    converter.PolicyLenient,
	}
	if cfg.Strict {
		opts.Policy = converter.PolicyStrict
	}
	return opts
}

// OpenOptions tweaks OpenDiary.
type OpenOptions struct {
	Bus    events.Bus
	Logger *slog.Logger
}

// OpenDiary opens the diary described by cfg. When encryption is enabled
// and no password is configured, the password is read from the terminal.
func OpenDiary(ctx context.Context, cfg *config.Config, opts OpenOptions) (*diary.Diary, error) {
	var password []byte
	if cfg.Encryption.Enabled {
		pw, err := resolvePassword(&cfg.Encryption)
		if err != nil {
			return nil, err
		}
		password = pw
	}

	if err := os.MkdirAll(config.ExpandHome(cfg.Diary.Root), 0700); err != nil {
		return nil, fmt.Errorf("failed to create diary root; %w", err)
	}

	d, err := diary.Open(ctx, diary.Options{
		DatabasePath: cfg.Diary.DatabasePath(),
		WorkspaceDir: cfg.Diary.WorkspacePath(),
		Converter:    ConverterOptions(cfg.Format),
		Password:     password,
		Iterations:   cfg.Encryption.Iterations,
		Bus:          opts.Bus,
		Logger:       opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open diary; %w", err)
	}
	return d, nil
}

func resolvePassword(cfg *config.EncryptionConfig) ([]byte, error) {
	if pw := cfg.ResolvePassword(); pw != "" {
		return []byte(pw), nil
	}
	pw, err := PasswordPrompt("Diary password: ")
	if err != nil {
		return nil, err
	}
	if len(pw) == 0 {
		return nil, diary.ErrPasswordRequired
	}
	return pw, nil
}

func promptPassword(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, diary.ErrPasswordRequired
	}

	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read password; %w", err)
	}
	return pw, nil
}

// ReadInput reads all of r, used by commands that accept text on stdin.
func ReadInput(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input; %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
