package cmdutil

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leefowlercu/diary/internal/config"
	"github.com/leefowlercu/diary/internal/converter"
	"github.com/leefowlercu/diary/internal/diary"
	"github.com/leefowlercu/diary/internal/testutil"
)

func TestConverterOptions(t *testing.T) {
	cfg := config.NewDefaultConfig().Format
	cfg.CategoryPrefix = "<"
	cfg.CategorySuffix = ">"
	cfg.Strict = true

	opts := ConverterOptions(cfg)
	if opts.Delimiters.CategoryPrefix != "<" || opts.Delimiters.CategorySuffix != ">" {
		t.Errorf("unexpected delimiters %+v", opts.Delimiters)
	}
	if opts.Separator != ";" {
		t.Errorf("Separator = %q, want %q", opts.Separator, ";")
	}
	if opts.Policy != converter.PolicyStrict {
		t.Errorf("Policy = %v, want strict", opts.Policy)
	}

	cfg.Strict = false
	if got := ConverterOptions(cfg).Policy; got != converter.PolicyLenient {
		t.Errorf("Policy = %v, want lenient", got)
	}
}

func TestOpenDiary_Unencrypted(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx := context.Background()

	d, err := OpenDiary(ctx, config.MustGet(), OpenOptions{})
	if err != nil {
		t.Fatalf("OpenDiary error = %v", err)
	}
	defer d.Close()

	if d.Workspace() != env.WorkspaceDir() {
		t.Errorf("Workspace() = %q, want %q", d.Workspace(), env.WorkspaceDir())
	}
	if err := d.SaveText(ctx, "2024_03_15", "[Work]\nshipped"); err != nil {
		t.Fatalf("SaveText error = %v", err)
	}
}

func TestOpenDiary_PromptsForPassword(t *testing.T) {
	testutil.NewTestEnv(t)
	ctx := context.Background()

	prompts := 0
	orig := PasswordPrompt
	PasswordPrompt = func(prompt string) ([]byte, error) {
		prompts++
		return []byte("secret"), nil
	}
	t.Cleanup(func() { PasswordPrompt = orig })

	cfg := config.MustGet()
	cfg.Encryption.Enabled = true
	cfg.Encryption.Iterations = config.MinEncryptionIterations

	d, err := OpenDiary(ctx, cfg, OpenOptions{})
	if err != nil {
		t.Fatalf("OpenDiary error = %v", err)
	}
	d.Close()

	if prompts != 1 {
		t.Errorf("prompts = %d, want 1", prompts)
	}
}

func TestOpenDiary_PasswordFromEnv(t *testing.T) {
	testutil.NewTestEnv(t)
	t.Setenv("DIARY_PASSWORD", "from-env")

	orig := PasswordPrompt
	PasswordPrompt = func(string) ([]byte, error) {
		t.Fatal("prompt should not be used when the password is configured")
		return nil, nil
	}
	t.Cleanup(func() { PasswordPrompt = orig })

	cfg := config.MustGet()
	cfg.Encryption.Enabled = true
	cfg.Encryption.Iterations = config.MinEncryptionIterations

	d, err := OpenDiary(context.Background(), cfg, OpenOptions{})
	if err != nil {
		t.Fatalf("OpenDiary error = %v", err)
	}
	d.Close()
}

func TestOpenDiary_EmptyPassword(t *testing.T) {
	testutil.NewTestEnv(t)

	orig := PasswordPrompt
	PasswordPrompt = func(string) ([]byte, error) { return nil, nil }
	t.Cleanup(func() { PasswordPrompt = orig })

	cfg := config.MustGet()
	cfg.Encryption.Enabled = true

	_, err := OpenDiary(context.Background(), cfg, OpenOptions{})
	if !errors.Is(err, diary.ErrPasswordRequired) {
		t.Errorf("expected ErrPasswordRequired, got %v", err)
	}
}

func TestReadInput(t *testing.T) {
	got, err := ReadInput(strings.NewReader("[Work]\nshipped\n\n"))
	if err != nil {
		t.Fatalf("ReadInput error = %v", err)
	}
	if got != "[Work]\nshipped" {
		t.Errorf("ReadInput = %q", got)
	}
}
