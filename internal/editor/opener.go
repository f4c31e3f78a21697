// Package editor opens entry files in the user's editor.
package editor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrNoEditor is returned when no editor can be found.
var ErrNoEditor = errors.New("no editor found: set editor.command or $EDITOR")

// fallbacks are tried in order when neither the config nor the environment
// names an editor.
var fallbacks = []string{"nvim", "vim", "vi", "nano"}

// Opener launches an editor on a file.
type Opener struct {
	command string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// Option configures an Opener.
type Option func(*Opener)

// WithStdio overrides the streams handed to the editor.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(o *Opener) {
		o.stdin = stdin
		o.stdout = stdout
		o.stderr = stderr
	}
}

// NewOpener creates an opener. command may carry arguments, e.g.
// "code --wait"; an empty command falls back to $VISUAL, $EDITOR and
// common editors on PATH.
func NewOpener(command string, opts ...Option) *Opener {
	o := &Opener{
		command: strings.TrimSpace(command),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OpenFile opens path in the editor and waits for it to exit.
func (o *Opener) OpenFile(ctx context.Context, path string) error {
	cmd, err := o.Command(ctx, path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns the exec.Cmd that opens path.
func (o *Opener) Command(ctx context.Context, path string) (*exec.Cmd, error) {
	argv := strings.Fields(o.findEditor())
	if len(argv) == 0 {
		return nil, ErrNoEditor
	}

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin = o.stdin
	cmd.Stdout = o.stdout
	cmd.Stderr = o.stderr

	return cmd, nil
}

// findEditor returns the editor command line to use.
func (o *Opener) findEditor() string {
	if o.command != "" {
		return o.command
	}

	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	for _, editor := range fallbacks {
		if path, err := exec.LookPath(editor); err == nil {
			return path
		}
	}

	return ""
}
