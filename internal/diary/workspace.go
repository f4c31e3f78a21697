package diary

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Workspace returns the directory entries are unpacked into.
func (d *Diary) Workspace() string {
	return d.workspace
}

// TextPath returns the workspace file for an entry.
func (d *Diary) TextPath(name string) string {
	return filepath.Join(d.workspace, name+TextExtension)
}

// Unpack writes the entry stored under name to its workspace file and
// returns the file path. An existing workspace file is left untouched so
// unsaved edits survive; an unknown entry yields an empty file.
func (d *Diary) Unpack(ctx context.Context, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if d.workspace == "" {
		return "", fmt.Errorf("no workspace directory configured")
	}

	path := d.TextPath(name)
	if _, err := os.Stat(path); err == nil {
		d.logger.Debug("workspace file exists; reusing", "path", path)
		return path, nil
	}

	text, err := d.LoadText(ctx, name)
	if err != nil && !errors.Is(err, ErrEntryNotFound) {
		return "", err
	}

	if err := os.MkdirAll(d.workspace, 0700); err != nil {
		return "", fmt.Errorf("failed to create workspace; %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		return "", fmt.Errorf("failed to write workspace file; %w", err)
	}

	d.logger.Debug("entry unpacked", "name", name, "path", path)
	return path, nil
}

// Ingest saves the text file at path under the entry name derived from
// its filename and returns that name.
func (d *Diary) Ingest(ctx context.Context, path string) (string, error) {
	name := NameFromFilename(path)
	if err := ValidateName(name); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s; %w", path, err)
	}

	if err := d.SaveText(ctx, name, string(data)); err != nil {
		return "", err
	}
	return name, nil
}

// Pack ingests the workspace file of name and, unless keep is set, removes
// it afterwards.
func (d *Diary) Pack(ctx context.Context, name string, keep bool) error {
	path := d.TextPath(name)
	if _, err := d.Ingest(ctx, path); err != nil {
		return err
	}
	if keep {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove workspace file; %w", err)
	}
	return nil
}
