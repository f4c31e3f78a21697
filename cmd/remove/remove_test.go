package remove

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/diary/internal/cmdutil"
	"github.com/leefowlercu/diary/internal/config"
	"github.com/leefowlercu/diary/internal/diary"
	"github.com/leefowlercu/diary/internal/testutil"
)

func TestRemoveCmd(t *testing.T) {
	testutil.NewTestEnv(t)
	ctx := context.Background()

	d, err := cmdutil.OpenDiary(ctx, config.MustGet(), cmdutil.OpenOptions{})
	if err != nil {
		t.Fatalf("failed to open diary: %v", err)
	}
	if err := d.SaveText(ctx, "ideas", "[Ideas]\nwrite more"); err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}
	stale, err := d.Unpack(ctx, "ideas")
	if err != nil {
		t.Fatalf("failed to unpack: %v", err)
	}
	d.Close()

	cmd := createTestCommand()
	cmd.SetArgs([]string{"ideas"})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("remove command failed: %v", err)
	}
	if stdout.String() != "Removed ideas\n" {
		t.Errorf("output = %q", stdout.String())
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("workspace file should be removed")
	}

	d, err = cmdutil.OpenDiary(ctx, config.MustGet(), cmdutil.OpenOptions{})
	if err != nil {
		t.Fatalf("failed to reopen diary: %v", err)
	}
	defer d.Close()
	if _, err := d.LoadDocument(ctx, "ideas"); !errors.Is(err, diary.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestRemoveCmd_NotFound(t *testing.T) {
	testutil.NewTestEnv(t)

	cmd := createTestCommand()
	cmd.SetArgs([]string{"missing"})
	cmd.SetOut(new(bytes.Buffer))

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unknown entry")
	}
}

func createTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:     RemoveCmd.Use,
		Args:    RemoveCmd.Args,
		PreRunE: RemoveCmd.PreRunE,
		RunE:    RemoveCmd.RunE,
	}
}
