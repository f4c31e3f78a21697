package importer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/diary/internal/cmdutil"
	"github.com/leefowlercu/diary/internal/config"
	"github.com/leefowlercu/diary/internal/testutil"
)

func loadText(t *testing.T, name string) string {
	t.Helper()

	ctx := context.Background()
	d, err := cmdutil.OpenDiary(ctx, config.MustGet(), cmdutil.OpenOptions{})
	if err != nil {
		t.Fatalf("failed to open diary: %v", err)
	}
	defer d.Close()

	text, err := d.LoadText(ctx, name)
	if err != nil {
		t.Fatalf("LoadText(%s) error = %v", name, err)
	}
	return text
}

func TestImportCmd_Files(t *testing.T) {
	env := testutil.NewTestEnv(t)
	dir := env.CreateTestDir("import")
	first := env.CreateTestFile(dir, "2024_03_15.txt", "[Work]\nshipped\n")
	second := env.CreateTestFile(dir, "ideas.txt", "[Ideas]\n  write more  \n")

	cmd := createTestCommand()
	cmd.SetArgs([]string{first, second})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("import command failed: %v", err)
	}

	if !strings.Contains(stdout.String(), "as 2024_03_15") || !strings.Contains(stdout.String(), "as ideas") {
		t.Errorf("unexpected output %q", stdout.String())
	}
	if got := loadText(t, "ideas"); got != "[Ideas]\nwrite more" {
		t.Errorf("stored text = %q", got)
	}
}

func TestImportCmd_Stdin(t *testing.T) {
	testutil.NewTestEnv(t)

	cmd := createTestCommand()
	cmd.SetArgs([]string{"-", "--name", "trip"})
	cmd.SetIn(strings.NewReader("[Travel]\nLisbon\n"))
	cmd.SetOut(new(bytes.Buffer))

	if err := cmd.Execute(); err != nil {
		t.Fatalf("import command failed: %v", err)
	}
	if got := loadText(t, "trip"); got != "[Travel]\nLisbon" {
		t.Errorf("stored text = %q", got)
	}
}

func TestImportCmd_Validation(t *testing.T) {
	testutil.NewTestEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"stdin without name", []string{"-"}},
		{"stdin with files", []string{"-", "a.txt", "--name", "x"}},
		{"invalid name", []string{"-", "--name", "../x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := createTestCommand()
			cmd.SetArgs(tt.args)
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetErr(new(bytes.Buffer))

			if err := cmd.Execute(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestImportCmd_MissingFile(t *testing.T) {
	testutil.NewTestEnv(t)

	cmd := createTestCommand()
	cmd.SetArgs([]string{"/nonexistent/2024_03_15.txt"})
	cmd.SetOut(new(bytes.Buffer))

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for missing file")
	}
}

func createTestCommand() *cobra.Command {
	importName = ""

	cmd := &cobra.Command{
		Use:     ImportCmd.Use,
		Args:    ImportCmd.Args,
		PreRunE: ImportCmd.PreRunE,
		RunE:    ImportCmd.RunE,
	}
	cmd.Flags().StringVarP(&importName, "name", "n", "", "")

	return cmd
}
