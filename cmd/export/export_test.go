package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/diary/internal/cmdutil"
	"github.com/leefowlercu/diary/internal/config"
	"github.com/leefowlercu/diary/internal/testutil"
)

const entryText = "[Work]\nshipped\n[[Release]]\nv1.0"

func seedEntry(t *testing.T) {
	t.Helper()

	ctx := context.Background()
	d, err := cmdutil.OpenDiary(ctx, config.MustGet(), cmdutil.OpenOptions{})
	if err != nil {
		t.Fatalf("failed to open diary: %v", err)
	}
	defer d.Close()

	if err := d.SaveText(ctx, "2024_03_15", entryText); err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}
}

func TestExportCmd_Formats(t *testing.T) {
	testutil.NewTestEnv(t)
	seedEntry(t)

	tests := []struct {
		format string
		want   string
	}{
		{"text", entryText + "\n"},
		{"json", `{"Work;":"shipped","Work;Release;":"v1.0"}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cmd := createTestCommand()
			cmd.SetArgs([]string{"2024-03-15", "--format", tt.format})
			var stdout bytes.Buffer
			cmd.SetOut(&stdout)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("export command failed: %v", err)
			}
			if stdout.String() != tt.want {
				t.Errorf("output = %q, want %q", stdout.String(), tt.want)
			}
		})
	}
}

func TestExportCmd_OutputFile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	seedEntry(t)
	out := filepath.Join(env.CreateTestDir("out"), "entry.txt")

	cmd := createTestCommand()
	cmd.SetArgs([]string{"2024-03-15", "--output", out})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	if err := cmd.Execute(); err != nil {
		t.Fatalf("export command failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(data) != entryText+"\n" {
		t.Errorf("file content = %q", data)
	}
}

func TestExportCmd_InvalidFormat(t *testing.T) {
	testutil.NewTestEnv(t)

	cmd := createTestCommand()
	cmd.SetArgs([]string{"today", "--format", "xml"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestExportCmd_NotFound(t *testing.T) {
	testutil.NewTestEnv(t)

	cmd := createTestCommand()
	cmd.SetArgs([]string{"missing"})
	cmd.SetOut(new(bytes.Buffer))

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unknown entry")
	}
}

func createTestCommand() *cobra.Command {
	exportFormat = "text"
	exportOutput = ""

	cmd := &cobra.Command{
		Use:     ExportCmd.Use,
		Args:    ExportCmd.Args,
		PreRunE: ExportCmd.PreRunE,
		RunE:    ExportCmd.RunE,
	}
	cmd.Flags().StringVarP(&exportFormat, "format", "f", "text", "")
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "")

	return cmd
}
