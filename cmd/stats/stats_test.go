package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/diary/internal/cmdutil"
	"github.com/leefowlercu/diary/internal/config"
	"github.com/leefowlercu/diary/internal/report"
	"github.com/leefowlercu/diary/internal/testutil"
)

func seed(t *testing.T) {
	t.Helper()

	ctx := context.Background()
	d, err := cmdutil.OpenDiary(ctx, config.MustGet(), cmdutil.OpenOptions{})
	if err != nil {
		t.Fatalf("failed to open diary: %v", err)
	}
	defer d.Close()

	entries := map[string]string{
		"2024_03_15": "[Work]\nshipped\n[[Release]]\nv1.0",
		"2024_03_16": "[Work]\nreviews\n[Home]\npainted",
	}
	for name, text := range entries {
		if err := d.SaveText(ctx, name, text); err != nil {
			t.Fatalf("failed to seed %s: %v", name, err)
		}
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := createTestCommand()
	cmd.SetArgs(args)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestStatsCmd_WholeDiary(t *testing.T) {
	testutil.NewTestEnv(t)
	seed(t)

	out, _, err := execute(t, "--format", "json")
	if err != nil {
		t.Fatalf("stats command failed: %v", err)
	}

	var r report.IndexReport
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if r.TotalSize != 25 {
		t.Errorf("TotalSize = %d, want 25", r.TotalSize)
	}
	if len(r.Categories) != 2 || r.Categories[0].Name != "Work" || r.Categories[0].Size != 18 {
		t.Errorf("unexpected categories %+v", r.Categories)
	}
}

func TestStatsCmd_Subtree(t *testing.T) {
	testutil.NewTestEnv(t)
	seed(t)

	out, _, err := execute(t, "Work;Release", "--format", "json")
	if err != nil {
		t.Fatalf("stats command failed: %v", err)
	}

	var r report.IndexReport
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if r.Path != "Work;Release;" || r.TotalSize != 4 {
		t.Errorf("unexpected report %+v", r)
	}
	if r.Files["2024_03_15"] != 4 {
		t.Errorf("Files = %v", r.Files)
	}
}

func TestStatsCmd_Check(t *testing.T) {
	testutil.NewTestEnv(t)
	seed(t)

	out, stderr, err := execute(t, "--check")
	if err != nil {
		t.Fatalf("stats command failed: %v", err)
	}
	if !strings.Contains(out, "Work") {
		t.Errorf("table output missing category: %q", out)
	}
	if !strings.Contains(stderr, "Index check passed") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestStatsCmd_UnknownCategory(t *testing.T) {
	testutil.NewTestEnv(t)
	seed(t)

	if _, _, err := execute(t, "Garden"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestStatsCmd_Validation(t *testing.T) {
	testutil.NewTestEnv(t)

	for _, args := range [][]string{{"--format", "xml"}, {"--depth", "-1"}} {
		if _, _, err := execute(t, args...); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func createTestCommand() *cobra.Command {
	statsFormat = "table"
	statsDepth = 0
	statsCheck = false

	cmd := &cobra.Command{
		Use:     StatsCmd.Use,
		Args:    StatsCmd.Args,
		PreRunE: StatsCmd.PreRunE,
		RunE:    StatsCmd.RunE,
	}
	cmd.Flags().StringVarP(&statsFormat, "format", "f", "table", "")
	cmd.Flags().IntVarP(&statsDepth, "depth", "d", 0, "")
	cmd.Flags().BoolVar(&statsCheck, "check", false, "")

	return cmd
}
