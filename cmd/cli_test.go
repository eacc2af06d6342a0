package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := Execute(context.Background())
	return out.String(), err
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	content := strings.Join([]string{
		"log:",
		"  level: error",
		"database:",
		"  driver: sqlite",
		"  dsn: " + filepath.Join(dir, "cq.sqlite"),
		"cache:",
		"  driver: sqlite",
		"auth:",
		"  jwt_secret: cli-secret",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestComplaintWorkflowThroughCLI(t *testing.T) {
	config := writeTestConfig(t)
	mustRun := func(args ...string) string {
		t.Helper()
		out, err := runCLI(t, append(args, "--config", config)...)
		if err != nil {
			t.Fatalf("%v error = %v", args, err)
		}
		return out
	}

	if out := mustRun("init-db"); !strings.Contains(out, "database schema initialized") {
		t.Fatalf("init-db output = %q", out)
	}
	mustRun("user", "add", "--id", "m-1", "--name", "Marta", "--role", "SINDICO")
	mustRun("user", "add", "--id", "r-1", "--name", "Ana", "--role", "MORADOR", "--apartment", "101")

	out := mustRun("complaint", "create", "--as", "r-1", "--category", "LIMPEZA", "--urgency", "ALTA", "--description", "Trash room smells")
	fields := strings.Fields(out)
	if len(fields) < 2 || fields[0] != "complaint" {
		t.Fatalf("create output = %q", out)
	}
	complaintID := fields[1]

	if _, err := runCLI(t, "complaint", "status", complaintID, "EM_ANALISE", "--as", "r-1", "--config", config); err == nil {
		t.Fatalf("resident status change succeeded, want forbidden")
	}
	out = mustRun("complaint", "status", complaintID, "EM_ANALISE", "--as", "m-1", "--reason", "checking")
	if !strings.Contains(out, "PENDENTE -> EM_ANALISE") {
		t.Fatalf("status output = %q", out)
	}

	out = mustRun("complaint", "history", complaintID, "--as", "m-1", "-o", "yaml")
	if !strings.Contains(out, "to: EM_ANALISE") || !strings.Contains(out, "reason: checking") {
		t.Fatalf("history yaml = %q", out)
	}

	out = mustRun("complaint", "list", "--as", "r-1", "-o", "table")
	if !strings.Contains(out, complaintID) || !strings.Contains(out, "Ana (You)") {
		t.Fatalf("list output = %q", out)
	}

	out = mustRun("kanban", "show", "-o", "json")
	var board boardRecord
	if err := json.Unmarshal([]byte(out), &board); err != nil {
		t.Fatalf("decode board json: %v (%s)", err, out)
	}
	found := ""
	for _, column := range board.Columns {
		for _, card := range column.Cards {
			if card.ComplaintID == complaintID {
				found = column.Name
			}
		}
	}
	if found != "Em Análise" {
		t.Fatalf("complaint card column = %q, want Em Análise", found)
	}

	out = mustRun("token", "issue", "r-1")
	if parts := strings.Split(strings.TrimSpace(out), "."); len(parts) != 3 {
		t.Fatalf("token output = %q", out)
	}
}

func TestOutputFormatFlag(t *testing.T) {
	cmd := &cobra.Command{Use: "render"}
	addOutputFlag(cmd)

	if err := cmd.ParseFlags([]string{"-o", "YAML"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if format, err := outputFormat(cmd); err != nil || format != outputYAML {
		t.Fatalf("outputFormat() = %q, %v", format, err)
	}
	if err := cmd.ParseFlags([]string{"-o", "xml"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if _, err := outputFormat(cmd); err == nil {
		t.Fatalf("outputFormat(xml) error = nil")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate(short) = %q", got)
	}
	if got := truncate("Elevador parado no térreo", 10); got != "Elevado..." {
		t.Fatalf("truncate(long) = %q", got)
	}
}
