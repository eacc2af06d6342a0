package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"condoqueixas/internal/bootstrap/config"
)

func TestNewInitSchemaAndClose(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := strings.Join([]string{
		"database:",
		"  driver: sqlite",
		"  dsn: " + filepath.Join(dir, "state", "cq.sqlite"),
	}, "\n")
	if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	app, err := New(context.Background(), configFile)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := app.InitSchema(context.Background()); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}
	// Migrating twice is a no-op.
	if err := app.InitSchema(context.Background()); err != nil {
		t.Fatalf("InitSchema() second run error = %v", err)
	}

	for _, table := range []string{"complaints", "complaint_status_history", "kanban_cards", "audit_logs", "users"} {
		if !app.DB.Migrator().HasTable(table) {
			t.Fatalf("table %q missing after InitSchema", table)
		}
	}
	if err := app.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestKanbanOptionsFromTemplateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.toml")
	content := strings.Join([]string{
		`title = "Portaria"`,
		`[[columns]]`,
		`name = "Pendente"`,
		`[[columns]]`,
		`name = "Em Análise"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	opts, err := kanbanOptions(config.KanbanConfig{TemplateFile: path})
	if err != nil {
		t.Fatalf("kanbanOptions() error = %v", err)
	}
	if opts.BoardTitle != "Portaria" || len(opts.Template.Columns) != 2 {
		t.Fatalf("opts = %+v", opts)
	}

	opts, err = kanbanOptions(config.KanbanConfig{TemplateFile: path, DefaultBoard: "Bloco B"})
	if err != nil {
		t.Fatalf("kanbanOptions() error = %v", err)
	}
	if opts.BoardTitle != "Bloco B" || opts.Template.Title != "Bloco B" {
		t.Fatalf("default_board override = %+v", opts)
	}

	if _, err := kanbanOptions(config.KanbanConfig{TemplateFile: filepath.Join(t.TempDir(), "missing.toml")}); err == nil {
		t.Fatalf("kanbanOptions() error = nil for missing file")
	}
}
