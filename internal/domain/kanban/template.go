package kanban

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Template seeds a board and its columns.
//
//	title = "Reclamações"
//	description = "Quadro de acompanhamento"
//
//	[[columns]]
//	name = "Pendente"
type Template struct {
	Title       string           `toml:"title"`
	Description string           `toml:"description"`
	Columns     []TemplateColumn `toml:"columns"`
}

type TemplateColumn struct {
	Name string `toml:"name"`
}

const DefaultBoardTitle = "Reclamações"

func DefaultTemplate() Template {
	columns := make([]TemplateColumn, 0, len(DefaultColumns()))
	for _, name := range DefaultColumns() {
		columns = append(columns, TemplateColumn{Name: name})
	}
	return Template{
		Title:       DefaultBoardTitle,
		Description: "Acompanhamento das reclamações do condomínio",
		Columns:     columns,
	}
}

func ParseTemplate(data []byte) (Template, error) {
	var tpl Template
	if err := toml.Unmarshal(data, &tpl); err != nil {
		return Template{}, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	tpl.Title = strings.TrimSpace(tpl.Title)
	for i := range tpl.Columns {
		tpl.Columns[i].Name = strings.TrimSpace(tpl.Columns[i].Name)
	}
	if err := tpl.Validate(); err != nil {
		return Template{}, err
	}
	return tpl, nil
}

func (t Template) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTemplate)
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("%w: at least one column is required", ErrInvalidTemplate)
	}

	seen := make(map[string]struct{}, len(t.Columns))
	for _, column := range t.Columns {
		name := strings.TrimSpace(column.Name)
		if name == "" {
			return fmt.Errorf("%w: column name is required", ErrInvalidTemplate)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %w %q", ErrInvalidTemplate, ErrDuplicateColumns, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Encode renders t back to TOML, used by init-db to write a starter file.
func (t Template) Encode() ([]byte, error) {
	return toml.Marshal(t)
}
