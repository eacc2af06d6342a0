package kanban

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condoqueixas/internal/domain/complaint"
)

func TestColumnForStatus(t *testing.T) {
	assert.Equal(t, "Pendente", ColumnForStatus(complaint.StatusPending))
	assert.Equal(t, "Em Análise", ColumnForStatus(complaint.StatusInReview))
	assert.Equal(t, "Resolvida", ColumnForStatus(complaint.StatusResolved))
	assert.Equal(t, "Rejeitada", ColumnForStatus(complaint.StatusRejected))
	assert.Equal(t, "Pendente", ColumnForStatus(complaint.Status("ARQUIVADA")))
}

func TestCardContentFromDescription(t *testing.T) {
	title, body := CardContentFromDescription("Broken elevator on floor 3")
	assert.Equal(t, "Broken elevator on floor 3", title)
	assert.Equal(t, "Broken elevator on floor 3", body)

	exact := strings.Repeat("x", 50)
	title, _ = CardContentFromDescription(exact)
	assert.Equal(t, exact, title)

	long := strings.Repeat("á", 51)
	title, body = CardContentFromDescription(long)
	assert.Equal(t, strings.Repeat("á", 50)+"...", title)
	assert.Equal(t, long, body)
}

func TestContentDrifted(t *testing.T) {
	card := Card{Title: "Broken elevator on floor 3", Description: "Broken elevator on floor 3"}
	assert.False(t, ContentDrifted(card, "Broken elevator on floor 3"))
	assert.True(t, ContentDrifted(card, "Broken elevator on floor 4"))
}

func TestParseTemplate(t *testing.T) {
	tpl, err := ParseTemplate([]byte(`
title = "Bloco A"

[[columns]]
name = "Pendente"

[[columns]]
name = " Em Análise "
`))
	require.NoError(t, err)
	assert.Equal(t, "Bloco A", tpl.Title)
	require.Len(t, tpl.Columns, 2)
	assert.Equal(t, "Em Análise", tpl.Columns[1].Name)
}

func TestParseTemplateRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"missing title": "[[columns]]\nname = \"Pendente\"\n",
		"no columns":    "title = \"x\"\n",
		"duplicate":     "title = \"x\"\n[[columns]]\nname = \"A\"\n[[columns]]\nname = \"A\"\n",
		"not toml":      "title = ",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTemplate([]byte(raw))
			assert.ErrorIs(t, err, ErrInvalidTemplate)
		})
	}
}

func TestDefaultTemplateRoundTrips(t *testing.T) {
	data, err := DefaultTemplate().Encode()
	require.NoError(t, err)

	tpl, err := ParseTemplate(data)
	require.NoError(t, err)
	require.Len(t, tpl.Columns, 4)
	assert.Equal(t, ColumnPending, tpl.Columns[0].Name)
}
