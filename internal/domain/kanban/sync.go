package kanban

import (
	"unicode/utf8"

	"condoqueixas/internal/domain/complaint"
)

const (
	ColumnPending  = "Pendente"
	ColumnInReview = "Em Análise"
	ColumnResolved = "Resolvida"
	ColumnRejected = "Rejeitada"

	titleLimit  = 50
	titleSuffix = "..."
)

var statusColumns = map[complaint.Status]string{
	complaint.StatusPending:  ColumnPending,
	complaint.StatusInReview: ColumnInReview,
	complaint.StatusResolved: ColumnResolved,
	complaint.StatusRejected: ColumnRejected,
}

// ColumnForStatus names the column that mirrors status. Unknown values land in Pendente.
func ColumnForStatus(status complaint.Status) string {
	if name, ok := statusColumns[status]; ok {
		return name
	}
	return ColumnPending
}

// DefaultColumns lists the status columns in lifecycle order.
func DefaultColumns() []string {
	return []string{ColumnPending, ColumnInReview, ColumnResolved, ColumnRejected}
}

// CardContentFromDescription derives the card title (first 50 characters) and body.
func CardContentFromDescription(description string) (title string, body string) {
	if utf8.RuneCountInString(description) <= titleLimit {
		return description, description
	}
	runes := []rune(description)
	return string(runes[:titleLimit]) + titleSuffix, description
}

// ContentDrifted reports whether card no longer matches description.
func ContentDrifted(card Card, description string) bool {
	title, body := CardContentFromDescription(description)
	return card.Title != title || card.Description != body
}
