package kanban

import "time"

type Board struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Column struct {
	ID        string
	BoardID   string
	Name      string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Card is one entry of a column. Order is a sort key only and is not contiguous.
type Card struct {
	ID          string
	ColumnID    string
	ComplaintID *string
	Title       string
	Description string
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c Card) IsLinked() bool { return c.ComplaintID != nil && *c.ComplaintID != "" }

// OrderUpdate assigns a new order to one card of a column.
type OrderUpdate struct {
	CardID string
	Order  int
}
