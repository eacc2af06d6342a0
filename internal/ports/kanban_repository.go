package ports

import (
	"context"
	"errors"
	"time"

	"condoqueixas/internal/domain/kanban"
)

var (
	ErrBoardNotFound  = errors.New("kanban board not found")
	ErrColumnNotFound = errors.New("kanban column not found")
	ErrCardNotFound   = errors.New("kanban card not found")
)

type KanbanRepository interface {
	CreateBoard(ctx context.Context, board kanban.Board) error
	FindBoard(ctx context.Context, id string) (kanban.Board, error)
	FindBoardByTitle(ctx context.Context, title string) (kanban.Board, error)
	ListBoards(ctx context.Context) ([]kanban.Board, error)
	DeleteBoard(ctx context.Context, id string) error

	CreateColumn(ctx context.Context, column kanban.Column) error
	FindColumn(ctx context.Context, id string) (kanban.Column, error)
	FindColumnByName(ctx context.Context, boardID string, name string) (kanban.Column, error)
	ListColumns(ctx context.Context, boardID string) ([]kanban.Column, error)

	CreateCard(ctx context.Context, card kanban.Card) error
	FindCard(ctx context.Context, id string) (kanban.Card, error)
	FindCardByComplaintID(ctx context.Context, complaintID string) (kanban.Card, error)
	ListCards(ctx context.Context, columnID string) ([]kanban.Card, error)
	UpdateCardContent(ctx context.Context, id string, title string, description string, at time.Time) error
	DeleteCard(ctx context.Context, id string) error

	// MoveCard repoints a card to columnID with the given order.
	MoveCard(ctx context.Context, cardID string, columnID string, order int) error
	// UpdateOrdersInColumn applies every update or none of them.
	UpdateOrdersInColumn(ctx context.Context, columnID string, updates []kanban.OrderUpdate) error
}
