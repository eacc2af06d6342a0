package repository

import (
	"context"
	"errors"
	"testing"

	"condoqueixas/internal/domain/kanban"
	"condoqueixas/internal/ports"
)

func seedColumn(t *testing.T, repo *KanbanRepository, boardID string, columnID string, cards map[string]int) {
	t.Helper()
	ctx := context.Background()

	if _, err := repo.FindBoard(ctx, boardID); errors.Is(err, ports.ErrBoardNotFound) {
		if err := repo.CreateBoard(ctx, kanban.Board{ID: boardID, Title: "board " + boardID, CreatedAt: baseTime, UpdatedAt: baseTime}); err != nil {
			t.Fatalf("CreateBoard() error = %v", err)
		}
	}
	if err := repo.CreateColumn(ctx, kanban.Column{ID: columnID, BoardID: boardID, Name: columnID, CreatedAt: baseTime, UpdatedAt: baseTime}); err != nil {
		t.Fatalf("CreateColumn() error = %v", err)
	}
	for id, order := range cards {
		if err := repo.CreateCard(ctx, kanban.Card{ID: id, ColumnID: columnID, Title: id, Order: order, CreatedAt: baseTime, UpdatedAt: baseTime}); err != nil {
			t.Fatalf("CreateCard(%s) error = %v", id, err)
		}
	}
}

func ordersOf(t *testing.T, repo *KanbanRepository, columnID string) map[string]int {
	t.Helper()
	cards, err := repo.ListCards(context.Background(), columnID)
	if err != nil {
		t.Fatalf("ListCards() error = %v", err)
	}
	out := make(map[string]int, len(cards))
	for _, card := range cards {
		out[card.ID] = card.Order
	}
	return out
}

func TestUpdateOrdersInColumnAppliesBatch(t *testing.T) {
	repo := NewKanbanRepository(openTestDB(t))
	ctx := context.Background()
	seedColumn(t, repo, "b-1", "col-a", map[string]int{"c1": 100, "c2": 200, "c3": 300})

	err := repo.UpdateOrdersInColumn(ctx, "col-a", []kanban.OrderUpdate{
		{CardID: "c3", Order: 100},
		{CardID: "c1", Order: 200},
		{CardID: "c2", Order: 300},
	})
	if err != nil {
		t.Fatalf("UpdateOrdersInColumn() error = %v", err)
	}

	got := ordersOf(t, repo, "col-a")
	if got["c3"] != 100 || got["c1"] != 200 || got["c2"] != 300 {
		t.Fatalf("orders = %v", got)
	}
}

func TestUpdateOrdersInColumnIsAllOrNothing(t *testing.T) {
	repo := NewKanbanRepository(openTestDB(t))
	ctx := context.Background()
	seedColumn(t, repo, "b-1", "col-a", map[string]int{"c1": 100, "c2": 200})
	seedColumn(t, repo, "b-1", "col-b", map[string]int{"x1": 100})

	err := repo.UpdateOrdersInColumn(ctx, "col-a", []kanban.OrderUpdate{
		{CardID: "c1", Order: 900},
		{CardID: "x1", Order: 100},
	})
	if !errors.Is(err, ports.ErrCardNotFound) {
		t.Fatalf("UpdateOrdersInColumn() error = %v, want ErrCardNotFound", err)
	}

	got := ordersOf(t, repo, "col-a")
	if got["c1"] != 100 || got["c2"] != 200 {
		t.Fatalf("partial batch applied: %v", got)
	}
}

func TestMoveCardAndFindByComplaintID(t *testing.T) {
	repo := NewKanbanRepository(openTestDB(t))
	ctx := context.Background()
	seedColumn(t, repo, "b-1", "col-a", nil)
	seedColumn(t, repo, "b-1", "col-b", nil)

	complaintID := "complaint-1"
	if err := repo.CreateCard(ctx, kanban.Card{ID: "card-1", ColumnID: "col-a", ComplaintID: &complaintID, Title: "t", Order: 100, CreatedAt: baseTime, UpdatedAt: baseTime}); err != nil {
		t.Fatalf("CreateCard() error = %v", err)
	}
	if err := repo.CreateCard(ctx, kanban.Card{ID: "card-2", ColumnID: "col-a", ComplaintID: &complaintID, Title: "t", Order: 200, CreatedAt: baseTime, UpdatedAt: baseTime}); err == nil {
		t.Fatalf("CreateCard() expected unique complaint_id violation")
	}

	if err := repo.MoveCard(ctx, "card-1", "col-b", 300); err != nil {
		t.Fatalf("MoveCard() error = %v", err)
	}
	card, err := repo.FindCardByComplaintID(ctx, complaintID)
	if err != nil {
		t.Fatalf("FindCardByComplaintID() error = %v", err)
	}
	if card.ColumnID != "col-b" || card.Order != 300 {
		t.Fatalf("card = %+v", card)
	}

	if err := repo.MoveCard(ctx, "ghost", "col-b", 100); !errors.Is(err, ports.ErrCardNotFound) {
		t.Fatalf("MoveCard(ghost) error = %v", err)
	}
	if _, err := repo.FindCardByComplaintID(ctx, "nope"); !errors.Is(err, ports.ErrCardNotFound) {
		t.Fatalf("FindCardByComplaintID(nope) error = %v", err)
	}
}

func TestColumnsAndBoardLifecycle(t *testing.T) {
	repo := NewKanbanRepository(openTestDB(t))
	ctx := context.Background()
	seedColumn(t, repo, "b-1", "col-a", map[string]int{"c1": 100})

	column, err := repo.FindColumnByName(ctx, "b-1", "col-a")
	if err != nil {
		t.Fatalf("FindColumnByName() error = %v", err)
	}
	if column.ID != "col-a" {
		t.Fatalf("column = %+v", column)
	}
	if _, err := repo.FindColumnByName(ctx, "b-1", "missing"); !errors.Is(err, ports.ErrColumnNotFound) {
		t.Fatalf("FindColumnByName(missing) error = %v", err)
	}

	if err := repo.UpdateCardContent(ctx, "c1", "new title", "new body", baseTime); err != nil {
		t.Fatalf("UpdateCardContent() error = %v", err)
	}
	card, err := repo.FindCard(ctx, "c1")
	if err != nil || card.Title != "new title" || card.Description != "new body" {
		t.Fatalf("FindCard() = %+v, %v", card, err)
	}

	if err := repo.DeleteBoard(ctx, "b-1"); err != nil {
		t.Fatalf("DeleteBoard() error = %v", err)
	}
	if _, err := repo.FindCard(ctx, "c1"); !errors.Is(err, ports.ErrCardNotFound) {
		t.Fatalf("card survived board delete: %v", err)
	}
	if _, err := repo.FindBoard(ctx, "b-1"); !errors.Is(err, ports.ErrBoardNotFound) {
		t.Fatalf("FindBoard() after delete error = %v", err)
	}
}
