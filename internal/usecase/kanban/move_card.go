package kanban

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/domain/complaint"
	domainkanban "condoqueixas/internal/domain/kanban"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
)

type MoveCardInput struct {
	Requester      complaint.Requester
	BoardID        string
	CardID         string
	TargetColumnID string
	// Index is zero-based; anything past the end appends.
	Index int
}

type MoveResult struct {
	CardID       string
	BoardID      string
	FromColumnID string
	ToColumnID   string
	Order        int
}

// MoveCard reorders a card inside its column or moves it to another column
// of the same board. Every order write of the move commits together.
func (s *Service) MoveCard(ctx context.Context, input MoveCardInput) (MoveResult, error) {
	ctx, err := s.begin(ctx, "move_card")
	if err != nil {
		return MoveResult{}, err
	}
	if err := requireManager(input.Requester); err != nil {
		return MoveResult{}, err
	}
	if input.Index < 0 {
		return MoveResult{}, errs.ValidationFrom(domainkanban.ErrInvalidIndex)
	}

	var result MoveResult
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		board, err := s.resolveBoard(txCtx, input.BoardID)
		if err != nil {
			return err
		}
		card, err := s.findCard(txCtx, input.CardID)
		if err != nil {
			return err
		}
		source, err := s.boards.FindColumn(txCtx, card.ColumnID)
		if err != nil && !errors.Is(err, ports.ErrColumnNotFound) {
			return errs.Wrap(err, "find source column")
		}
		if err != nil || source.BoardID != board.ID {
			return errs.NotFound("%s: %s", domainkanban.ErrCardNotInBoard, card.ID)
		}
		target, err := s.columnInBoard(txCtx, board.ID, input.TargetColumnID)
		if err != nil {
			return err
		}

		order, err := s.place(txCtx, card, source.ID, target.ID, input.Index)
		if err != nil {
			return err
		}
		result = MoveResult{
			CardID:       card.ID,
			BoardID:      board.ID,
			FromColumnID: source.ID,
			ToColumnID:   target.ID,
			Order:        order,
		}
		return nil
	})
	if err != nil {
		return MoveResult{}, s.settle(ctx, "move card", err)
	}

	s.recordAudit(ctx, ports.AuditKanbanCardMoved, result.CardID, input.Requester.ID, map[string]any{
		"boardId":      result.BoardID,
		"fromColumnId": result.FromColumnID,
		"toColumnId":   result.ToColumnID,
		"order":        result.Order,
	})
	s.publish(ctx, ports.BoardEvent{
		Type:     ports.BoardEventCardMoved,
		BoardID:  result.BoardID,
		CardID:   result.CardID,
		ColumnID: result.ToColumnID,
		Order:    result.Order,
	})
	logging.Info(ctx, "kanban card moved",
		slog.String("card_id", result.CardID),
		slog.String("from", result.FromColumnID),
		slog.String("to", result.ToColumnID),
		slog.Int("order", result.Order),
	)
	return result, nil
}

// place writes the new position of card and returns its order. It must run
// inside a transaction.
func (s *Service) place(ctx context.Context, card domainkanban.Card, sourceID string, targetID string, index int) (int, error) {
	sourceCards, err := s.boards.ListCards(ctx, sourceID)
	if err != nil {
		return 0, errs.Wrap(err, "list source cards")
	}

	if sourceID == targetID {
		updates, err := domainkanban.Reorder(sourceCards, card.ID, index)
		if err != nil {
			return 0, errs.ValidationFrom(err)
		}
		if err := s.boards.UpdateOrdersInColumn(ctx, sourceID, updates); err != nil {
			return 0, errs.Wrap(err, "reorder column")
		}
		for _, update := range updates {
			if update.CardID == card.ID {
				return update.Order, nil
			}
		}
		return 0, fmt.Errorf("reorder lost card %s", card.ID)
	}

	targetCards, err := s.boards.ListCards(ctx, targetID)
	if err != nil {
		return 0, errs.Wrap(err, "list target cards")
	}
	plan, err := domainkanban.PlanMove(sourceCards, targetCards, card.ID, targetID, index)
	if err != nil {
		return 0, errs.ValidationFrom(err)
	}
	if err := s.boards.MoveCard(ctx, plan.CardID, plan.TargetColumnID, plan.CardOrder); err != nil {
		return 0, errs.Wrap(err, "move card pointer")
	}
	if err := s.boards.UpdateOrdersInColumn(ctx, plan.TargetColumnID, plan.DestinationUpdates); err != nil {
		return 0, errs.Wrap(err, "reorder target column")
	}
	if err := s.boards.UpdateOrdersInColumn(ctx, plan.SourceColumnID, plan.SourceUpdates); err != nil {
		return 0, errs.Wrap(err, "reorder source column")
	}
	return plan.CardOrder, nil
}
