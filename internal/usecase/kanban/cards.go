package kanban

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/domain/complaint"
	domainkanban "condoqueixas/internal/domain/kanban"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
)

type CreateCardInput struct {
	Requester   complaint.Requester
	BoardID     string
	ColumnID    string
	Title       string
	Description string
}

// CreateCard appends a manual card, one not linked to any complaint.
func (s *Service) CreateCard(ctx context.Context, input CreateCardInput) (domainkanban.Card, error) {
	ctx, err := s.begin(ctx, "create_card")
	if err != nil {
		return domainkanban.Card{}, err
	}
	if err := requireManager(input.Requester); err != nil {
		return domainkanban.Card{}, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domainkanban.Card{}, errs.ValidationFrom(domainkanban.ErrTitleRequired)
	}

	var card domainkanban.Card
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		board, err := s.resolveBoard(txCtx, input.BoardID)
		if err != nil {
			return err
		}
		column, err := s.columnInBoard(txCtx, board.ID, input.ColumnID)
		if err != nil {
			return err
		}
		cards, err := s.boards.ListCards(txCtx, column.ID)
		if err != nil {
			return errs.Wrap(err, "list cards")
		}

		now := s.now().UTC()
		card = domainkanban.Card{
			ID:          s.newID(),
			ColumnID:    column.ID,
			Title:       title,
			Description: strings.TrimSpace(input.Description),
			Order:       domainkanban.NextOrder(cards),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return errs.Wrap(s.boards.CreateCard(txCtx, card), "create card")
	})
	if err != nil {
		return domainkanban.Card{}, s.settle(ctx, "create card", err)
	}

	s.publish(ctx, ports.BoardEvent{Type: ports.BoardEventCardCreated, BoardID: s.boardOf(ctx, card.ColumnID), CardID: card.ID, ColumnID: card.ColumnID, Order: card.Order})
	logging.Info(ctx, "kanban card created", slog.String("card_id", card.ID))
	return card, nil
}

type DeleteCardInput struct {
	Requester complaint.Requester
	CardID    string
}

// DeleteCard removes a card. The remaining orders keep their gaps.
func (s *Service) DeleteCard(ctx context.Context, input DeleteCardInput) error {
	ctx, err := s.begin(ctx, "delete_card")
	if err != nil {
		return err
	}
	if err := requireManager(input.Requester); err != nil {
		return err
	}

	card, err := s.findCard(ctx, input.CardID)
	if err != nil {
		return s.settle(ctx, "find card", err)
	}
	boardID := s.boardOf(ctx, card.ColumnID)
	if err := s.boards.DeleteCard(ctx, card.ID); err != nil {
		if errors.Is(err, ports.ErrCardNotFound) {
			return errs.NotFound("card %s not found", card.ID)
		}
		return s.internalFailure(ctx, "delete card", err)
	}

	s.publish(ctx, ports.BoardEvent{Type: ports.BoardEventCardDeleted, BoardID: boardID, CardID: card.ID, ColumnID: card.ColumnID})
	logging.Info(ctx, "kanban card deleted", slog.String("card_id", card.ID))
	return nil
}

func (s *Service) findCard(ctx context.Context, cardID string) (domainkanban.Card, error) {
	id := strings.TrimSpace(cardID)
	if id == "" {
		return domainkanban.Card{}, errs.Validation("card id is required")
	}
	card, err := s.boards.FindCard(ctx, id)
	if errors.Is(err, ports.ErrCardNotFound) {
		return domainkanban.Card{}, errs.NotFound("card %s not found", id)
	}
	if err != nil {
		return domainkanban.Card{}, errs.Wrap(err, "find card")
	}
	return card, nil
}

// columnInBoard loads columnID and checks that it belongs to boardID.
func (s *Service) columnInBoard(ctx context.Context, boardID string, columnID string) (domainkanban.Column, error) {
	id := strings.TrimSpace(columnID)
	if id == "" {
		return domainkanban.Column{}, errs.Validation("column id is required")
	}
	column, err := s.boards.FindColumn(ctx, id)
	if errors.Is(err, ports.ErrColumnNotFound) || (err == nil && column.BoardID != boardID) {
		return domainkanban.Column{}, errs.NotFound("column %s not found in board %s", id, boardID)
	}
	if err != nil {
		return domainkanban.Column{}, errs.Wrap(err, "find column")
	}
	return column, nil
}

// boardOf is used for event routing only; a lookup failure yields an empty id.
func (s *Service) boardOf(ctx context.Context, columnID string) string {
	column, err := s.boards.FindColumn(ctx, columnID)
	if err != nil {
		return ""
	}
	return column.BoardID
}
