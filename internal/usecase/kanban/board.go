package kanban

import (
	"context"
	"errors"
	"log/slog"

	"condoqueixas/internal/bootstrap/logging"
	domainkanban "condoqueixas/internal/domain/kanban"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
)

type ColumnView struct {
	Column domainkanban.Column
	Cards  []domainkanban.Card
}

type BoardView struct {
	Board   domainkanban.Board
	Columns []ColumnView
}

// EnsureBoard creates the board named by tpl and any of its missing columns.
// Running it again changes nothing.
func (s *Service) EnsureBoard(ctx context.Context, tpl domainkanban.Template) (domainkanban.Board, error) {
	ctx, err := s.begin(ctx, "ensure_board")
	if err != nil {
		return domainkanban.Board{}, err
	}
	if err := tpl.Validate(); err != nil {
		return domainkanban.Board{}, errs.ValidationFrom(err)
	}

	var board domainkanban.Board
	created := 0
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		now := s.now().UTC()
		found, err := s.boards.FindBoardByTitle(txCtx, tpl.Title)
		switch {
		case errors.Is(err, ports.ErrBoardNotFound):
			found = domainkanban.Board{
				ID:          s.newID(),
				Title:       tpl.Title,
				Description: tpl.Description,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.boards.CreateBoard(txCtx, found); err != nil {
				return errs.Wrap(err, "create board")
			}
		case err != nil:
			return errs.Wrap(err, "find board")
		}
		board = found

		for position, column := range tpl.Columns {
			_, err := s.boards.FindColumnByName(txCtx, board.ID, column.Name)
			if err == nil {
				continue
			}
			if !errors.Is(err, ports.ErrColumnNotFound) {
				return errs.Wrap(err, "find column")
			}
			if err := s.boards.CreateColumn(txCtx, domainkanban.Column{
				ID:        s.newID(),
				BoardID:   board.ID,
				Name:      column.Name,
				Position:  position,
				CreatedAt: now,
				UpdatedAt: now,
			}); err != nil {
				return errs.Wrapf(err, "create column %q", column.Name)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return domainkanban.Board{}, s.settle(ctx, "ensure board", err)
	}

	if created > 0 {
		logging.Info(ctx, "kanban board seeded", slog.String("board_id", board.ID), slog.Int("columns_created", created))
	}
	return board, nil
}

// EnsureDefaultBoard seeds the configured board template.
func (s *Service) EnsureDefaultBoard(ctx context.Context) (domainkanban.Board, error) {
	return s.EnsureBoard(ctx, s.opts.Template)
}

func (s *Service) ListBoards(ctx context.Context) ([]domainkanban.Board, error) {
	ctx, err := s.begin(ctx, "list_boards")
	if err != nil {
		return nil, err
	}
	boards, err := s.boards.ListBoards(ctx)
	if err != nil {
		return nil, s.internalFailure(ctx, "list boards", err)
	}
	return boards, nil
}

// GetBoard loads a board with its columns by position and cards by order.
// An empty boardID selects the configured board.
func (s *Service) GetBoard(ctx context.Context, boardID string) (BoardView, error) {
	ctx, err := s.begin(ctx, "get_board")
	if err != nil {
		return BoardView{}, err
	}

	board, err := s.resolveBoard(ctx, boardID)
	if err != nil {
		return BoardView{}, s.settle(ctx, "get board", err)
	}
	columns, err := s.boards.ListColumns(ctx, board.ID)
	if err != nil {
		return BoardView{}, s.internalFailure(ctx, "list columns", err)
	}

	view := BoardView{Board: board, Columns: make([]ColumnView, 0, len(columns))}
	for _, column := range columns {
		cards, err := s.boards.ListCards(ctx, column.ID)
		if err != nil {
			return BoardView{}, s.internalFailure(ctx, "list cards", err)
		}
		view.Columns = append(view.Columns, ColumnView{Column: column, Cards: domainkanban.SortCards(cards)})
	}
	return view, nil
}
