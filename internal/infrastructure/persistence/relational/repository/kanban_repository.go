package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"condoqueixas/internal/domain/kanban"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/infrastructure/persistence/relational/model"
	"condoqueixas/internal/ports"
)

type KanbanRepository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ ports.KanbanRepository = (*KanbanRepository)(nil)

func NewKanbanRepository(db *gorm.DB) *KanbanRepository {
	return &KanbanRepository{db: db, now: time.Now}
}

func (r *KanbanRepository) CreateBoard(ctx context.Context, board kanban.Board) error {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return err
	}

	row := model.KanbanBoard{
		ID:          board.ID,
		Title:       board.Title,
		Description: board.Description,
		CreatedAt:   board.CreatedAt.UTC(),
		UpdatedAt:   board.UpdatedAt.UTC(),
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert kanban board")
	}
	return nil
}

func (r *KanbanRepository) FindBoard(ctx context.Context, id string) (kanban.Board, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return kanban.Board{}, err
	}
	return findBoard(db.Where("id = ?", id))
}

func (r *KanbanRepository) FindBoardByTitle(ctx context.Context, title string) (kanban.Board, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return kanban.Board{}, err
	}
	return findBoard(db.Where("title = ?", strings.TrimSpace(title)))
}

func (r *KanbanRepository) ListBoards(ctx context.Context) ([]kanban.Board, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.KanbanBoard
	if err := db.Order("created_at asc").Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query kanban boards")
	}

	boards := make([]kanban.Board, 0, len(rows))
	for _, row := range rows {
		boards = append(boards, mapBoard(row))
	}
	return boards, nil
}

func (r *KanbanRepository) DeleteBoard(ctx context.Context, id string) error {
	return inTx(r.db, ctx, func(tx *gorm.DB) error {
		columns := tx.Model(&model.KanbanColumn{}).Select("id").Where("board_id = ?", id)
		if err := tx.Where("column_id IN (?)", columns).Delete(&model.KanbanCard{}).Error; err != nil {
			return errs.Wrap(err, "delete kanban cards of board")
		}
		if err := tx.Where("board_id = ?", id).Delete(&model.KanbanColumn{}).Error; err != nil {
			return errs.Wrap(err, "delete kanban columns of board")
		}

		result := tx.Where("id = ?", id).Delete(&model.KanbanBoard{})
		if result.Error != nil {
			return errs.Wrap(result.Error, "delete kanban board")
		}
		if result.RowsAffected == 0 {
			return ports.ErrBoardNotFound
		}
		return nil
	})
}

func (r *KanbanRepository) CreateColumn(ctx context.Context, column kanban.Column) error {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return err
	}

	row := model.KanbanColumn{
		ID:        column.ID,
		BoardID:   column.BoardID,
		Name:      column.Name,
		Position:  column.Position,
		CreatedAt: column.CreatedAt.UTC(),
		UpdatedAt: column.UpdatedAt.UTC(),
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert kanban column")
	}
	return nil
}

func (r *KanbanRepository) FindColumn(ctx context.Context, id string) (kanban.Column, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return kanban.Column{}, err
	}
	return findColumn(db.Where("id = ?", id))
}

func (r *KanbanRepository) FindColumnByName(ctx context.Context, boardID string, name string) (kanban.Column, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return kanban.Column{}, err
	}
	return findColumn(db.Where("board_id = ? AND name = ?", boardID, name))
}

func (r *KanbanRepository) ListColumns(ctx context.Context, boardID string) ([]kanban.Column, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.KanbanColumn
	if err := db.
		Where("board_id = ?", boardID).
		Order("position asc").
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query kanban columns")
	}

	columns := make([]kanban.Column, 0, len(rows))
	for _, row := range rows {
		columns = append(columns, mapColumn(row))
	}
	return columns, nil
}

func (r *KanbanRepository) CreateCard(ctx context.Context, card kanban.Card) error {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return err
	}

	row := model.KanbanCard{
		ID:          card.ID,
		ColumnID:    card.ColumnID,
		ComplaintID: card.ComplaintID,
		Title:       card.Title,
		Description: card.Description,
		Order:       card.Order,
		CreatedAt:   card.CreatedAt.UTC(),
		UpdatedAt:   card.UpdatedAt.UTC(),
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert kanban card")
	}
	return nil
}

func (r *KanbanRepository) FindCard(ctx context.Context, id string) (kanban.Card, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return kanban.Card{}, err
	}
	return findCard(db.Where("id = ?", id))
}

func (r *KanbanRepository) FindCardByComplaintID(ctx context.Context, complaintID string) (kanban.Card, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return kanban.Card{}, err
	}
	return findCard(db.Where("complaint_id = ?", complaintID))
}

func (r *KanbanRepository) ListCards(ctx context.Context, columnID string) ([]kanban.Card, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.KanbanCard
	if err := db.
		Where("column_id = ?", columnID).
		Order("card_order asc").
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query kanban cards")
	}

	cards := make([]kanban.Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, mapCard(row))
	}
	return cards, nil
}

func (r *KanbanRepository) UpdateCardContent(ctx context.Context, id string, title string, description string, at time.Time) error {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.KanbanCard{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":       title,
			"description": description,
			"updated_at":  at.UTC(),
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update kanban card content")
	}
	if result.RowsAffected == 0 {
		return ports.ErrCardNotFound
	}
	return nil
}

func (r *KanbanRepository) DeleteCard(ctx context.Context, id string) error {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return err
	}

	result := db.Where("id = ?", id).Delete(&model.KanbanCard{})
	if result.Error != nil {
		return errs.Wrap(result.Error, "delete kanban card")
	}
	if result.RowsAffected == 0 {
		return ports.ErrCardNotFound
	}
	return nil
}

func (r *KanbanRepository) MoveCard(ctx context.Context, cardID string, columnID string, order int) error {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.KanbanCard{}).
		Where("id = ?", cardID).
		Updates(map[string]any{
			"column_id":  columnID,
			"card_order": order,
			"updated_at": r.now().UTC(),
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "move kanban card")
	}
	if result.RowsAffected == 0 {
		return ports.ErrCardNotFound
	}
	return nil
}

// UpdateOrdersInColumn rewrites every order with one CASE statement. A card that
// is missing from the column aborts the whole batch.
func (r *KanbanRepository) UpdateOrdersInColumn(ctx context.Context, columnID string, updates []kanban.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	var expr strings.Builder
	args := make([]any, 0, len(updates)*2)
	ids := make([]string, 0, len(updates))
	expr.WriteString("CASE id")
	for _, update := range updates {
		expr.WriteString(" WHEN ? THEN CAST(? AS INTEGER)")
		args = append(args, update.CardID, update.Order)
		ids = append(ids, update.CardID)
	}
	expr.WriteString(" ELSE card_order END")

	return inTx(r.db, ctx, func(tx *gorm.DB) error {
		result := tx.Model(&model.KanbanCard{}).
			Where("column_id = ? AND id IN ?", columnID, ids).
			Update("card_order", gorm.Expr(expr.String(), args...))
		if result.Error != nil {
			return errs.Wrap(result.Error, "update kanban card orders")
		}
		if result.RowsAffected != int64(len(ids)) {
			return fmt.Errorf("%w: %d of %d cards in column %s", ports.ErrCardNotFound, result.RowsAffected, len(ids), columnID)
		}
		return nil
	})
}

func findBoard(query *gorm.DB) (kanban.Board, error) {
	var row model.KanbanBoard
	if err := query.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kanban.Board{}, ports.ErrBoardNotFound
		}
		return kanban.Board{}, errs.Wrap(err, "query kanban board")
	}
	return mapBoard(row), nil
}

func findColumn(query *gorm.DB) (kanban.Column, error) {
	var row model.KanbanColumn
	if err := query.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kanban.Column{}, ports.ErrColumnNotFound
		}
		return kanban.Column{}, errs.Wrap(err, "query kanban column")
	}
	return mapColumn(row), nil
}

func findCard(query *gorm.DB) (kanban.Card, error) {
	var row model.KanbanCard
	if err := query.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kanban.Card{}, ports.ErrCardNotFound
		}
		return kanban.Card{}, errs.Wrap(err, "query kanban card")
	}
	return mapCard(row), nil
}

func mapBoard(row model.KanbanBoard) kanban.Board {
	return kanban.Board{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

func mapColumn(row model.KanbanColumn) kanban.Column {
	return kanban.Column{
		ID:        row.ID,
		BoardID:   row.BoardID,
		Name:      row.Name,
		Position:  row.Position,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

func mapCard(row model.KanbanCard) kanban.Card {
	return kanban.Card{
		ID:          row.ID,
		ColumnID:    row.ColumnID,
		ComplaintID: row.ComplaintID,
		Title:       row.Title,
		Description: row.Description,
		Order:       row.Order,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}
