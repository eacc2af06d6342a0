package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"condoqueixas/internal/domain/complaint"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/infrastructure/persistence/relational/model"
	"condoqueixas/internal/ports"
)

type ComplaintRepository struct {
	db *gorm.DB
}

var _ ports.ComplaintRepository = (*ComplaintRepository)(nil)

func NewComplaintRepository(db *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

func (r *ComplaintRepository) FindByID(ctx context.Context, id string) (complaint.Complaint, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return complaint.Complaint{}, err
	}
	return findComplaint(db, id)
}

// Save inserts c, or updates its editable fields. Status and version of an
// existing row only change through UpdateStatus.
func (r *ComplaintRepository) Save(ctx context.Context, c complaint.Complaint) error {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return err
	}

	row := toComplaintRow(c)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"category",
			"urgency",
			"description",
			"updated_at",
			"deleted_at",
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert complaint")
	}
	return nil
}

func (r *ComplaintRepository) SaveIfStatus(ctx context.Context, c complaint.Complaint, expected complaint.Status) error {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return err
	}

	row := toComplaintRow(c)
	result := db.Model(&model.Complaint{}).
		Where("id = ? AND status = ? AND deleted_at IS NULL", c.ID, string(expected)).
		Updates(map[string]any{
			"category":    row.Category,
			"urgency":     row.Urgency,
			"description": row.Description,
			"updated_at":  row.UpdatedAt,
			"deleted_at":  row.DeletedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update complaint")
	}
	if result.RowsAffected == 0 {
		if _, err := findComplaint(db, c.ID); err != nil {
			return err
		}
		return ports.ErrStatusConflict
	}
	return nil
}

func (r *ComplaintRepository) FindWithFilters(ctx context.Context, filter ports.ComplaintFilter, page ports.Pagination) (ports.ComplaintPage, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return ports.ComplaintPage{}, err
	}
	page = normalizePagination(page)

	query := db.Model(&model.Complaint{})
	if !filter.IncludeDeleted {
		query = query.Where("deleted_at IS NULL")
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Category != nil {
		query = query.Where("category = ?", string(*filter.Category))
	}
	if filter.Urgency != nil {
		query = query.Where("urgency = ?", string(*filter.Urgency))
	}
	if authorID := strings.TrimSpace(filter.AuthorID); authorID != "" {
		query = query.Where("author_id = ?", authorID)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", filter.CreatedFrom.UTC())
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", filter.CreatedTo.UTC())
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return ports.ComplaintPage{}, errs.Wrap(err, "count complaints")
	}

	var rows []model.Complaint
	if err := query.
		Order("created_at desc").
		Order("id desc").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).Error; err != nil {
		return ports.ComplaintPage{}, errs.Wrap(err, "query complaints")
	}

	authors, err := loadAuthors(db, rows)
	if err != nil {
		return ports.ComplaintPage{}, err
	}

	items := make([]ports.ComplaintRow, 0, len(rows))
	for _, row := range rows {
		item := ports.ComplaintRow{Complaint: mapComplaint(row)}
		if author, ok := authors[row.AuthorID]; ok {
			item.Author = &author
		}
		items = append(items, item)
	}

	return ports.ComplaintPage{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: ports.TotalPages(total, page.Limit),
	}, nil
}

func (r *ComplaintRepository) UpdateStatus(ctx context.Context, entry complaint.StatusHistory) (complaint.Complaint, error) {
	var updated complaint.Complaint
	err := inTx(r.db, ctx, func(tx *gorm.DB) error {
		result := tx.Model(&model.Complaint{}).
			Where("id = ? AND status = ? AND deleted_at IS NULL", entry.ComplaintID, string(entry.PreviousStatus)).
			Updates(map[string]any{
				"status":     string(entry.NewStatus),
				"updated_at": entry.ChangedAt.UTC(),
				"version":    gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return errs.Wrap(result.Error, "update complaint status")
		}
		if result.RowsAffected == 0 {
			if _, err := findComplaint(tx, entry.ComplaintID); err != nil {
				return err
			}
			return ports.ErrStatusConflict
		}

		history := model.ComplaintStatusHistory{
			ID:             entry.ID,
			ComplaintID:    entry.ComplaintID,
			PreviousStatus: string(entry.PreviousStatus),
			NewStatus:      string(entry.NewStatus),
			ChangedBy:      entry.ChangedBy,
			ChangedAt:      entry.ChangedAt.UTC(),
			Reason:         entry.Reason,
		}
		if err := tx.Create(&history).Error; err != nil {
			return errs.Wrap(err, "insert status history")
		}

		current, err := findComplaint(tx, entry.ComplaintID)
		if err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return complaint.Complaint{}, err
	}
	return updated, nil
}

func (r *ComplaintRepository) FindStatusHistory(ctx context.Context, complaintID string) ([]complaint.StatusHistory, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.ComplaintStatusHistory
	if err := db.
		Where("complaint_id = ?", complaintID).
		Order("changed_at desc").
		Order("id desc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query status history")
	}

	items := make([]complaint.StatusHistory, 0, len(rows))
	for _, row := range rows {
		items = append(items, complaint.StatusHistory{
			ID:             row.ID,
			ComplaintID:    row.ComplaintID,
			PreviousStatus: complaint.Status(row.PreviousStatus),
			NewStatus:      complaint.Status(row.NewStatus),
			ChangedBy:      row.ChangedBy,
			ChangedAt:      row.ChangedAt.UTC(),
			Reason:         row.Reason,
		})
	}
	return items, nil
}

// CountByAuthorInPeriod counts soft-deleted complaints too, so deleting does not reset the limit.
func (r *ComplaintRepository) CountByAuthorInPeriod(ctx context.Context, authorID string, since time.Time) (int64, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.Model(&model.Complaint{}).
		Where("author_id = ? AND created_at >= ?", authorID, since.UTC()).
		Count(&count).Error; err != nil {
		return 0, errs.Wrap(err, "count complaints by author")
	}
	return count, nil
}

func findComplaint(db *gorm.DB, id string) (complaint.Complaint, error) {
	var row model.Complaint
	if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return complaint.Complaint{}, ports.ErrComplaintNotFound
		}
		return complaint.Complaint{}, errs.Wrap(err, "query complaint")
	}
	return mapComplaint(row), nil
}

func loadAuthors(db *gorm.DB, rows []model.Complaint) (map[string]ports.Author, error) {
	if len(rows) == 0 {
		return map[string]ports.Author{}, nil
	}

	ids := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.AuthorID]; ok {
			continue
		}
		seen[row.AuthorID] = struct{}{}
		ids = append(ids, row.AuthorID)
	}

	var users []model.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, errs.Wrap(err, "query complaint authors")
	}

	out := make(map[string]ports.Author, len(users))
	for _, user := range users {
		out[user.ID] = ports.Author{
			ID:        user.ID,
			Name:      user.Name,
			Block:     user.Block,
			Apartment: user.Apartment,
		}
	}
	return out, nil
}

func toComplaintRow(c complaint.Complaint) model.Complaint {
	row := model.Complaint{
		ID:          c.ID,
		AuthorID:    c.AuthorID,
		Category:    string(c.Category),
		Urgency:     string(c.Urgency),
		Description: c.Description,
		Status:      string(c.Status),
		IsAnonymous: c.IsAnonymous,
		Version:     c.Version,
		CreatedAt:   c.CreatedAt.UTC(),
		UpdatedAt:   c.UpdatedAt.UTC(),
	}
	if c.DeletedAt != nil {
		deletedAt := c.DeletedAt.UTC()
		row.DeletedAt = &deletedAt
	}
	return row
}

func mapComplaint(row model.Complaint) complaint.Complaint {
	c := complaint.Complaint{
		ID:          row.ID,
		AuthorID:    row.AuthorID,
		Category:    complaint.Category(row.Category),
		Urgency:     complaint.Urgency(row.Urgency),
		Description: row.Description,
		Status:      complaint.Status(row.Status),
		IsAnonymous: row.IsAnonymous,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
		Version:     row.Version,
	}
	if row.DeletedAt != nil {
		deletedAt := row.DeletedAt.UTC()
		c.DeletedAt = &deletedAt
	}
	return c
}
