package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"

	"condoqueixas/internal/errs"
	"condoqueixas/internal/infrastructure/persistence/relational/model"
	"condoqueixas/internal/ports"
)

type AuditRepository struct {
	db *gorm.DB
}

var (
	_ ports.AuditLogger = (*AuditRepository)(nil)
	_ ports.AuditReader = (*AuditRepository)(nil)
)

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Save ignores any transaction carried by ctx. Callers write audit entries
// after their own commit.
func (r *AuditRepository) Save(ctx context.Context, log ports.AuditLog) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	row := model.AuditLog{
		ID:          log.ID,
		Action:      log.Action,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		PerformedBy: log.PerformedBy,
		IPAddress:   log.IPAddress,
		UserAgent:   log.UserAgent,
		CreatedAt:   log.CreatedAt.UTC(),
	}
	if len(log.Details) > 0 {
		raw, err := json.Marshal(log.Details)
		if err != nil {
			return errs.Wrap(err, "encode audit details")
		}
		details := string(raw)
		row.DetailsJSON = &details
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert audit log")
	}
	return nil
}

func (r *AuditRepository) List(ctx context.Context, filter ports.AuditFilter, page ports.Pagination) (ports.AuditPage, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return ports.AuditPage{}, err
	}
	page = normalizePagination(page)

	query := db.Model(&model.AuditLog{})
	if action := strings.TrimSpace(filter.Action); action != "" {
		query = query.Where("action = ?", action)
	}
	if entityType := strings.TrimSpace(filter.EntityType); entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	if entityID := strings.TrimSpace(filter.EntityID); entityID != "" {
		query = query.Where("entity_id = ?", entityID)
	}
	if performedBy := strings.TrimSpace(filter.PerformedBy); performedBy != "" {
		query = query.Where("performed_by = ?", performedBy)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return ports.AuditPage{}, errs.Wrap(err, "count audit logs")
	}

	var rows []model.AuditLog
	if err := query.
		Order("created_at desc").
		Order("id desc").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).Error; err != nil {
		return ports.AuditPage{}, errs.Wrap(err, "query audit logs")
	}

	items := make([]ports.AuditLog, 0, len(rows))
	for _, row := range rows {
		item := ports.AuditLog{
			ID:          row.ID,
			Action:      row.Action,
			EntityType:  row.EntityType,
			EntityID:    row.EntityID,
			PerformedBy: row.PerformedBy,
			IPAddress:   row.IPAddress,
			UserAgent:   row.UserAgent,
			CreatedAt:   row.CreatedAt.UTC(),
		}
		if row.DetailsJSON != nil {
			if err := json.Unmarshal([]byte(*row.DetailsJSON), &item.Details); err != nil {
				return ports.AuditPage{}, errs.Wrapf(err, "decode audit details %s", row.ID)
			}
		}
		items = append(items, item)
	}

	return ports.AuditPage{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: ports.TotalPages(total, page.Limit),
	}, nil
}
