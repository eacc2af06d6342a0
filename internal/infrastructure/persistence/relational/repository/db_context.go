package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"condoqueixas/internal/ports"
)

// dbFromContext prefers the transaction carried by ctx over the base handle.
func dbFromContext(base *gorm.DB, ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return base.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

// inTx runs fn inside the transaction from ctx, or inside a new one.
func inTx(base *gorm.DB, ctx context.Context, fn func(tx *gorm.DB) error) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if ports.InTx(ctx) {
		db, err := dbFromContext(base, ctx)
		if err != nil {
			return err
		}
		return fn(db)
	}
	return base.WithContext(ctx).Transaction(fn)
}

func normalizePagination(page ports.Pagination) ports.Pagination {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = 10
	}
	return page
}
