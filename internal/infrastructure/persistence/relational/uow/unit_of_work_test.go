package uow

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"condoqueixas/internal/domain/kanban"
	"condoqueixas/internal/infrastructure/persistence/relational/model"
	"condoqueixas/internal/infrastructure/persistence/relational/repository"
	"condoqueixas/internal/ports"
)

func TestWithTxRollsBackEveryRepositoryWrite(t *testing.T) {
	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "uow.sqlite")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	repo := repository.NewKanbanRepository(db)
	unit := NewUnitOfWork(db)
	ctx := context.Background()
	now := time.Now().UTC()
	boom := errors.New("boom")

	err = unit.WithTx(ctx, func(txCtx context.Context) error {
		if err := repo.CreateBoard(txCtx, kanban.Board{ID: "b-1", Title: "x", CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
		// Nested WithTx joins the outer transaction.
		if err := unit.WithTx(txCtx, func(inner context.Context) error {
			return repo.CreateColumn(inner, kanban.Column{ID: "col-1", BoardID: "b-1", Name: "Pendente", CreatedAt: now, UpdatedAt: now})
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v, want boom", err)
	}

	if _, err := repo.FindBoard(ctx, "b-1"); !errors.Is(err, ports.ErrBoardNotFound) {
		t.Fatalf("board survived rollback: %v", err)
	}
	if _, err := repo.FindColumn(ctx, "col-1"); !errors.Is(err, ports.ErrColumnNotFound) {
		t.Fatalf("column survived rollback: %v", err)
	}
}
