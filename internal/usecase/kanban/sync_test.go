package kanban

import (
	"context"
	"strings"
	"testing"

	"condoqueixas/internal/domain/complaint"
	domainkanban "condoqueixas/internal/domain/kanban"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
)

func TestSyncComplaintCreatesThenIsIdempotent(t *testing.T) {
	f := setupFixture(t, nil)
	ctx := context.Background()
	_, columns := f.board(t)
	description := "The garage gate opens by itself every night around two in the morning"
	c := f.newComplaint(t, description)

	f.boards.reset()
	created, err := f.svc.SyncComplaint(ctx, SyncInput{Requester: manager, ComplaintID: c.ID})
	if err != nil {
		t.Fatalf("SyncComplaint() error = %v", err)
	}
	if !created.Created || created.Moved || created.ContentUpdated || created.ColumnID != columns[domainkanban.ColumnPending] {
		t.Fatalf("result = %+v", created)
	}

	card, err := f.boards.FindCardByComplaintID(ctx, c.ID)
	if err != nil {
		t.Fatalf("FindCardByComplaintID() error = %v", err)
	}
	wantTitle := string([]rune(description)[:50]) + "..."
	if card.Title != wantTitle || card.Description != description || card.Order != 100 {
		t.Fatalf("card = %+v", card)
	}

	f.boards.reset()
	again, err := f.svc.SyncComplaint(ctx, SyncInput{Requester: manager, ComplaintID: c.ID})
	if err != nil {
		t.Fatalf("SyncComplaint() again error = %v", err)
	}
	if again.Changed() || again.CardID != card.ID {
		t.Fatalf("again = %+v", again)
	}
	if f.boards.count() != 0 {
		t.Fatalf("idempotent sync wrote %v", f.boards.writes)
	}
}

func TestSyncComplaintFollowsStatusAndContent(t *testing.T) {
	f := setupFixture(t, nil)
	ctx := context.Background()
	_, columns := f.board(t)
	c := f.newComplaint(t, "Broken elevator on floor 3")
	other := f.newComplaint(t, "Hallway lamp keeps flickering")
	for _, id := range []string{c.ID, other.ID} {
		if _, err := f.svc.SyncComplaint(ctx, SyncInput{Requester: manager, ComplaintID: id}); err != nil {
			t.Fatalf("SyncComplaint(%s) error = %v", id, err)
		}
	}

	edited := "Broken elevator on floor 3, stuck between floors"
	next, err := c.WithDetails(complaint.DetailsUpdate{Description: &edited}, f.clock)
	if err != nil {
		t.Fatalf("WithDetails() error = %v", err)
	}
	if err := f.complaints.Save(ctx, next); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	updated, err := f.svc.SyncComplaint(ctx, SyncInput{Requester: manager, ComplaintID: c.ID})
	if err != nil {
		t.Fatalf("SyncComplaint() error = %v", err)
	}
	if !updated.ContentUpdated || updated.Moved || updated.Created {
		t.Fatalf("updated = %+v", updated)
	}

	f.transition(t, next, complaint.StatusInReview)
	f.boards.reset()
	moved, err := f.svc.SyncComplaint(ctx, SyncInput{Requester: manager, ComplaintID: c.ID})
	if err != nil {
		t.Fatalf("SyncComplaint() error = %v", err)
	}
	if !moved.Moved || moved.ContentUpdated || moved.ColumnID != columns[domainkanban.ColumnInReview] {
		t.Fatalf("moved = %+v", moved)
	}

	if got := f.orders(t, columns[domainkanban.ColumnInReview]); got[edited] != 100 {
		t.Fatalf("review orders = %v", got)
	}
	if got := f.orders(t, columns[domainkanban.ColumnPending]); len(got) != 1 || got["Hallway lamp keeps flickering"] != 100 {
		t.Fatalf("pending orders = %v", got)
	}

	synced := 0
	for _, event := range f.notifier.events {
		if event.Type == ports.BoardEventCardSynced {
			synced++
		}
	}
	if synced != 2 {
		t.Fatalf("card.synced events = %d, want 2", synced)
	}
}

func TestSyncComplaintMissingColumn(t *testing.T) {
	f := setupFixture(t, func(opts *Options) {
		opts.Template = domainkanban.Template{
			Title:   opts.BoardTitle,
			Columns: []domainkanban.TemplateColumn{{Name: domainkanban.ColumnPending}},
		}
	})
	ctx := context.Background()
	c := f.newComplaint(t, "Broken elevator on floor 3")
	f.transition(t, c, complaint.StatusInReview)

	_, err := f.svc.SyncComplaint(ctx, SyncInput{Requester: manager, ComplaintID: c.ID})
	if errs.KindOf(err) != errs.KindNotFound || !strings.Contains(errs.PublicMessage(err), domainkanban.ColumnInReview) {
		t.Fatalf("kind = %v, err = %v", errs.KindOf(err), err)
	}
}

func TestSyncComplaintRejections(t *testing.T) {
	f := setupFixture(t, nil)
	ctx := context.Background()
	c := f.newComplaint(t, "Broken elevator on floor 3")

	if _, err := f.svc.SyncComplaint(ctx, SyncInput{Requester: resident, ComplaintID: c.ID}); errs.KindOf(err) != errs.KindForbidden {
		t.Fatalf("resident kind = %v", errs.KindOf(err))
	}
	if _, err := f.svc.SyncComplaint(ctx, SyncInput{Requester: manager, ComplaintID: "missing"}); errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("missing kind = %v", errs.KindOf(err))
	}

	deleted, err := c.MarkAsDeleted(f.clock)
	if err != nil {
		t.Fatalf("MarkAsDeleted() error = %v", err)
	}
	if err := f.complaints.Save(ctx, deleted); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := f.svc.SyncComplaint(ctx, SyncInput{Requester: manager, ComplaintID: c.ID}); errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("deleted kind = %v", errs.KindOf(err))
	}
	if err := f.svc.MirrorComplaint(ctx, deleted); err != nil {
		t.Fatalf("MirrorComplaint(deleted) error = %v", err)
	}
}

func TestSyncAllSeedsBoardAndPages(t *testing.T) {
	f := setupFixture(t, func(opts *Options) {
		opts.SyncPageSize = 2
	})
	ctx := context.Background()
	for _, desc := range []string{"Broken elevator on floor 3", "Garage light is out again", "Pool gate does not lock"} {
		f.newComplaint(t, desc)
	}

	summary, err := f.svc.SyncAll(ctx, manager)
	if err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}
	if summary.Scanned != 3 || summary.Created != 3 {
		t.Fatalf("summary = %+v", summary)
	}

	view, err := f.svc.GetBoard(ctx, "")
	if err != nil {
		t.Fatalf("GetBoard() error = %v", err)
	}
	if len(view.Columns) != 4 || len(view.Columns[0].Cards) != 3 {
		t.Fatalf("board = %+v", view)
	}
	for i, card := range view.Columns[0].Cards {
		if card.Order != (i+1)*domainkanban.OrderStep || !card.IsLinked() {
			t.Fatalf("card %d = %+v", i, card)
		}
	}

	f.boards.reset()
	again, err := f.svc.SyncAll(ctx, manager)
	if err != nil {
		t.Fatalf("SyncAll() again error = %v", err)
	}
	if again.Created+again.Moved+again.Updated != 0 || f.boards.count() != 0 {
		t.Fatalf("again = %+v, writes = %v", again, f.boards.writes)
	}
}

func TestMirrorComplaint(t *testing.T) {
	f := setupFixture(t, nil)
	ctx := context.Background()
	c := f.newComplaint(t, "Broken elevator on floor 3")
	rejected := f.transition(t, c, complaint.StatusRejected)

	if err := f.svc.MirrorComplaint(ctx, rejected); err != nil {
		t.Fatalf("MirrorComplaint() error = %v", err)
	}
	card, err := f.boards.FindCardByComplaintID(ctx, c.ID)
	if err != nil {
		t.Fatalf("FindCardByComplaintID() error = %v", err)
	}
	column, err := f.boards.FindColumn(ctx, card.ColumnID)
	if err != nil {
		t.Fatalf("FindColumn() error = %v", err)
	}
	if column.Name != domainkanban.ColumnRejected {
		t.Fatalf("column = %q", column.Name)
	}

	logs, err := f.audit.List(ctx, ports.AuditFilter{Action: ports.AuditKanbanCardSynced}, ports.Pagination{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("audit List() error = %v", err)
	}
	if logs.Total != 1 || logs.Items[0].PerformedBy != "system" {
		t.Fatalf("audit = %+v", logs)
	}
}
