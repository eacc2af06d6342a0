package complaints

import (
	"context"
	"testing"

	"condoqueixas/internal/domain/complaint"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
)

func TestGetComplaintVisibility(t *testing.T) {
	f := setupFixture(t, nil)
	ctx := context.Background()
	own := f.create(t, resident, "Water leak in the garage", true)

	view, err := f.svc.GetComplaint(ctx, GetInput{Requester: resident, ComplaintID: own.ID})
	if err != nil {
		t.Fatalf("GetComplaint(author) error = %v", err)
	}
	if view.AuthorLabel != "Ana (You)" || len(view.History) != 0 {
		t.Fatalf("view = %+v", view)
	}

	_, err = f.svc.GetComplaint(ctx, GetInput{Requester: neighbour, ComplaintID: own.ID})
	if errs.KindOf(err) != errs.KindForbidden {
		t.Fatalf("GetComplaint(neighbour) kind = %v", errs.KindOf(err))
	}

	managed, err := f.svc.GetComplaint(ctx, GetInput{Requester: sindico, ComplaintID: own.ID})
	if err != nil {
		t.Fatalf("GetComplaint(manager) error = %v", err)
	}
	if managed.Author == nil || managed.Author.Apartment != "101" || managed.AuthorLabel != "Ana" {
		t.Fatalf("managed = %+v", managed)
	}

	if err := f.svc.DeleteComplaint(ctx, DeleteInput{Requester: resident, ComplaintID: own.ID}); err != nil {
		t.Fatalf("DeleteComplaint() error = %v", err)
	}
	for _, input := range []GetInput{
		{Requester: resident, ComplaintID: own.ID},
		{Requester: sindico, ComplaintID: own.ID},
		{Requester: resident, ComplaintID: own.ID, IncludeDeleted: true},
	} {
		if _, err := f.svc.GetComplaint(ctx, input); errs.KindOf(err) != errs.KindNotFound {
			t.Fatalf("GetComplaint(%+v) kind = %v", input, errs.KindOf(err))
		}
	}

	deleted, err := f.svc.GetComplaint(ctx, GetInput{Requester: sindico, ComplaintID: own.ID, IncludeDeleted: true})
	if err != nil {
		t.Fatalf("GetComplaint(includeDeleted) error = %v", err)
	}
	if deleted.DeletedAt == nil {
		t.Fatalf("DeletedAt = nil")
	}
}

func TestUpdateComplaintRules(t *testing.T) {
	f := setupFixture(t, nil)
	ctx := context.Background()
	created := f.create(t, resident, "Water leak in the garage", false)

	description := "Water leak in the garage, level -2"
	urgency := "critica"
	view, err := f.svc.UpdateComplaint(ctx, UpdateInput{
		Requester:   resident,
		ComplaintID: created.ID,
		Description: &description,
		Urgency:     &urgency,
	})
	if err != nil {
		t.Fatalf("UpdateComplaint() error = %v", err)
	}
	if view.Description != description || view.Urgency != complaint.UrgencyCritical || view.Priority != 4 {
		t.Fatalf("view = %+v", view)
	}

	if _, err := f.svc.UpdateComplaint(ctx, UpdateInput{Requester: resident, ComplaintID: created.ID}); errs.KindOf(err) != errs.KindValidation {
		t.Fatalf("empty update kind = %v", errs.KindOf(err))
	}
	if _, err := f.svc.UpdateComplaint(ctx, UpdateInput{Requester: sindico, ComplaintID: created.ID, Description: &description}); errs.KindOf(err) != errs.KindForbidden {
		t.Fatalf("manager edit kind = %v", errs.KindOf(err))
	}

	if _, err := f.svc.ChangeStatus(ctx, ChangeStatusInput{Requester: sindico, ComplaintID: created.ID, NewStatus: "EM_ANALISE"}); err != nil {
		t.Fatalf("ChangeStatus() error = %v", err)
	}
	_, err = f.svc.UpdateComplaint(ctx, UpdateInput{Requester: resident, ComplaintID: created.ID, Description: &description})
	if errs.KindOf(err) != errs.KindValidation {
		t.Fatalf("edit after review kind = %v, err = %v", errs.KindOf(err), err)
	}

	stored, err := f.repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if stored.Status != complaint.StatusInReview {
		t.Fatalf("edit must never touch status: %s", stored.Status)
	}
}

func TestDeleteComplaintRules(t *testing.T) {
	f := setupFixture(t, nil)
	ctx := context.Background()
	pending := f.create(t, resident, "Water leak in the garage", false)
	reviewing := f.create(t, resident, "Garage light is out again", false)
	if _, err := f.svc.ChangeStatus(ctx, ChangeStatusInput{Requester: sindico, ComplaintID: reviewing.ID, NewStatus: "EM_ANALISE"}); err != nil {
		t.Fatalf("ChangeStatus() error = %v", err)
	}

	if err := f.svc.DeleteComplaint(ctx, DeleteInput{Requester: neighbour, ComplaintID: pending.ID}); errs.KindOf(err) != errs.KindForbidden {
		t.Fatalf("neighbour delete kind = %v", errs.KindOf(err))
	}
	if err := f.svc.DeleteComplaint(ctx, DeleteInput{Requester: resident, ComplaintID: reviewing.ID}); errs.KindOf(err) != errs.KindForbidden {
		t.Fatalf("author delete after review kind = %v", errs.KindOf(err))
	}
	if err := f.svc.DeleteComplaint(ctx, DeleteInput{Requester: sindico, ComplaintID: reviewing.ID}); err != nil {
		t.Fatalf("manager delete error = %v", err)
	}
	if err := f.svc.DeleteComplaint(ctx, DeleteInput{Requester: resident, ComplaintID: pending.ID}); err != nil {
		t.Fatalf("author delete error = %v", err)
	}
	if err := f.svc.DeleteComplaint(ctx, DeleteInput{Requester: sindico, ComplaintID: pending.ID}); errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("second delete kind = %v", errs.KindOf(err))
	}
	if _, ok := f.svc.CachedStatus(ctx, pending.ID); ok {
		t.Fatalf("status cache entry must be dropped on delete")
	}

	list, err := f.svc.ListComplaints(ctx, ListInput{Requester: sindico})
	if err != nil {
		t.Fatalf("ListComplaints() error = %v", err)
	}
	if list.Total != 0 {
		t.Fatalf("deleted complaints listed: %+v", list.Items)
	}
	withDeleted, err := f.svc.ListComplaints(ctx, ListInput{Requester: sindico, IncludeDeleted: true})
	if err != nil {
		t.Fatalf("ListComplaints(includeDeleted) error = %v", err)
	}
	if withDeleted.Total != 2 {
		t.Fatalf("withDeleted.Total = %d", withDeleted.Total)
	}
}

func TestListAuditLogsIsAdminOnly(t *testing.T) {
	f := setupFixture(t, nil)
	ctx := context.Background()
	created := f.create(t, resident, "Water leak in the garage", false)
	if _, err := f.svc.ChangeStatus(ctx, ChangeStatusInput{Requester: sindico, ComplaintID: created.ID, NewStatus: "REJEITADA"}); err != nil {
		t.Fatalf("ChangeStatus() error = %v", err)
	}

	if _, err := f.svc.ListAuditLogs(ctx, AuditLogsInput{Requester: sindico}); errs.KindOf(err) != errs.KindForbidden {
		t.Fatalf("sindico kind = %v", errs.KindOf(err))
	}

	page, err := f.svc.ListAuditLogs(ctx, AuditLogsInput{Requester: admin, EntityID: created.ID})
	if err != nil {
		t.Fatalf("ListAuditLogs() error = %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("page = %+v", page)
	}

	changes, err := f.svc.ListAuditLogs(ctx, AuditLogsInput{Requester: admin, Action: ports.AuditComplaintStatusChanged})
	if err != nil {
		t.Fatalf("ListAuditLogs(action) error = %v", err)
	}
	if changes.Total != 1 || changes.Items[0].Details["newStatus"] != "REJEITADA" || changes.Items[0].PerformedBy != sindico.ID {
		t.Fatalf("changes = %+v", changes)
	}
}

// staleRepository reports every complaint as PENDENTE while stale is set,
// as a read taken just before a concurrent transition would.
type staleRepository struct {
	ports.ComplaintRepository
	stale bool
}

func (r *staleRepository) FindByID(ctx context.Context, id string) (complaint.Complaint, error) {
	c, err := r.ComplaintRepository.FindByID(ctx, id)
	if err != nil || !r.stale {
		return c, err
	}
	c.Status = complaint.StatusPending
	return c, nil
}

func TestAuthorWritesLoseToConcurrentTransition(t *testing.T) {
	stale := &staleRepository{}
	f := setupFixture(t, func(deps *Dependencies, _ *Options) {
		stale.ComplaintRepository = deps.Complaints
		deps.Complaints = stale
	})
	ctx := context.Background()
	created := f.create(t, resident, "Water leak in the garage", false)

	if _, err := f.svc.ChangeStatus(ctx, ChangeStatusInput{Requester: sindico, ComplaintID: created.ID, NewStatus: "EM_ANALISE"}); err != nil {
		t.Fatalf("ChangeStatus() error = %v", err)
	}
	stale.stale = true

	description := "Water leak in the garage, now flooding"
	_, err := f.svc.UpdateComplaint(ctx, UpdateInput{Requester: resident, ComplaintID: created.ID, Description: &description})
	if errs.KindOf(err) != errs.KindConflict {
		t.Fatalf("UpdateComplaint() kind = %v (err = %v), want conflict", errs.KindOf(err), err)
	}
	err = f.svc.DeleteComplaint(ctx, DeleteInput{Requester: resident, ComplaintID: created.ID})
	if errs.KindOf(err) != errs.KindConflict {
		t.Fatalf("DeleteComplaint() kind = %v (err = %v), want conflict", errs.KindOf(err), err)
	}

	stored, err := f.repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if stored.Status != complaint.StatusInReview || stored.Description != "Water leak in the garage" || stored.DeletedAt != nil {
		t.Fatalf("stored = %+v", stored)
	}
}
