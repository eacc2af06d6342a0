package complaints

import (
	"context"
	"errors"
	"log/slog"

	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/domain/complaint"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
)

type DeleteInput struct {
	Requester   complaint.Requester
	ComplaintID string
}

// DeleteComplaint soft-deletes a complaint. Managers may delete any complaint,
// authors only while it is still editable.
func (s *Service) DeleteComplaint(ctx context.Context, input DeleteInput) error {
	ctx, err := s.begin(ctx, "delete")
	if err != nil {
		return err
	}
	if err := requireRequester(input.Requester); err != nil {
		return err
	}

	var (
		deleted complaint.Complaint
		failure error
	)
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		current, err := s.loadVisible(txCtx, input.Requester, input.ComplaintID, false)
		if err != nil {
			failure = err
			return nil
		}
		if !input.Requester.IsManager() && !current.CanBeEdited() {
			failure = errs.Forbidden("complaint %s can no longer be deleted by its author", current.ID)
			return nil
		}

		next, err := current.MarkAsDeleted(s.now())
		if err != nil {
			failure = errs.ValidationFrom(err)
			return nil
		}
		if err := s.repo.SaveIfStatus(txCtx, next, current.Status); err != nil {
			if errors.Is(err, ports.ErrStatusConflict) {
				failure = errs.Conflict("complaint %s changed concurrently, retry the deletion", current.ID)
				return nil
			}
			return errs.Wrap(err, "save deleted complaint")
		}
		deleted = next
		return nil
	}); err != nil {
		return s.internalFailure(ctx, "delete complaint", err)
	}
	if failure != nil {
		return failure
	}

	s.recordAudit(ctx, ports.AuditComplaintDeleted, deleted.ID, input.Requester.ID, map[string]any{
		"status": string(deleted.Status),
	})
	s.dropStatusCache(ctx, deleted.ID)
	logging.Info(ctx, "complaint deleted", slog.String("complaint_id", deleted.ID))
	return nil
}
