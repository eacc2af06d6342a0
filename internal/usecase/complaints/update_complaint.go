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

// UpdateInput carries the fields an author may still change. Nil means unchanged.
type UpdateInput struct {
	Requester   complaint.Requester
	ComplaintID string
	Description *string
	Category    *string
	Urgency     *string
}

// UpdateComplaint lets the author edit a complaint while it is still PENDENTE.
func (s *Service) UpdateComplaint(ctx context.Context, input UpdateInput) (ComplaintView, error) {
	ctx, err := s.begin(ctx, "update")
	if err != nil {
		return ComplaintView{}, err
	}
	if err := requireRequester(input.Requester); err != nil {
		return ComplaintView{}, err
	}
	if input.Description == nil && input.Category == nil && input.Urgency == nil {
		return ComplaintView{}, errs.Validation("nothing to update")
	}

	var update complaint.DetailsUpdate
	update.Description = input.Description
	if input.Category != nil {
		category, err := complaint.ParseCategory(*input.Category)
		if err != nil {
			return ComplaintView{}, errs.ValidationFrom(err)
		}
		update.Category = &category
	}
	if input.Urgency != nil {
		urgency, err := complaint.ParseUrgency(*input.Urgency)
		if err != nil {
			return ComplaintView{}, errs.ValidationFrom(err)
		}
		update.Urgency = &urgency
	}

	var updated complaint.Complaint
	var failure error
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		current, err := s.loadVisible(txCtx, input.Requester, input.ComplaintID, false)
		if err != nil {
			failure = err
			return nil
		}
		if current.AuthorID != input.Requester.ID {
			failure = errs.Forbidden("only the author can edit complaint %s", current.ID)
			return nil
		}

		next, err := current.WithDetails(update, s.now())
		if err != nil {
			failure = errs.ValidationFrom(err)
			return nil
		}
		if err := s.repo.SaveIfStatus(txCtx, next, current.Status); err != nil {
			if errors.Is(err, ports.ErrStatusConflict) {
				failure = errs.Conflict("complaint %s changed concurrently and can no longer be edited", current.ID)
				return nil
			}
			return errs.Wrap(err, "save complaint")
		}
		updated = next
		return nil
	}); err != nil {
		if errs.IsFailure(err) {
			return ComplaintView{}, err
		}
		return ComplaintView{}, s.internalFailure(ctx, "update complaint", err)
	}
	if failure != nil {
		return ComplaintView{}, failure
	}

	s.recordAudit(ctx, ports.AuditComplaintUpdated, updated.ID, input.Requester.ID, map[string]any{
		"category": string(updated.Category),
		"urgency":  string(updated.Urgency),
	})
	logging.Info(ctx, "complaint updated", slog.String("complaint_id", updated.ID))

	author, err := s.lookupAuthor(ctx, updated.AuthorID)
	if err != nil {
		logging.Warn(ctx, "author lookup failed", slog.Any("err", errs.Loggable(err)))
	}
	return Project(input.Requester, ports.ComplaintRow{Complaint: updated, Author: author}), nil
}
