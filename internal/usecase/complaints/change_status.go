package complaints

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/domain/complaint"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
)

type ChangeStatusInput struct {
	Requester   complaint.Requester
	ComplaintID string
	NewStatus   string
	Reason      string
}

type TransitionResult struct {
	ComplaintID    string
	PreviousStatus complaint.Status
	NewStatus      complaint.Status
	ChangedBy      string
	ChangedAt      time.Time
	Reason         *string
}

// ChangeStatus applies one transition of the status table. The status write
// and its history row commit together; audit, cache and board mirroring
// follow the commit and never undo it.
func (s *Service) ChangeStatus(ctx context.Context, input ChangeStatusInput) (TransitionResult, error) {
	ctx, err := s.begin(ctx, "change_status")
	if err != nil {
		return TransitionResult{}, err
	}
	if err := requireRequester(input.Requester); err != nil {
		return TransitionResult{}, err
	}
	if !input.Requester.IsManager() {
		return TransitionResult{}, errs.Forbidden("no permission to change complaint status")
	}

	complaintID := strings.TrimSpace(input.ComplaintID)
	if complaintID == "" {
		return TransitionResult{}, errs.Validation("complaint id is required")
	}
	target, err := complaint.ParseStatus(input.NewStatus)
	if err != nil {
		return TransitionResult{}, errs.ValidationFrom(err)
	}

	now := s.now().UTC()
	var (
		updated complaint.Complaint
		entry   complaint.StatusHistory
		failure error
	)
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		current, err := s.repo.FindByID(txCtx, complaintID)
		if errors.Is(err, ports.ErrComplaintNotFound) {
			failure = errs.NotFound("complaint %s not found", complaintID)
			return nil
		}
		if err != nil {
			return errs.Wrap(err, "find complaint")
		}
		if current.IsDeleted() {
			failure = errs.NotFound("complaint %s not found", complaintID)
			return nil
		}
		if _, err := current.WithStatus(target, now); err != nil {
			failure = errs.ValidationFrom(err)
			return nil
		}

		entry, err = complaint.NewStatusHistory(complaint.HistoryParams{
			ID:             s.newID(),
			ComplaintID:    current.ID,
			PreviousStatus: current.Status,
			NewStatus:      target,
			ChangedBy:      input.Requester.ID,
			ChangedAt:      now,
			Reason:         input.Reason,
		})
		if err != nil {
			failure = errs.ValidationFrom(err)
			return nil
		}

		updated, err = s.repo.UpdateStatus(txCtx, entry)
		return err
	})
	if errors.Is(err, ports.ErrStatusConflict) {
		return TransitionResult{}, s.resolveConflict(ctx, complaintID, target)
	}
	if err != nil {
		return TransitionResult{}, s.internalFailure(ctx, "change complaint status", err)
	}
	if failure != nil {
		return TransitionResult{}, failure
	}

	result := TransitionResult{
		ComplaintID:    entry.ComplaintID,
		PreviousStatus: entry.PreviousStatus,
		NewStatus:      entry.NewStatus,
		ChangedBy:      entry.ChangedBy,
		ChangedAt:      entry.ChangedAt,
		Reason:         entry.Reason,
	}

	details := map[string]any{
		"previousStatus": string(result.PreviousStatus),
		"newStatus":      string(result.NewStatus),
	}
	if result.Reason != nil {
		details["reason"] = *result.Reason
	}
	s.recordAudit(ctx, ports.AuditComplaintStatusChanged, result.ComplaintID, result.ChangedBy, details)
	s.setStatusCache(ctx, result.ComplaintID, result.NewStatus)
	s.mirrorOnBoard(ctx, updated)

	logging.Info(ctx, "complaint status changed",
		slog.String("complaint_id", result.ComplaintID),
		slog.String("from", string(result.PreviousStatus)),
		slog.String("to", string(result.NewStatus)),
	)
	return result, nil
}

// resolveConflict runs after another writer won the compare-and-swap. The
// transition is judged again against the status that is stored now.
func (s *Service) resolveConflict(ctx context.Context, complaintID string, target complaint.Status) error {
	current, err := s.repo.FindByID(ctx, complaintID)
	if errors.Is(err, ports.ErrComplaintNotFound) {
		return errs.NotFound("complaint %s not found", complaintID)
	}
	if err != nil {
		return s.internalFailure(ctx, "reload complaint after conflict", err)
	}
	if current.IsDeleted() {
		return errs.NotFound("complaint %s not found", complaintID)
	}
	if err := current.Status.CanTransitionTo(target); err != nil {
		return errs.ValidationFrom(err)
	}
	return errs.Conflict("complaint %s changed concurrently, retry", complaintID)
}

func (s *Service) mirrorOnBoard(ctx context.Context, c complaint.Complaint) {
	if s.board == nil || !s.opts.AutoSyncBoard {
		return
	}
	if err := s.board.MirrorComplaint(ctx, c); err != nil {
		logging.Warn(ctx, "kanban mirror failed", slog.String("complaint_id", c.ID), slog.Any("err", errs.Loggable(err)))
	}
}
