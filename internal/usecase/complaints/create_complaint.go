package complaints

import (
	"context"
	"log/slog"

	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/domain/complaint"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
)

type CreateInput struct {
	Requester   complaint.Requester
	Category    string
	Urgency     string
	Description string
	IsAnonymous bool
}

// CreateComplaint files a PENDENTE complaint for the requester, enforcing the
// rolling creation limit.
func (s *Service) CreateComplaint(ctx context.Context, input CreateInput) (ComplaintView, error) {
	ctx, err := s.begin(ctx, "create")
	if err != nil {
		return ComplaintView{}, err
	}
	if err := requireRequester(input.Requester); err != nil {
		return ComplaintView{}, err
	}

	category, err := complaint.ParseCategory(input.Category)
	if err != nil {
		return ComplaintView{}, errs.ValidationFrom(err)
	}
	urgency, err := complaint.ParseUrgency(input.Urgency)
	if err != nil {
		return ComplaintView{}, errs.ValidationFrom(err)
	}

	now := s.now().UTC()
	created, err := complaint.New(complaint.NewParams{
		ID:          s.newID(),
		AuthorID:    input.Requester.ID,
		Category:    category,
		Urgency:     urgency,
		Description: input.Description,
		IsAnonymous: input.IsAnonymous,
		Now:         now,
	})
	if err != nil {
		return ComplaintView{}, errs.ValidationFrom(err)
	}

	limited := false
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		count, err := s.repo.CountByAuthorInPeriod(txCtx, created.AuthorID, now.Add(-s.opts.LimitWindow))
		if err != nil {
			return errs.Wrap(err, "count recent complaints")
		}
		if count >= int64(s.opts.DailyLimit) {
			limited = true
			return nil
		}
		return errs.Wrap(s.repo.Save(txCtx, created), "save complaint")
	}); err != nil {
		return ComplaintView{}, s.internalFailure(ctx, "create complaint", err)
	}
	if limited {
		logging.Info(ctx, "complaint creation rate limited", slog.String("author_id", created.AuthorID))
		return ComplaintView{}, errs.RateLimited("daily limit reached: at most %d complaints per %s", s.opts.DailyLimit, s.opts.LimitWindow)
	}

	s.recordAudit(ctx, ports.AuditComplaintCreated, created.ID, created.AuthorID, map[string]any{
		"category":    string(created.Category),
		"urgency":     string(created.Urgency),
		"isAnonymous": created.IsAnonymous,
	})
	s.setStatusCache(ctx, created.ID, created.Status)
	logging.Info(ctx, "complaint created", slog.String("complaint_id", created.ID))

	author, err := s.lookupAuthor(ctx, created.AuthorID)
	if err != nil {
		logging.Warn(ctx, "author lookup failed", slog.Any("err", errs.Loggable(err)))
	}
	return Project(input.Requester, ports.ComplaintRow{Complaint: created, Author: author}), nil
}
