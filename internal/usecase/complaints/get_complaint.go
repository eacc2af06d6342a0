package complaints

import (
	"context"
	"errors"
	"strings"

	"condoqueixas/internal/domain/complaint"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
)

type GetInput struct {
	Requester      complaint.Requester
	ComplaintID    string
	IncludeDeleted bool
}

// GetComplaint returns one complaint with its status history. Residents only
// open their own complaints.
func (s *Service) GetComplaint(ctx context.Context, input GetInput) (ComplaintView, error) {
	ctx, err := s.begin(ctx, "get")
	if err != nil {
		return ComplaintView{}, err
	}
	if err := requireRequester(input.Requester); err != nil {
		return ComplaintView{}, err
	}

	current, err := s.loadVisible(ctx, input.Requester, input.ComplaintID, input.IncludeDeleted)
	if err != nil {
		return ComplaintView{}, err
	}

	author, err := s.lookupAuthor(ctx, current.AuthorID)
	if err != nil {
		return ComplaintView{}, s.internalFailure(ctx, "find complaint author", err)
	}
	history, err := s.repo.FindStatusHistory(ctx, current.ID)
	if err != nil {
		return ComplaintView{}, s.internalFailure(ctx, "find status history", err)
	}

	view := Project(input.Requester, ports.ComplaintRow{Complaint: current, Author: author})
	view.History = historyViews(history)
	return view, nil
}

// loadVisible fetches complaintID and applies the detail visibility rules.
func (s *Service) loadVisible(ctx context.Context, requester complaint.Requester, complaintID string, includeDeleted bool) (complaint.Complaint, error) {
	id := strings.TrimSpace(complaintID)
	if id == "" {
		return complaint.Complaint{}, errs.Validation("complaint id is required")
	}

	current, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ports.ErrComplaintNotFound) {
		return complaint.Complaint{}, errs.NotFound("complaint %s not found", id)
	}
	if err != nil {
		return complaint.Complaint{}, s.internalFailure(ctx, "find complaint", err)
	}

	if current.IsDeleted() && !(requester.IsManager() && includeDeleted) {
		return complaint.Complaint{}, errs.NotFound("complaint %s not found", id)
	}
	if !complaint.CanView(requester, current) {
		return complaint.Complaint{}, errs.Forbidden("no permission to view complaint %s", id)
	}
	return current, nil
}
