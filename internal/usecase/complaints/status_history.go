package complaints

import (
	"context"

	"condoqueixas/internal/domain/complaint"
)

type HistoryInput struct {
	Requester   complaint.Requester
	ComplaintID string
}

// StatusHistory lists the transitions of a complaint, newest first.
func (s *Service) StatusHistory(ctx context.Context, input HistoryInput) ([]HistoryView, error) {
	ctx, err := s.begin(ctx, "history")
	if err != nil {
		return nil, err
	}
	if err := requireRequester(input.Requester); err != nil {
		return nil, err
	}

	current, err := s.loadVisible(ctx, input.Requester, input.ComplaintID, true)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.FindStatusHistory(ctx, current.ID)
	if err != nil {
		return nil, s.internalFailure(ctx, "find status history", err)
	}
	return historyViews(entries), nil
}

// CachedStatus returns the last status written for complaintID, if the cache has one.
func (s *Service) CachedStatus(ctx context.Context, complaintID string) (complaint.Status, bool) {
	if s.cache == nil || ctx == nil {
		return "", false
	}
	value, found, err := s.cache.Get(ctx, statusCacheKey(complaintID))
	if err != nil || !found {
		return "", false
	}
	status, err := complaint.ParseStatus(value)
	if err != nil {
		return "", false
	}
	return status, true
}
