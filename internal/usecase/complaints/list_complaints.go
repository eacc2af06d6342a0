package complaints

import (
	"context"
	"strings"
	"time"

	"condoqueixas/internal/domain/complaint"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
)

type ListInput struct {
	Requester complaint.Requester
	// Scope is "mine" or "all". Managers default to all, residents to mine.
	Scope          string
	Status         string
	Category       string
	Urgency        string
	AuthorID       string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	IncludeDeleted bool
	Page           int
	Limit          int
}

type ListResult struct {
	Items      []ComplaintView
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

func (s *Service) ListComplaints(ctx context.Context, input ListInput) (ListResult, error) {
	ctx, err := s.begin(ctx, "list")
	if err != nil {
		return ListResult{}, err
	}
	if err := requireRequester(input.Requester); err != nil {
		return ListResult{}, err
	}

	filter, err := s.buildFilter(input)
	if err != nil {
		return ListResult{}, err
	}

	page, err := s.repo.FindWithFilters(ctx, filter, s.normalizePage(input.Page, input.Limit))
	if err != nil {
		return ListResult{}, s.internalFailure(ctx, "find complaints", err)
	}

	items := make([]ComplaintView, 0, len(page.Items))
	for _, row := range page.Items {
		items = append(items, Project(input.Requester, row))
	}
	return ListResult{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}, nil
}

func (s *Service) buildFilter(input ListInput) (ports.ComplaintFilter, error) {
	var filter ports.ComplaintFilter

	if raw := strings.TrimSpace(input.Status); raw != "" {
		status, err := complaint.ParseStatus(raw)
		if err != nil {
			return filter, errs.ValidationFrom(err)
		}
		filter.Status = &status
	}
	if raw := strings.TrimSpace(input.Category); raw != "" {
		category, err := complaint.ParseCategory(raw)
		if err != nil {
			return filter, errs.ValidationFrom(err)
		}
		filter.Category = &category
	}
	if raw := strings.TrimSpace(input.Urgency); raw != "" {
		urgency, err := complaint.ParseUrgency(raw)
		if err != nil {
			return filter, errs.ValidationFrom(err)
		}
		filter.Urgency = &urgency
	}
	if input.CreatedFrom != nil && input.CreatedTo != nil && input.CreatedFrom.After(*input.CreatedTo) {
		return filter, errs.Validation("createdFrom must not be after createdTo")
	}
	filter.CreatedFrom = input.CreatedFrom
	filter.CreatedTo = input.CreatedTo

	scope := strings.ToLower(strings.TrimSpace(input.Scope))
	switch scope {
	case "", ScopeMine, ScopeAll:
	default:
		return filter, errs.Validation("invalid scope %q: want %s or %s", input.Scope, ScopeMine, ScopeAll)
	}

	authorID := strings.TrimSpace(input.AuthorID)
	requester := input.Requester
	if requester.IsManager() {
		if scope == ScopeMine {
			authorID = requester.ID
		}
		filter.AuthorID = authorID
		filter.IncludeDeleted = input.IncludeDeleted
		return filter, nil
	}

	// Residents never filter by someone else; that would unmask anonymous authors.
	if authorID != "" && authorID != requester.ID {
		return filter, errs.Forbidden("no permission to filter by author")
	}
	if scope == ScopeAll {
		if !s.opts.ResidentFeed {
			return filter, errs.Forbidden("no permission to list all complaints")
		}
		filter.AuthorID = authorID
		return filter, nil
	}
	filter.AuthorID = requester.ID
	return filter, nil
}
