package complaints

import (
	"time"

	"condoqueixas/internal/domain/complaint"
	"condoqueixas/internal/ports"
)

type AuthorView struct {
	ID        string
	Name      string
	Block     string
	Apartment string
}

// ComplaintView is what a requester is allowed to see of one complaint.
// Author is only set in the full projection handed to managers.
type ComplaintView struct {
	ID          string
	Category    complaint.Category
	Urgency     complaint.Urgency
	Priority    int
	Description string
	Status      complaint.Status
	IsAnonymous bool
	IsOwn       bool
	AuthorLabel string
	Author      *AuthorView
	CanEdit     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
	History     []HistoryView
}

type HistoryView struct {
	ID             string
	PreviousStatus complaint.Status
	NewStatus      complaint.Status
	ChangedBy      string
	ChangedAt      time.Time
	Reason         *string
}

// Project picks the full or limited projection of row for viewer.
func Project(viewer complaint.Requester, row ports.ComplaintRow) ComplaintView {
	c := row.Complaint
	name := ""
	if row.Author != nil {
		name = row.Author.Name
	}
	label, _ := complaint.AuthorLabel(viewer, c, name)
	isOwn := viewer.ID != "" && viewer.ID == c.AuthorID

	view := ComplaintView{
		ID:          c.ID,
		Category:    c.Category,
		Urgency:     c.Urgency,
		Priority:    c.Urgency.PriorityLevel(),
		Description: c.Description,
		Status:      c.Status,
		IsAnonymous: c.IsAnonymous,
		IsOwn:       isOwn,
		AuthorLabel: label,
		CanEdit:     isOwn && c.CanBeEdited(),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		DeletedAt:   c.DeletedAt,
	}

	if viewer.IsManager() {
		author := AuthorView{ID: c.AuthorID}
		if row.Author != nil {
			author.Name = row.Author.Name
			author.Block = row.Author.Block
			author.Apartment = row.Author.Apartment
		}
		view.Author = &author
	}
	return view
}

func historyViews(entries []complaint.StatusHistory) []HistoryView {
	out := make([]HistoryView, 0, len(entries))
	for _, entry := range entries {
		out = append(out, HistoryView{
			ID:             entry.ID,
			PreviousStatus: entry.PreviousStatus,
			NewStatus:      entry.NewStatus,
			ChangedBy:      entry.ChangedBy,
			ChangedAt:      entry.ChangedAt,
			Reason:         entry.Reason,
		})
	}
	return out
}
