package ports

import (
	"context"
	"errors"
	"time"

	"condoqueixas/internal/domain/complaint"
)

var (
	ErrComplaintNotFound = errors.New("complaint not found")
	// ErrStatusConflict means the stored status no longer matched the expected one.
	ErrStatusConflict = errors.New("complaint status changed concurrently")
)

type ComplaintFilter struct {
	Status         *complaint.Status
	Category       *complaint.Category
	Urgency        *complaint.Urgency
	AuthorID       string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	IncludeDeleted bool
}

type Pagination struct {
	Page  int
	Limit int
}

// Offset assumes Page and Limit were already normalized.
func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Author holds the public fields of a complaint author.
type Author struct {
	ID        string
	Name      string
	Block     string
	Apartment string
}

type ComplaintRow struct {
	Complaint complaint.Complaint
	Author    *Author
}

type ComplaintPage struct {
	Items      []ComplaintRow
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type ComplaintRepository interface {
	// FindByID also returns soft-deleted complaints; callers decide visibility.
	FindByID(ctx context.Context, id string) (complaint.Complaint, error)
	// Save upserts c. It never changes the status of an existing row.
	Save(ctx context.Context, c complaint.Complaint) error
	// SaveIfStatus writes the editable fields and deletion mark of c only while
	// the stored row is not deleted and still has status expected.
	// Otherwise it returns ErrStatusConflict.
	SaveIfStatus(ctx context.Context, c complaint.Complaint, expected complaint.Status) error
	FindWithFilters(ctx context.Context, filter ComplaintFilter, page Pagination) (ComplaintPage, error)
	// UpdateStatus writes entry.NewStatus only while the stored status is
	// entry.PreviousStatus, and appends entry in the same transaction.
	UpdateStatus(ctx context.Context, entry complaint.StatusHistory) (complaint.Complaint, error)
	FindStatusHistory(ctx context.Context, complaintID string) ([]complaint.StatusHistory, error)
	CountByAuthorInPeriod(ctx context.Context, authorID string, since time.Time) (int64, error)
}
