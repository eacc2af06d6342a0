package complaint

import (
	"fmt"
	"strings"
	"time"
)

// StatusHistory records one accepted transition. It is never updated.
type StatusHistory struct {
	ID             string
	ComplaintID    string
	PreviousStatus Status
	NewStatus      Status
	ChangedBy      string
	ChangedAt      time.Time
	Reason         *string
}

type HistoryParams struct {
	ID             string
	ComplaintID    string
	PreviousStatus Status
	NewStatus      Status
	ChangedBy      string
	ChangedAt      time.Time
	Reason         string
}

func NewStatusHistory(p HistoryParams) (StatusHistory, error) {
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.ComplaintID) == "" {
		return StatusHistory{}, fmt.Errorf("history id and complaint id are required")
	}
	if !p.PreviousStatus.IsValid() {
		return StatusHistory{}, fmt.Errorf("%w: %q", ErrInvalidStatus, string(p.PreviousStatus))
	}
	if !p.NewStatus.IsValid() {
		return StatusHistory{}, fmt.Errorf("%w: %q", ErrInvalidStatus, string(p.NewStatus))
	}
	if p.PreviousStatus == p.NewStatus {
		return StatusHistory{}, fmt.Errorf("%w: %s", ErrHistoryUnchangedStatus, p.NewStatus)
	}
	changedBy := strings.TrimSpace(p.ChangedBy)
	if changedBy == "" {
		return StatusHistory{}, ErrActorRequired
	}

	var reason *string
	if trimmed := strings.TrimSpace(p.Reason); trimmed != "" {
		reason = &trimmed
	}

	return StatusHistory{
		ID:             p.ID,
		ComplaintID:    p.ComplaintID,
		PreviousStatus: p.PreviousStatus,
		NewStatus:      p.NewStatus,
		ChangedBy:      changedBy,
		ChangedAt:      p.ChangedAt.UTC(),
		Reason:         reason,
	}, nil
}
