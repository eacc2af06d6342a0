package ports

import (
	"context"
	"time"
)

const (
	AuditComplaintCreated       = "COMPLAINT_CREATED"
	AuditComplaintUpdated       = "COMPLAINT_UPDATED"
	AuditComplaintStatusChanged = "COMPLAINT_STATUS_CHANGED"
	AuditComplaintDeleted       = "COMPLAINT_DELETED"
	AuditKanbanCardMoved        = "KANBAN_CARD_MOVED"
	AuditKanbanCardSynced       = "KANBAN_CARD_SYNCED"
)

type AuditLog struct {
	ID          string
	Action      string
	EntityType  string
	EntityID    string
	PerformedBy string
	Details     map[string]any
	IPAddress   *string
	UserAgent   *string
	CreatedAt   time.Time
}

// AuditLogger is an append-only sink. Callers treat its failures as non-fatal.
type AuditLogger interface {
	Save(ctx context.Context, log AuditLog) error
}

type AuditFilter struct {
	Action      string
	EntityType  string
	EntityID    string
	PerformedBy string
}

type AuditPage struct {
	Items      []AuditLog
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type AuditReader interface {
	List(ctx context.Context, filter AuditFilter, page Pagination) (AuditPage, error)
}

// ClientInfo describes the caller of a request for audit records.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

type clientInfoKey struct{}

func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

func ClientInfoFromContext(ctx context.Context) (ClientInfo, bool) {
	if ctx == nil {
		return ClientInfo{}, false
	}
	info, ok := ctx.Value(clientInfoKey{}).(ClientInfo)
	return info, ok
}
