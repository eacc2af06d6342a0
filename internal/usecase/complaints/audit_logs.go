package complaints

import (
	"context"
	"errors"

	"condoqueixas/internal/domain/complaint"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
)

type AuditLogsInput struct {
	Requester   complaint.Requester
	Action      string
	EntityType  string
	EntityID    string
	PerformedBy string
	Page        int
	Limit       int
}

// ListAuditLogs is restricted to ADMIN.
func (s *Service) ListAuditLogs(ctx context.Context, input AuditLogsInput) (ports.AuditPage, error) {
	ctx, err := s.begin(ctx, "audit_logs")
	if err != nil {
		return ports.AuditPage{}, err
	}
	if err := requireRequester(input.Requester); err != nil {
		return ports.AuditPage{}, err
	}
	if input.Requester.Role != complaint.RoleAdmin {
		return ports.AuditPage{}, errs.Forbidden("no permission to read audit logs")
	}
	if s.auditLogs == nil {
		return ports.AuditPage{}, errs.Internal(errors.New("audit reader is not configured"))
	}

	page, err := s.auditLogs.List(ctx, ports.AuditFilter{
		Action:      input.Action,
		EntityType:  input.EntityType,
		EntityID:    input.EntityID,
		PerformedBy: input.PerformedBy,
	}, s.normalizePage(input.Page, input.Limit))
	if err != nil {
		return ports.AuditPage{}, s.internalFailure(ctx, "list audit logs", err)
	}
	return page, nil
}
