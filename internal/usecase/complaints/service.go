package complaints

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/domain/complaint"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
)

const (
	ScopeMine = "mine"
	ScopeAll  = "all"

	entityComplaint = "complaint"
)

// BoardSyncer mirrors a complaint onto the kanban board.
type BoardSyncer interface {
	MirrorComplaint(ctx context.Context, c complaint.Complaint) error
}

type Options struct {
	DailyLimit      int
	LimitWindow     time.Duration
	DefaultPageSize int
	MaxPageSize     int
	// ResidentFeed lets residents list every complaint with the limited projection.
	ResidentFeed   bool
	StatusCacheTTL time.Duration
	AutoSyncBoard  bool
}

func DefaultOptions() Options {
	return Options{
		DailyLimit:      5,
		LimitWindow:     24 * time.Hour,
		DefaultPageSize: 10,
		MaxPageSize:     100,
		ResidentFeed:    true,
		StatusCacheTTL:  24 * time.Hour,
		AutoSyncBoard:   true,
	}
}

type Dependencies struct {
	Complaints ports.ComplaintRepository
	Users      ports.UserDirectory
	UnitOfWork ports.UnitOfWork
	Audit      ports.AuditLogger
	AuditLogs  ports.AuditReader
	Cache      ports.Cache
	Board      BoardSyncer
}

type Service struct {
	repo      ports.ComplaintRepository
	users     ports.UserDirectory
	uow       ports.UnitOfWork
	audit     ports.AuditLogger
	auditLogs ports.AuditReader
	cache     ports.Cache
	board     BoardSyncer
	opts      Options
	now       func() time.Time
	newID     func() string
}

// NewService wires complaint use cases. Audit, cache and board are optional.
func NewService(deps Dependencies, opts Options) *Service {
	defaults := DefaultOptions()
	if opts.DailyLimit <= 0 {
		opts.DailyLimit = defaults.DailyLimit
	}
	if opts.LimitWindow <= 0 {
		opts.LimitWindow = defaults.LimitWindow
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = defaults.DefaultPageSize
	}
	if opts.MaxPageSize < opts.DefaultPageSize {
		opts.MaxPageSize = max(defaults.MaxPageSize, opts.DefaultPageSize)
	}

	return &Service{
		repo:      deps.Complaints,
		users:     deps.Users,
		uow:       deps.UnitOfWork,
		audit:     deps.Audit,
		auditLogs: deps.AuditLogs,
		cache:     deps.Cache,
		board:     deps.Board,
		opts:      opts,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *Service) begin(ctx context.Context, op string) (context.Context, error) {
	if ctx == nil {
		return nil, errs.Internal(errors.New("context is required"))
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Internal(errs.Wrap(err, "check context"))
	}
	if s.repo == nil || s.uow == nil {
		return nil, errs.Internal(errors.New("complaint repository and unit of work are required"))
	}
	return logging.WithAttrs(ctx, slog.String("component", "usecase.complaints"), slog.String("op", op)), nil
}

// internalFailure logs err once and hides it behind the generic failure.
func (s *Service) internalFailure(ctx context.Context, step string, err error) error {
	failure := errs.Internal(errs.Wrap(err, step))
	logging.Error(ctx, "complaint operation failed", slog.Any("err", errs.Loggable(failure)))
	return failure
}

func requireRequester(requester complaint.Requester) error {
	if requester.ID == "" {
		return errs.Forbidden("requester is required")
	}
	if _, err := complaint.ParseRole(string(requester.Role)); err != nil {
		return errs.Forbidden("unknown role %q", requester.Role)
	}
	return nil
}

func (s *Service) recordAudit(ctx context.Context, action string, entityID string, performedBy string, details map[string]any) {
	if s.audit == nil {
		return
	}

	entry := ports.AuditLog{
		ID:          s.newID(),
		Action:      action,
		EntityType:  entityComplaint,
		EntityID:    entityID,
		PerformedBy: performedBy,
		Details:     details,
		CreatedAt:   s.now().UTC(),
	}
	if info, ok := ports.ClientInfoFromContext(ctx); ok {
		if info.IPAddress != "" {
			entry.IPAddress = &info.IPAddress
		}
		if info.UserAgent != "" {
			entry.UserAgent = &info.UserAgent
		}
	}

	if err := s.audit.Save(ctx, entry); err != nil {
		logging.Warn(ctx, "audit log write failed",
			slog.String("action", action),
			slog.String("complaint_id", entityID),
			slog.Any("err", errs.Loggable(err)),
		)
	}
}

func (s *Service) setStatusCache(ctx context.Context, complaintID string, status complaint.Status) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, statusCacheKey(complaintID), string(status), s.opts.StatusCacheTTL); err != nil {
		logging.Warn(ctx, "status cache write failed", slog.String("complaint_id", complaintID), slog.Any("err", errs.Loggable(err)))
	}
}

func (s *Service) dropStatusCache(ctx context.Context, complaintID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statusCacheKey(complaintID)); err != nil {
		logging.Warn(ctx, "status cache delete failed", slog.String("complaint_id", complaintID), slog.Any("err", errs.Loggable(err)))
	}
}

func statusCacheKey(complaintID string) string {
	return "complaint_status:" + complaintID
}

func (s *Service) lookupAuthor(ctx context.Context, authorID string) (*ports.Author, error) {
	if s.users == nil {
		return nil, nil
	}
	user, err := s.users.FindByID(ctx, authorID)
	if errors.Is(err, ports.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	author := user.Author()
	return &author, nil
}

func (s *Service) normalizePage(page int, limit int) ports.Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.opts.DefaultPageSize
	}
	if limit > s.opts.MaxPageSize {
		limit = s.opts.MaxPageSize
	}
	return ports.Pagination{Page: page, Limit: limit}
}
