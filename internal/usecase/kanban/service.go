package kanban

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/domain/complaint"
	domainkanban "condoqueixas/internal/domain/kanban"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
)

const entityCard = "kanban_card"

type Options struct {
	// BoardTitle names the board complaints are mirrored onto.
	BoardTitle string
	Template   domainkanban.Template
	// SyncPageSize bounds how many complaints SyncAll loads per query.
	SyncPageSize int
}

func DefaultOptions() Options {
	return Options{
		BoardTitle:   domainkanban.DefaultBoardTitle,
		Template:     domainkanban.DefaultTemplate(),
		SyncPageSize: 100,
	}
}

type Dependencies struct {
	Boards     ports.KanbanRepository
	Complaints ports.ComplaintRepository
	UnitOfWork ports.UnitOfWork
	Audit      ports.AuditLogger
	Notifier   ports.BoardNotifier
}

type Service struct {
	boards     ports.KanbanRepository
	complaints ports.ComplaintRepository
	uow        ports.UnitOfWork
	audit      ports.AuditLogger
	notifier   ports.BoardNotifier
	opts       Options
	now        func() time.Time
	newID      func() string
}

// NewService wires the board use cases. Audit and notifier are optional.
func NewService(deps Dependencies, opts Options) *Service {
	defaults := DefaultOptions()
	if strings.TrimSpace(opts.BoardTitle) == "" {
		opts.BoardTitle = defaults.BoardTitle
	}
	if len(opts.Template.Columns) == 0 {
		opts.Template = defaults.Template
	}
	if strings.TrimSpace(opts.Template.Title) == "" {
		opts.Template.Title = opts.BoardTitle
	}
	if opts.SyncPageSize <= 0 {
		opts.SyncPageSize = defaults.SyncPageSize
	}

	return &Service{
		boards:     deps.Boards,
		complaints: deps.Complaints,
		uow:        deps.UnitOfWork,
		audit:      deps.Audit,
		notifier:   deps.Notifier,
		opts:       opts,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func (s *Service) begin(ctx context.Context, op string) (context.Context, error) {
	if ctx == nil {
		return nil, errs.Internal(errors.New("context is required"))
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Internal(errs.Wrap(err, "check context"))
	}
	if s.boards == nil || s.uow == nil {
		return nil, errs.Internal(errors.New("kanban repository and unit of work are required"))
	}
	return logging.WithAttrs(ctx, slog.String("component", "usecase.kanban"), slog.String("op", op)), nil
}

func (s *Service) internalFailure(ctx context.Context, step string, err error) error {
	failure := errs.Internal(errs.Wrap(err, step))
	logging.Error(ctx, "kanban operation failed", slog.Any("err", errs.Loggable(failure)))
	return failure
}

// settle passes typed failures through and hides everything else.
func (s *Service) settle(ctx context.Context, step string, err error) error {
	if err == nil || errs.IsFailure(err) {
		return err
	}
	return s.internalFailure(ctx, step, err)
}

func requireManager(requester complaint.Requester) error {
	if requester.ID == "" {
		return errs.Forbidden("requester is required")
	}
	if !requester.IsManager() {
		return errs.Forbidden("no permission to manage the kanban board")
	}
	return nil
}

func (s *Service) recordAudit(ctx context.Context, action string, cardID string, performedBy string, details map[string]any) {
	if s.audit == nil {
		return
	}

	entry := ports.AuditLog{
		ID:          s.newID(),
		Action:      action,
		EntityType:  entityCard,
		EntityID:    cardID,
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
		logging.Warn(ctx, "audit log write failed", slog.String("action", action), slog.String("card_id", cardID), slog.Any("err", errs.Loggable(err)))
	}
}

func (s *Service) publish(ctx context.Context, event ports.BoardEvent) {
	if s.notifier == nil {
		return
	}
	event.OccurredAt = s.now().UTC()
	if err := s.notifier.Publish(ctx, event); err != nil {
		logging.Warn(ctx, "board event publish failed", slog.String("type", event.Type), slog.Any("err", errs.Loggable(err)))
	}
}

// resolveBoard returns boardID, or the configured board when boardID is empty.
func (s *Service) resolveBoard(ctx context.Context, boardID string) (domainkanban.Board, error) {
	id := strings.TrimSpace(boardID)
	var (
		board domainkanban.Board
		err   error
	)
	if id == "" {
		board, err = s.boards.FindBoardByTitle(ctx, s.opts.BoardTitle)
	} else {
		board, err = s.boards.FindBoard(ctx, id)
	}
	if errors.Is(err, ports.ErrBoardNotFound) {
		if id == "" {
			return domainkanban.Board{}, errs.NotFound("board %q not found", s.opts.BoardTitle)
		}
		return domainkanban.Board{}, errs.NotFound("board %s not found", id)
	}
	if err != nil {
		return domainkanban.Board{}, errs.Wrap(err, "find board")
	}
	return board, nil
}
