package kanban

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/domain/complaint"
	domainkanban "condoqueixas/internal/domain/kanban"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
	"condoqueixas/internal/usecase/complaints"
)

var _ complaints.BoardSyncer = (*Service)(nil)

type SyncInput struct {
	Requester   complaint.Requester
	ComplaintID string
}

// SyncResult reports which writes a synchronization made. All false means
// the card already mirrored the complaint.
type SyncResult struct {
	ComplaintID    string
	CardID         string
	ColumnID       string
	Created        bool
	Moved          bool
	ContentUpdated bool
}

func (r SyncResult) Changed() bool {
	return r.Created || r.Moved || r.ContentUpdated
}

type SyncSummary struct {
	Scanned int
	Created int
	Moved   int
	Updated int
}

// SyncComplaint mirrors one complaint onto the configured board.
func (s *Service) SyncComplaint(ctx context.Context, input SyncInput) (SyncResult, error) {
	ctx, err := s.begin(ctx, "sync_complaint")
	if err != nil {
		return SyncResult{}, err
	}
	if err := requireManager(input.Requester); err != nil {
		return SyncResult{}, err
	}
	if s.complaints == nil {
		return SyncResult{}, errs.Internal(errors.New("complaint repository is not configured"))
	}

	id := strings.TrimSpace(input.ComplaintID)
	if id == "" {
		return SyncResult{}, errs.Validation("complaint id is required")
	}
	current, err := s.complaints.FindByID(ctx, id)
	if errors.Is(err, ports.ErrComplaintNotFound) {
		return SyncResult{}, errs.NotFound("complaint %s not found", id)
	}
	if err != nil {
		return SyncResult{}, s.internalFailure(ctx, "find complaint", err)
	}
	if current.IsDeleted() {
		return SyncResult{}, errs.NotFound("complaint %s not found", id)
	}

	result, err := s.sync(ctx, current, input.Requester.ID)
	if err != nil {
		return SyncResult{}, s.settle(ctx, "sync complaint", err)
	}
	return result, nil
}

// SyncAll mirrors every complaint that is not deleted, page by page.
func (s *Service) SyncAll(ctx context.Context, requester complaint.Requester) (SyncSummary, error) {
	ctx, err := s.begin(ctx, "sync_all")
	if err != nil {
		return SyncSummary{}, err
	}
	if err := requireManager(requester); err != nil {
		return SyncSummary{}, err
	}
	if s.complaints == nil {
		return SyncSummary{}, errs.Internal(errors.New("complaint repository is not configured"))
	}

	var summary SyncSummary
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return summary, s.internalFailure(ctx, "sync all", err)
		}
		batch, err := s.complaints.FindWithFilters(ctx, ports.ComplaintFilter{}, ports.Pagination{Page: page, Limit: s.opts.SyncPageSize})
		if err != nil {
			return summary, s.internalFailure(ctx, "find complaints", err)
		}
		for _, row := range batch.Items {
			result, err := s.sync(ctx, row.Complaint, requester.ID)
			if err != nil {
				return summary, s.settle(ctx, "sync complaint "+row.Complaint.ID, err)
			}
			summary.Scanned++
			if result.Created {
				summary.Created++
			}
			if result.Moved {
				summary.Moved++
			}
			if result.ContentUpdated {
				summary.Updated++
			}
		}
		if page >= batch.TotalPages {
			break
		}
	}

	logging.Info(ctx, "kanban sync finished",
		slog.Int("scanned", summary.Scanned),
		slog.Int("created", summary.Created),
		slog.Int("moved", summary.Moved),
		slog.Int("updated", summary.Updated),
	)
	return summary, nil
}

// systemActor is recorded as the performer of automatic mirroring.
const systemActor = "system"

// MirrorComplaint is the hook the complaint service calls after a status change.
func (s *Service) MirrorComplaint(ctx context.Context, c complaint.Complaint) error {
	ctx, err := s.begin(ctx, "mirror_complaint")
	if err != nil {
		return err
	}
	if c.IsDeleted() {
		return nil
	}
	if _, err := s.sync(ctx, c, systemActor); err != nil {
		return s.settle(ctx, "mirror complaint", err)
	}
	return nil
}

// sync creates, moves or rewrites the card of c. Nothing is written when the
// card already matches.
func (s *Service) sync(ctx context.Context, c complaint.Complaint, performedBy string) (SyncResult, error) {
	board, err := s.syncBoard(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	result := SyncResult{ComplaintID: c.ID}
	columnName := domainkanban.ColumnForStatus(c.Status)
	title, body := domainkanban.CardContentFromDescription(c.Description)

	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		column, err := s.boards.FindColumnByName(txCtx, board.ID, columnName)
		if errors.Is(err, ports.ErrColumnNotFound) {
			return errs.NotFound("%s: %q on board %s", domainkanban.ErrColumnNotFound, columnName, board.ID)
		}
		if err != nil {
			return errs.Wrap(err, "find mapped column")
		}
		result.ColumnID = column.ID

		card, err := s.boards.FindCardByComplaintID(txCtx, c.ID)
		if errors.Is(err, ports.ErrCardNotFound) {
			cards, err := s.boards.ListCards(txCtx, column.ID)
			if err != nil {
				return errs.Wrap(err, "list cards")
			}
			now := s.now().UTC()
			complaintID := c.ID
			card = domainkanban.Card{
				ID:          s.newID(),
				ColumnID:    column.ID,
				ComplaintID: &complaintID,
				Title:       title,
				Description: body,
				Order:       domainkanban.NextOrder(cards),
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.boards.CreateCard(txCtx, card); err != nil {
				return errs.Wrap(err, "create card")
			}
			result.CardID = card.ID
			result.Created = true
			return nil
		}
		if err != nil {
			return errs.Wrap(err, "find card by complaint")
		}
		result.CardID = card.ID

		if card.ColumnID != column.ID {
			destination, err := s.boards.ListCards(txCtx, column.ID)
			if err != nil {
				return errs.Wrap(err, "list cards")
			}
			if _, err := s.place(txCtx, card, card.ColumnID, column.ID, len(destination)); err != nil {
				return err
			}
			result.Moved = true
		}
		if domainkanban.ContentDrifted(card, c.Description) {
			if err := s.boards.UpdateCardContent(txCtx, card.ID, title, body, s.now().UTC()); err != nil {
				return errs.Wrap(err, "update card content")
			}
			result.ContentUpdated = true
		}
		return nil
	})
	if err != nil {
		return SyncResult{}, err
	}
	if !result.Changed() {
		return result, nil
	}

	eventType := ports.BoardEventCardSynced
	if result.Created {
		eventType = ports.BoardEventCardCreated
	}
	s.recordAudit(ctx, ports.AuditKanbanCardSynced, result.CardID, performedBy, map[string]any{
		"complaintId":    c.ID,
		"columnId":       result.ColumnID,
		"created":        result.Created,
		"moved":          result.Moved,
		"contentUpdated": result.ContentUpdated,
	})
	s.publish(ctx, ports.BoardEvent{Type: eventType, BoardID: board.ID, CardID: result.CardID, ColumnID: result.ColumnID})
	logging.Info(ctx, "kanban card synced",
		slog.String("complaint_id", c.ID),
		slog.String("card_id", result.CardID),
		slog.Bool("created", result.Created),
		slog.Bool("moved", result.Moved),
		slog.Bool("content_updated", result.ContentUpdated),
	)
	return result, nil
}

// syncBoard finds the configured board, seeding it from the template on first use.
func (s *Service) syncBoard(ctx context.Context) (domainkanban.Board, error) {
	board, err := s.boards.FindBoardByTitle(ctx, s.opts.BoardTitle)
	if err == nil {
		return board, nil
	}
	if !errors.Is(err, ports.ErrBoardNotFound) {
		return domainkanban.Board{}, errs.Wrap(err, "find board")
	}

	tpl := s.opts.Template
	tpl.Title = s.opts.BoardTitle
	return s.EnsureBoard(ctx, tpl)
}
