package kanban

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"condoqueixas/internal/domain/complaint"
	domainkanban "condoqueixas/internal/domain/kanban"
	"condoqueixas/internal/infrastructure/persistence/relational/model"
	"condoqueixas/internal/infrastructure/persistence/relational/repository"
	"condoqueixas/internal/infrastructure/persistence/relational/uow"
	"condoqueixas/internal/ports"
)

var (
	manager  = complaint.Requester{ID: "m-1", Role: complaint.RoleSindico}
	resident = complaint.Requester{ID: "r-1", Role: complaint.RoleResident}
)

// countingBoards counts every write that reaches the repository.
// Reordering failOrdersIn fails after the write is recorded.
type countingBoards struct {
	ports.KanbanRepository
	mu           sync.Mutex
	writes       []string
	failOrdersIn string
}

func (c *countingBoards) record(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, op)
}

func (c *countingBoards) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = nil
}

func (c *countingBoards) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.writes)
}

func (c *countingBoards) CreateBoard(ctx context.Context, board domainkanban.Board) error {
	c.record("CreateBoard")
	return c.KanbanRepository.CreateBoard(ctx, board)
}

func (c *countingBoards) CreateColumn(ctx context.Context, column domainkanban.Column) error {
	c.record("CreateColumn")
	return c.KanbanRepository.CreateColumn(ctx, column)
}

func (c *countingBoards) CreateCard(ctx context.Context, card domainkanban.Card) error {
	c.record("CreateCard")
	return c.KanbanRepository.CreateCard(ctx, card)
}

func (c *countingBoards) UpdateCardContent(ctx context.Context, id string, title string, description string, at time.Time) error {
	c.record("UpdateCardContent")
	return c.KanbanRepository.UpdateCardContent(ctx, id, title, description, at)
}

func (c *countingBoards) DeleteCard(ctx context.Context, id string) error {
	c.record("DeleteCard")
	return c.KanbanRepository.DeleteCard(ctx, id)
}

func (c *countingBoards) MoveCard(ctx context.Context, cardID string, columnID string, order int) error {
	c.record("MoveCard")
	return c.KanbanRepository.MoveCard(ctx, cardID, columnID, order)
}

func (c *countingBoards) UpdateOrdersInColumn(ctx context.Context, columnID string, updates []domainkanban.OrderUpdate) error {
	c.record("UpdateOrdersInColumn")
	if c.failOrdersIn != "" && c.failOrdersIn == columnID {
		return errors.New("disk I/O error")
	}
	return c.KanbanRepository.UpdateOrdersInColumn(ctx, columnID, updates)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []ports.BoardEvent
}

func (n *recordingNotifier) Publish(_ context.Context, event ports.BoardEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

type fixture struct {
	svc        *Service
	boards     *countingBoards
	complaints *repository.ComplaintRepository
	audit      *repository.AuditRepository
	notifier   *recordingNotifier
	clock      time.Time
	seq        int
}

func setupFixture(t *testing.T, mutate func(*Options)) *fixture {
	t.Helper()

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "kanban.sqlite")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	f := &fixture{
		boards:     &countingBoards{KanbanRepository: repository.NewKanbanRepository(db)},
		complaints: repository.NewComplaintRepository(db),
		audit:      repository.NewAuditRepository(db),
		notifier:   &recordingNotifier{},
		clock:      time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	f.svc = NewService(Dependencies{
		Boards:     f.boards,
		Complaints: f.complaints,
		UnitOfWork: uow.NewUnitOfWork(db),
		Audit:      f.audit,
		Notifier:   f.notifier,
	}, opts)
	f.svc.now = func() time.Time { return f.clock }
	f.svc.newID = f.nextID
	return f
}

func (f *fixture) nextID() string {
	f.seq++
	return fmt.Sprintf("id-%03d", f.seq)
}

// board seeds the default board and returns its column ids by name.
func (f *fixture) board(t *testing.T) (domainkanban.Board, map[string]string) {
	t.Helper()
	board, err := f.svc.EnsureDefaultBoard(context.Background())
	if err != nil {
		t.Fatalf("EnsureDefaultBoard() error = %v", err)
	}
	columns, err := f.boards.ListColumns(context.Background(), board.ID)
	if err != nil {
		t.Fatalf("ListColumns() error = %v", err)
	}
	byName := make(map[string]string, len(columns))
	for _, column := range columns {
		byName[column.Name] = column.ID
	}
	return board, byName
}

func (f *fixture) card(t *testing.T, boardID string, columnID string, title string) domainkanban.Card {
	t.Helper()
	card, err := f.svc.CreateCard(context.Background(), CreateCardInput{
		Requester: manager,
		BoardID:   boardID,
		ColumnID:  columnID,
		Title:     title,
	})
	if err != nil {
		t.Fatalf("CreateCard(%s) error = %v", title, err)
	}
	return card
}

func (f *fixture) orders(t *testing.T, columnID string) map[string]int {
	t.Helper()
	cards, err := f.boards.ListCards(context.Background(), columnID)
	if err != nil {
		t.Fatalf("ListCards() error = %v", err)
	}
	out := make(map[string]int, len(cards))
	for _, card := range cards {
		out[card.Title] = card.Order
	}
	return out
}

func (f *fixture) newComplaint(t *testing.T, description string) complaint.Complaint {
	t.Helper()
	c, err := complaint.New(complaint.NewParams{
		ID:          f.nextID(),
		AuthorID:    resident.ID,
		Category:    complaint.CategoryInfrastructure,
		Urgency:     complaint.UrgencyHigh,
		Description: description,
		Now:         f.clock,
	})
	if err != nil {
		t.Fatalf("complaint.New() error = %v", err)
	}
	if err := f.complaints.Save(context.Background(), c); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	f.clock = f.clock.Add(time.Minute)
	return c
}

func (f *fixture) transition(t *testing.T, c complaint.Complaint, to complaint.Status) complaint.Complaint {
	t.Helper()
	entry, err := complaint.NewStatusHistory(complaint.HistoryParams{
		ID:             f.nextID(),
		ComplaintID:    c.ID,
		PreviousStatus: c.Status,
		NewStatus:      to,
		ChangedBy:      manager.ID,
		ChangedAt:      f.clock,
	})
	if err != nil {
		t.Fatalf("NewStatusHistory() error = %v", err)
	}
	updated, err := f.complaints.UpdateStatus(context.Background(), entry)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	return updated
}
