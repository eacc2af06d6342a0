package complaints

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
	"condoqueixas/internal/infrastructure/persistence/relational/model"
	"condoqueixas/internal/infrastructure/persistence/relational/repository"
	"condoqueixas/internal/infrastructure/persistence/relational/uow"
	"condoqueixas/internal/ports"
)

var (
	resident  = complaint.Requester{ID: "r-1", Role: complaint.RoleResident}
	neighbour = complaint.Requester{ID: "r-2", Role: complaint.RoleResident}
	sindico   = complaint.Requester{ID: "m-1", Role: complaint.RoleSindico}
	admin     = complaint.Requester{ID: "a-1", Role: complaint.RoleAdmin}
)

type testCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newTestCache() *testCache {
	return &testCache{data: make(map[string]string)}
}

func (c *testCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *testCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *testCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

type failingAudit struct {
	calls int
}

func (a *failingAudit) Save(context.Context, ports.AuditLog) error {
	a.calls++
	return errors.New("audit sink down")
}

type recordingBoard struct {
	mirrored []complaint.Complaint
}

func (b *recordingBoard) MirrorComplaint(_ context.Context, c complaint.Complaint) error {
	b.mirrored = append(b.mirrored, c)
	return nil
}

type fixture struct {
	svc   *Service
	db    *gorm.DB
	repo  *repository.ComplaintRepository
	cache *testCache
	board *recordingBoard
	clock time.Time
}

func setupFixture(t *testing.T, mutate func(*Dependencies, *Options)) *fixture {
	t.Helper()

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "complaints.sqlite")), &gorm.Config{})
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

	users := repository.NewUserRepository(db)
	for _, u := range []ports.User{
		{ID: resident.ID, Name: "Ana", Email: "ana@example.com", Role: complaint.RoleResident, Block: "A", Apartment: "101"},
		{ID: neighbour.ID, Name: "Bruno", Email: "bruno@example.com", Role: complaint.RoleResident, Block: "B", Apartment: "202"},
		{ID: sindico.ID, Name: "Marta", Email: "marta@example.com", Role: complaint.RoleSindico},
	} {
		if err := users.Save(context.Background(), u); err != nil {
			t.Fatalf("save user %s: %v", u.ID, err)
		}
	}

	f := &fixture{
		db:    db,
		repo:  repository.NewComplaintRepository(db),
		cache: newTestCache(),
		board: &recordingBoard{},
		clock: time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	audit := repository.NewAuditRepository(db)
	deps := Dependencies{
		Complaints: f.repo,
		Users:      users,
		UnitOfWork: uow.NewUnitOfWork(db),
		Audit:      audit,
		AuditLogs:  audit,
		Cache:      f.cache,
		Board:      f.board,
	}
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&deps, &opts)
	}

	f.svc = NewService(deps, opts)
	f.svc.now = func() time.Time { return f.clock }
	seq := 0
	f.svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func (f *fixture) create(t *testing.T, who complaint.Requester, description string, anonymous bool) ComplaintView {
	t.Helper()
	view, err := f.svc.CreateComplaint(context.Background(), CreateInput{
		Requester:   who,
		Category:    "INFRAESTRUTURA",
		Urgency:     "ALTA",
		Description: description,
		IsAnonymous: anonymous,
	})
	if err != nil {
		t.Fatalf("CreateComplaint() error = %v", err)
	}
	f.advance(time.Minute)
	return view
}
