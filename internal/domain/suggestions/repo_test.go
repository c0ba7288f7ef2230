package suggestions

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func testDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE suggestions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL,
		desired_status TEXT NOT NULL,
		proof TEXT NOT NULL,
		reason TEXT NOT NULL,
		suggested_by TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		review_status TEXT NOT NULL DEFAULT 'pending'
	)`)
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func TestSubmitAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(testDB(t))

	var prev int64
	for i := 0; i < 5; i++ {
		id, err := repo.Submit(ctx, "Bob", "media", "proof", "reason", "Alice")
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if id <= prev {
			t.Errorf("id %d not strictly increasing after %d", id, prev)
		}
		prev = id
	}
}

func TestSubmitAllowsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(testDB(t))

	if _, err := repo.Submit(ctx, "bob", "media", "p", "r", "alice"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := repo.Submit(ctx, "bob", "media", "p", "r", "alice"); err != nil {
		t.Fatalf("duplicate submit should succeed: %v", err)
	}
	pending, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("want 2 pending, got %d", len(pending))
	}
}

func TestListPendingNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(testDB(t))

	first, _ := repo.Submit(ctx, "u1", "scam", "p", "r", "x")
	second, _ := repo.Submit(ctx, "u2", "scam", "p", "r", "x")

	pending, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("want 2 pending, got %d", len(pending))
	}
	if pending[0].ID != second || pending[1].ID != first {
		t.Errorf("pending order = [%d %d], want newest (%d) first", pending[0].ID, pending[1].ID, second)
	}

	if err := repo.Decide(ctx, second, ReviewApproved); err != nil {
		t.Fatalf("decide: %v", err)
	}
	pending, _ = repo.ListPending(ctx)
	if len(pending) != 1 || pending[0].ID != first {
		t.Errorf("decided suggestion still listed as pending: %v", pending)
	}
}

func TestDecideMissingID(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(testDB(t))

	err := repo.Decide(ctx, 42, ReviewApproved)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestDecideLastWriteWins(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(testDB(t))

	id, err := repo.Submit(ctx, "bob", "media", "p", "r", "alice")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := repo.Decide(ctx, id, ReviewApproved); err != nil {
		t.Fatalf("first decide: %v", err)
	}
	// re-deciding overwrites, no guard
	if err := repo.Decide(ctx, id, ReviewRejected); err != nil {
		t.Fatalf("second decide: %v", err)
	}

	var review string
	err = repo.db.NewSelect().
		Model((*suggestionRow)(nil)).
		Column("review_status").
		Where("id = ?", id).
		Scan(ctx, &review)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if review != string(ReviewRejected) {
		t.Errorf("review = %q, want rejected", review)
	}
}

func TestSubmitFoldsIdentities(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(testDB(t))

	if _, err := repo.Submit(ctx, "BoB", "media", "p", "r", "ALICE"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	pending, _ := repo.ListPending(ctx)
	if len(pending) != 1 {
		t.Fatalf("want 1 pending, got %d", len(pending))
	}
	if pending[0].Username != "bob" || pending[0].SuggestedBy != "alice" {
		t.Errorf("identities not folded: %+v", pending[0])
	}
}
