package audience

import (
	"context"
	"database/sql"
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

	for _, stmt := range []string{
		`CREATE TABLE blocked_users (identity TEXT PRIMARY KEY)`,
		`CREATE TABLE bot_users (identity TEXT PRIMARY KEY)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func TestBlockIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(testDB(t))

	changed, err := repo.Block(ctx, "Carol")
	if err != nil {
		t.Fatalf("block: %v", err)
	}
	if !changed {
		t.Error("first block should report changed")
	}
	changed, err = repo.Block(ctx, "carol")
	if err != nil {
		t.Fatalf("second block: %v", err)
	}
	if changed {
		t.Error("second block should report no change")
	}

	blocked, err := repo.IsBlocked(ctx, "CAROL")
	if err != nil {
		t.Fatalf("is blocked: %v", err)
	}
	if !blocked {
		t.Error("carol should be blocked")
	}
}

func TestUnblock(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(testDB(t))

	if changed, err := repo.Unblock(ctx, "nobody"); err != nil || changed {
		t.Errorf("unblock absent = (%t, %v), want (false, nil)", changed, err)
	}

	_, _ = repo.Block(ctx, "carol")
	changed, err := repo.Unblock(ctx, "carol")
	if err != nil {
		t.Fatalf("unblock: %v", err)
	}
	if !changed {
		t.Error("unblock of blocked identity should report changed")
	}
	if blocked, _ := repo.IsBlocked(ctx, "carol"); blocked {
		t.Error("carol should no longer be blocked")
	}
}

func TestBotUserSetAppendOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(testDB(t))

	for _, id := range []string{"100", "200", "100"} {
		if err := repo.RecordBotUser(ctx, id); err != nil {
			t.Fatalf("record %s: %v", id, err)
		}
	}
	users, err := repo.ListBotUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("want 2 distinct bot users, got %v", users)
	}
	if n, _ := repo.CountBotUsers(ctx); n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}
