package registry

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

	_, err = db.Exec(`CREATE TABLE users (username TEXT PRIMARY KEY, status TEXT NOT NULL)`)
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func TestUpsertAndGetStatusCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(testDB(t))

	if err := repo.Upsert(ctx, "@Alice", StatusVerify); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	for _, lookup := range []string{"alice", "ALICE", "@Alice"} {
		status, ok, err := repo.GetStatus(ctx, lookup)
		if err != nil {
			t.Fatalf("get %q: %v", lookup, err)
		}
		if !ok || status != StatusVerify {
			t.Errorf("get %q = (%q, %t), want (verify, true)", lookup, status, ok)
		}
	}

	// upsert replaces, no history
	if err := repo.Upsert(ctx, "ALICE", StatusScam); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	status, _, _ := repo.GetStatus(ctx, "alice")
	if status != StatusScam {
		t.Errorf("after overwrite got %q, want scam", status)
	}
	if n, _ := repo.CountListed(ctx); n != 1 {
		t.Errorf("want a single record after overwrite, got %d", n)
	}
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(testDB(t))

	if err := repo.Remove(ctx, "ghost"); err != nil {
		t.Fatalf("remove absent should not error: %v", err)
	}
}

func TestListAllOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(testDB(t))

	// inserted out of priority order; within one status the insertion
	// order must hold
	inserts := []struct {
		name   string
		status Status
	}{
		{"first_scam", StatusScam},
		{"a_verify", StatusVerify},
		{"second_scam", StatusScam},
		{"b_verify", StatusVerify},
		{"newbie", StatusNew},
	}
	for _, in := range inserts {
		if err := repo.Upsert(ctx, in.name, in.status); err != nil {
			t.Fatalf("upsert %s: %v", in.name, err)
		}
	}

	got, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"a_verify", "b_verify", "first_scam", "second_scam", "newbie"}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Username != name {
			t.Errorf("position %d: got %q, want %q", i, got[i].Username, name)
		}
	}
}

func TestCounts(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(testDB(t))

	_ = repo.Upsert(ctx, "u1", StatusScam)
	_ = repo.Upsert(ctx, "u2", StatusScam)
	_ = repo.Upsert(ctx, "u3", StatusVerify)

	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("count by status: %v", err)
	}
	if counts[StatusScam] != 2 || counts[StatusVerify] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
	total, err := repo.CountListed(ctx)
	if err != nil {
		t.Fatalf("count listed: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
}
