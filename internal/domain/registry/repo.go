package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

type userRow struct {
	bun.BaseModel `bun:"table:users"`

	Username string `bun:"username,pk"`
	Status   string `bun:"status,notnull"`
}

// Repo persists the username→status registry.
type Repo struct {
	db *bun.DB
}

func NewRepo(db *bun.DB) *Repo { return &Repo{db: db} }

// Upsert replaces any existing record for the case-folded username.
func (r *Repo) Upsert(ctx context.Context, username string, status Status) error {
	row := &userRow{Username: Key(username), Status: string(status)}
	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (username) DO UPDATE").
		Set("status = EXCLUDED.status").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// Remove deletes by case-folded username. Removing an absent record is a
// no-op.
func (r *Repo) Remove(ctx context.Context, username string) error {
	_, err := r.db.NewDelete().
		Model((*userRow)(nil)).
		Where("username = ?", Key(username)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("remove user: %w", err)
	}
	return nil
}

// GetStatus looks up the stored status for a username. The bool result is
// false when no record exists. The administrator list is not consulted
// here; that layering happens in the moderation service.
func (r *Repo) GetStatus(ctx context.Context, username string) (Status, bool, error) {
	row := new(userRow)
	err := r.db.NewSelect().
		Model(row).
		Where("username = ?", Key(username)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get status: %w", err)
	}
	return Status(row.Status), true, nil
}

// ListAll returns every stored record ordered by status priority, ties
// broken by insertion order within a status group.
func (r *Repo) ListAll(ctx context.Context) ([]Record, error) {
	var rows []userRow
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr(`CASE status
			WHEN 'admin' THEN 1
			WHEN 'verify' THEN 2
			WHEN 'garant' THEN 3
			WHEN 'media' THEN 4
			WHEN 'fame' THEN 5
			WHEN 'scam' THEN 6
			WHEN 'beach' THEN 7
			WHEN 'new' THEN 8
			ELSE 9
		END, rowid`).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, Record{Username: row.Username, Status: Status(row.Status)})
	}
	return out, nil
}

// CountByStatus returns per-status record counts.
func (r *Repo) CountByStatus(ctx context.Context) (map[Status]int, error) {
	var rows []struct {
		Status string `bun:"status"`
		Count  int    `bun:"count"`
	}
	err := r.db.NewSelect().
		Model((*userRow)(nil)).
		ColumnExpr("status, COUNT(*) AS count").
		GroupExpr("status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	out := make(map[Status]int, len(rows))
	for _, row := range rows {
		out[Status(row.Status)] = row.Count
	}
	return out, nil
}

// CountListed returns the total number of stored records.
func (r *Repo) CountListed(ctx context.Context) (int, error) {
	n, err := r.db.NewSelect().Model((*userRow)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
