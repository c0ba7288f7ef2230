// Package audience tracks who talks to the bot: the append-only set of
// everyone who ever started it (the broadcast audience) and the set of
// blocked identities.
package audience

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

type blockedRow struct {
	bun.BaseModel `bun:"table:blocked_users"`

	Identity string `bun:"identity,pk"`
}

type botUserRow struct {
	bun.BaseModel `bun:"table:bot_users"`

	Identity string `bun:"identity,pk"`
}

type Repo struct {
	db *bun.DB
}

func NewRepo(db *bun.DB) *Repo { return &Repo{db: db} }

// Block inserts an identity into the blocked set. Returns false without
// error when the identity was already blocked.
func (r *Repo) Block(ctx context.Context, identity string) (bool, error) {
	res, err := r.db.NewInsert().
		Model(&blockedRow{Identity: strings.ToLower(identity)}).
		On("CONFLICT (identity) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("block identity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("block identity: %w", err)
	}
	return n > 0, nil
}

// Unblock removes an identity from the blocked set. Returns false when
// the identity was not blocked.
func (r *Repo) Unblock(ctx context.Context, identity string) (bool, error) {
	res, err := r.db.NewDelete().
		Model((*blockedRow)(nil)).
		Where("identity = ?", strings.ToLower(identity)).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("unblock identity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unblock identity: %w", err)
	}
	return n > 0, nil
}

func (r *Repo) IsBlocked(ctx context.Context, identity string) (bool, error) {
	n, err := r.db.NewSelect().
		Model((*blockedRow)(nil)).
		Where("identity = ?", strings.ToLower(identity)).
		Count(ctx)
	if err != nil {
		return false, fmt.Errorf("is blocked: %w", err)
	}
	return n > 0, nil
}

// RecordBotUser adds an identity to the bot-user set. Idempotent; the
// set is append-only.
func (r *Repo) RecordBotUser(ctx context.Context, identity string) error {
	_, err := r.db.NewInsert().
		Model(&botUserRow{Identity: identity}).
		On("CONFLICT (identity) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("record bot user: %w", err)
	}
	return nil
}

// ListBotUsers returns every identity that has ever started the bot.
func (r *Repo) ListBotUsers(ctx context.Context) ([]string, error) {
	var rows []botUserRow
	if err := r.db.NewSelect().Model(&rows).Scan(ctx); err != nil {
		return nil, fmt.Errorf("list bot users: %w", err)
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Identity)
	}
	return out, nil
}

func (r *Repo) CountBotUsers(ctx context.Context) (int, error) {
	n, err := r.db.NewSelect().Model((*botUserRow)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count bot users: %w", err)
	}
	return n, nil
}
