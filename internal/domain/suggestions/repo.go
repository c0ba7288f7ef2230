package suggestions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type suggestionRow struct {
	bun.BaseModel `bun:"table:suggestions"`

	ID            int64     `bun:"id,pk,autoincrement"`
	Username      string    `bun:"username,notnull"`
	DesiredStatus string    `bun:"desired_status,notnull"`
	Proof         string    `bun:"proof,notnull"`
	Reason        string    `bun:"reason,notnull"`
	SuggestedBy   string    `bun:"suggested_by,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	Review        string    `bun:"review_status,notnull,default:'pending'"`
}

// Repo is the append-only suggestion queue.
type Repo struct {
	db *bun.DB
}

func NewRepo(db *bun.DB) *Repo { return &Repo{db: db} }

// Submit stores a new pending suggestion and returns its assigned id.
// Duplicate pending suggestions for the same username are allowed.
func (r *Repo) Submit(ctx context.Context, username, desiredStatus, proof, reason, suggestedBy string) (int64, error) {
	row := &suggestionRow{
		Username:      strings.ToLower(username),
		DesiredStatus: strings.ToLower(desiredStatus),
		Proof:         proof,
		Reason:        reason,
		SuggestedBy:   strings.ToLower(suggestedBy),
		CreatedAt:     time.Now().UTC(),
		Review:        string(ReviewPending),
	}
	res, err := r.db.NewInsert().Model(row).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("submit suggestion: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("submit suggestion: %w", err)
	}
	return id, nil
}

// ListPending returns pending suggestions, newest first.
func (r *Repo) ListPending(ctx context.Context) ([]Suggestion, error) {
	var rows []suggestionRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("review_status = ?", string(ReviewPending)).
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	out := make([]Suggestion, 0, len(rows))
	for _, row := range rows {
		out = append(out, Suggestion{
			ID:            row.ID,
			Username:      row.Username,
			DesiredStatus: row.DesiredStatus,
			Proof:         row.Proof,
			Reason:        row.Reason,
			SuggestedBy:   row.SuggestedBy,
			CreatedAt:     row.CreatedAt,
			Review:        ReviewStatus(row.Review),
		})
	}
	return out, nil
}

// Decide sets the review status of the given suggestion. The write is
// unconditional: re-deciding an already decided suggestion overwrites
// the previous outcome.
func (r *Repo) Decide(ctx context.Context, id int64, outcome ReviewStatus) error {
	res, err := r.db.NewUpdate().
		Model((*suggestionRow)(nil)).
		Set("review_status = ?", string(outcome)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("decide suggestion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decide suggestion: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
