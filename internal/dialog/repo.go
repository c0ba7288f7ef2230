package dialog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

type stateRow struct {
	bun.BaseModel `bun:"table:dialog_states"`

	ChatID    int64     `bun:"chat_id,pk"`
	State     string    `bun:"state,notnull"`
	Payload   []byte    `bun:"payload"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type Repo struct {
	db *bun.DB
}

func NewRepo(db *bun.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Get(ctx context.Context, chatID int64) (*Item, error) {
	row := new(stateRow)
	err := r.db.NewSelect().
		Model(row).
		Where("chat_id = ?", chatID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// no row means the dialog has not started yet
			return &Item{ChatID: chatID, State: StateIdle, Payload: Payload{}}, nil
		}
		return nil, err
	}
	var p Payload
	_ = json.Unmarshal(row.Payload, &p)
	if p == nil {
		p = Payload{}
	}
	return &Item{ChatID: chatID, State: State(row.State), Payload: p}, nil
}

func (r *Repo) Set(ctx context.Context, chatID int64, state State, payload Payload) error {
	raw, _ := json.Marshal(payload)
	row := &stateRow{
		ChatID:    chatID,
		State:     string(state),
		Payload:   raw,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (chat_id) DO UPDATE").
		Set("state = EXCLUDED.state, payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (r *Repo) Reset(ctx context.Context, chatID int64) error {
	_, err := r.db.NewDelete().
		Model((*stateRow)(nil)).
		Where("chat_id = ?", chatID).
		Exec(ctx)
	return err
}
