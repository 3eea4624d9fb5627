package interaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	contractx "bankbot/bot/contract"
)

var _ contractx.InteractionRecorder = (*Recorder)(nil)

// Recorder appends to the Postgres history tables. It shares the bank
// store's database connection.
type Recorder struct {
	db  *bun.DB
	now func() time.Time
}

func NewRecorder(db *bun.DB) (*Recorder, error) {
	if db == nil {
		return nil, errors.New("interaction db is required")
	}
	return &Recorder{db: db, now: time.Now}, nil
}

// InitSchema creates the history tables when they do not exist yet.
func (r *Recorder) InitSchema(ctx context.Context) error {
	for _, model := range []any{(*ChatRecord)(nil), (*PredictionRecord)(nil)} {
		if _, err := r.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

func (r *Recorder) Record(ctx context.Context, in contractx.Interaction) error {
	entities := ""
	if len(in.Entities) > 0 {
		raw, err := json.Marshal(in.Entities)
		if err != nil {
			return fmt.Errorf("marshal entities: %w", err)
		}
		entities = string(raw)
	}

	rec := &ChatRecord{
		At:         r.at(in.At),
		Query:      in.Text,
		Intent:     string(in.Intent),
		Confidence: in.Confidence,
		Entities:   entities,
		Success:    in.Success,
	}
	if _, err := r.db.NewInsert().Model(rec).Exec(ctx); err != nil {
		return fmt.Errorf("insert chat record: %w", err)
	}
	return nil
}

func (r *Recorder) RecordPrediction(ctx context.Context, p contractx.Prediction) error {
	rec := &PredictionRecord{
		At:         r.at(p.At),
		Query:      p.Text,
		Intent:     string(p.Intent),
		Confidence: p.Confidence,
	}
	if _, err := r.db.NewInsert().Model(rec).Exec(ctx); err != nil {
		return fmt.Errorf("insert prediction record: %w", err)
	}
	return nil
}

func (r *Recorder) at(t time.Time) time.Time {
	if t.IsZero() {
		return r.now().UTC()
	}
	return t.UTC()
}
