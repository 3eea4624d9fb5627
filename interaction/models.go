// Package interaction is the append-only analytics log behind the admin
// surface: every handled turn lands in chat_history, every raw classifier
// verdict in nlu_history.
package interaction

import (
	"time"

	"github.com/uptrace/bun"
)

type ChatRecord struct {
	bun.BaseModel `bun:"table:chat_history,alias:ch"`

	ID         int64     `bun:"id,pk,autoincrement"`
	At         time.Time `bun:"timestamp,nullzero,notnull,default:current_timestamp"`
	Query      string    `bun:"user_query,notnull"`
	Intent     string    `bun:"predicted_intent"`
	Confidence float64   `bun:"confidence"`
	Entities   string    `bun:"entities"`
	Success    bool      `bun:"success"`
}

type PredictionRecord struct {
	bun.BaseModel `bun:"table:nlu_history,alias:nh"`

	ID         int64     `bun:"id,pk,autoincrement"`
	At         time.Time `bun:"timestamp,nullzero,notnull,default:current_timestamp"`
	Query      string    `bun:"user_query,notnull"`
	Intent     string    `bun:"predicted_intent"`
	Confidence float64   `bun:"confidence"`
}
