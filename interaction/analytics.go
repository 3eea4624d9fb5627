package interaction

import (
	"context"
	"encoding/json"
	"fmt"

	contractx "bankbot/bot/contract"
)

// Confidence below this counts as a low-confidence turn in the summary.
const lowConfidenceThreshold = 0.7

const defaultRecentLimit = 50

type Summary struct {
	Total         int64   `json:"total"`
	SuccessRate   float64 `json:"success_rate"`
	LowConfidence int64   `json:"low_confidence"`
	UniqueIntents int64   `json:"unique_intents"`
	Predictions   int64   `json:"predictions"`
}

type IntentStat struct {
	Intent     string  `bun:"intent" json:"intent"`
	Count      int64   `bun:"count" json:"count"`
	SuccessPct float64 `bun:"success_pct" json:"success_pct"`
}

// Analytics is the read side of the history log, served by the admin
// endpoints. Recorder and MemoryRecorder both satisfy it.
type Analytics interface {
	Summary(ctx context.Context) (*Summary, error)
	IntentBreakdown(ctx context.Context) ([]IntentStat, error)
	Recent(ctx context.Context, limit int) ([]contractx.Interaction, error)
}

var _ Analytics = (*Recorder)(nil)

func (r *Recorder) Summary(ctx context.Context) (*Summary, error) {
	s := new(Summary)

	total, err := r.db.NewSelect().Model((*ChatRecord)(nil)).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chats: %w", err)
	}
	s.Total = int64(total)

	if err := r.db.NewSelect().
		Model((*ChatRecord)(nil)).
		ColumnExpr("coalesce(avg(case when success then 100.0 else 0 end), 0)").
		Scan(ctx, &s.SuccessRate); err != nil {
		return nil, fmt.Errorf("success rate: %w", err)
	}

	low, err := r.db.NewSelect().
		Model((*ChatRecord)(nil)).
		Where("confidence < ?", lowConfidenceThreshold).
		Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count low confidence: %w", err)
	}
	s.LowConfidence = int64(low)

	if err := r.db.NewSelect().
		Model((*ChatRecord)(nil)).
		ColumnExpr("count(distinct predicted_intent)").
		Where("predicted_intent <> ''").
		Scan(ctx, &s.UniqueIntents); err != nil {
		return nil, fmt.Errorf("count intents: %w", err)
	}

	predictions, err := r.db.NewSelect().Model((*PredictionRecord)(nil)).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count predictions: %w", err)
	}
	s.Predictions = int64(predictions)

	return s, nil
}

func (r *Recorder) IntentBreakdown(ctx context.Context) ([]IntentStat, error) {
	var stats []IntentStat
	err := r.db.NewSelect().
		Model((*ChatRecord)(nil)).
		ColumnExpr("predicted_intent AS intent").
		ColumnExpr("count(*) AS count").
		ColumnExpr("round(avg(case when success then 100.0 else 0 end)::numeric, 1) AS success_pct").
		Where("predicted_intent <> ''").
		GroupExpr("predicted_intent").
		OrderExpr("count DESC, intent ASC").
		Scan(ctx, &stats)
	if err != nil {
		return nil, fmt.Errorf("intent breakdown: %w", err)
	}
	return stats, nil
}

// Recent returns the newest handled turns, newest first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]contractx.Interaction, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	var records []ChatRecord
	if err := r.db.NewSelect().Model(&records).OrderExpr("id DESC").Limit(limit).Scan(ctx); err != nil {
		return nil, fmt.Errorf("recent chats: %w", err)
	}

	out := make([]contractx.Interaction, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toContract())
	}
	return out, nil
}

func (rec *ChatRecord) toContract() contractx.Interaction {
	var entities []contractx.Entity
	if rec.Entities != "" {
		// rows written by other tools may hold junk; skip silently
		_ = json.Unmarshal([]byte(rec.Entities), &entities)
	}
	return contractx.Interaction{
		Text:       rec.Query,
		Intent:     contractx.Intent(rec.Intent),
		Confidence: rec.Confidence,
		Entities:   entities,
		Success:    rec.Success,
		At:         rec.At,
	}
}
