package interaction

import (
	"context"
	"math"
	"sort"
	"sync"

	contractx "bankbot/bot/contract"
)

var (
	_ contractx.InteractionRecorder = (*MemoryRecorder)(nil)
	_ Analytics                     = (*MemoryRecorder)(nil)
)

// MemoryRecorder keeps the history in process. It backs tests, the chat
// REPL and demo mode, with the same analytics math as the Postgres
// recorder.
type MemoryRecorder struct {
	mu           sync.Mutex
	interactions []contractx.Interaction
	predictions  []contractx.Prediction
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (m *MemoryRecorder) Record(_ context.Context, in contractx.Interaction) error {
	in.Entities = append([]contractx.Entity(nil), in.Entities...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.interactions = append(m.interactions, in)
	return nil
}

func (m *MemoryRecorder) RecordPrediction(_ context.Context, p contractx.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions = append(m.predictions, p)
	return nil
}

func (m *MemoryRecorder) Summary(_ context.Context) (*Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Summary{
		Total:       int64(len(m.interactions)),
		Predictions: int64(len(m.predictions)),
	}

	intents := make(map[contractx.Intent]struct{})
	succeeded := 0
	for _, in := range m.interactions {
		if in.Success {
			succeeded++
		}
		if in.Confidence < lowConfidenceThreshold {
			s.LowConfidence++
		}
		if in.Intent != "" {
			intents[in.Intent] = struct{}{}
		}
	}
	if len(m.interactions) > 0 {
		s.SuccessRate = float64(succeeded) / float64(len(m.interactions)) * 100
	}
	s.UniqueIntents = int64(len(intents))
	return s, nil
}

func (m *MemoryRecorder) IntentBreakdown(_ context.Context) ([]IntentStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	type agg struct {
		count     int64
		succeeded int64
	}
	byIntent := make(map[string]*agg)
	for _, in := range m.interactions {
		if in.Intent == "" {
			continue
		}
		a, ok := byIntent[string(in.Intent)]
		if !ok {
			a = &agg{}
			byIntent[string(in.Intent)] = a
		}
		a.count++
		if in.Success {
			a.succeeded++
		}
	}

	stats := make([]IntentStat, 0, len(byIntent))
	for intent, a := range byIntent {
		pct := float64(a.succeeded) / float64(a.count) * 100
		stats = append(stats, IntentStat{
			Intent:     intent,
			Count:      a.count,
			SuccessPct: math.Round(pct*10) / 10,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Intent < stats[j].Intent
	})
	return stats, nil
}

func (m *MemoryRecorder) Recent(_ context.Context, limit int) ([]contractx.Interaction, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]contractx.Interaction, 0, limit)
	for i := len(m.interactions) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.interactions[i])
	}
	return out, nil
}

// Interactions returns a copy of every recorded turn, oldest first.
func (m *MemoryRecorder) Interactions() []contractx.Interaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]contractx.Interaction, len(m.interactions))
	copy(out, m.interactions)
	return out
}

// Predictions returns a copy of every recorded classifier verdict, oldest
// first.
func (m *MemoryRecorder) Predictions() []contractx.Prediction {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]contractx.Prediction, len(m.predictions))
	copy(out, m.predictions)
	return out
}
