package turnnode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	contractx "bankbot/bot/contract"
)

// RecordPrediction appends the raw classifier verdict to the NLU history.
// Failures are swallowed: analytics never break a turn.
func RecordPrediction(ctx context.Context, in *GraphState, recorder contractx.InteractionRecorder, log zerolog.Logger) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if recorder == nil {
		return in, nil
	}

	p := contractx.Prediction{
		Text:       in.Text,
		Intent:     in.Prediction.Intent,
		Confidence: in.Prediction.Confidence,
		At:         in.Now,
	}
	if err := recorder.RecordPrediction(ctx, p); err != nil {
		log.Warn().Err(err).Str("intent", string(p.Intent)).Msg("record prediction failed")
	}
	return in, nil
}
