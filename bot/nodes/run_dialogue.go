package turnnode

import (
	"context"
	"fmt"

	contractx "bankbot/bot/contract"
)

func RunDialogue(ctx context.Context, in *GraphState, handler TurnHandler) (*GraphState, error) {
	if in == nil || in.State == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Deferred {
		return in, nil
	}

	turn := contractx.Turn{
		SessionID:  in.SessionID,
		Text:       in.Text,
		Intent:     in.Prediction.Intent,
		Confidence: in.Prediction.Confidence,
		Entities:   in.Entities,
	}
	reply, err := handler.HandleTurn(ctx, in.State, turn)
	if err != nil {
		return nil, err
	}

	in.Reply = reply
	return in, nil
}
