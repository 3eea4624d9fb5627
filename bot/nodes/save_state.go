package turnnode

import (
	"context"
	"fmt"

	contractx "bankbot/bot/contract"
	statex "bankbot/bot/state"
)

// SaveState persists the mutated conversation state. It only runs when the
// dialogue finished cleanly, so an aborted turn leaves the stored state as
// it was.
func SaveState(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil || in.State == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.State.Touch(in.Now)
	if err := in.State.Validate(); err != nil {
		return nil, fmt.Errorf("state validation failed: %w", err)
	}
	if err := store.Save(ctx, in.State); err != nil {
		return nil, err
	}
	return in, nil
}
