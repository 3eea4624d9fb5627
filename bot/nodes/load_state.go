package turnnode

import (
	"context"
	"errors"
	"fmt"

	contractx "bankbot/bot/contract"
	statex "bankbot/bot/state"
)

// LoadState fetches the session's conversation state, starting a fresh one
// for sessions the store has never seen.
func LoadState(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	st, err := store.Load(ctx, in.SessionID)
	if err != nil {
		if !errors.Is(err, statex.ErrStateNotFound) {
			return nil, err
		}
		st = statex.NewConversationState(in.SessionID, in.Now)
	}

	in.State = st
	return in, nil
}
