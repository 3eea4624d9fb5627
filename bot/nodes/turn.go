// Package turnnode holds the graph nodes of the per-turn pipeline. Each
// node is a plain function over *GraphState so it can be tested without
// compiling the graph.
package turnnode

import (
	"context"
	"errors"
	"strings"
	"time"

	contractx "bankbot/bot/contract"
	statex "bankbot/bot/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Reply contractx.Reply
}

type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	Prediction contractx.IntentPrediction
	Entities   []contractx.Entity
	State      *statex.ConversationState

	// Reply set before run_dialogue short-circuits the dialogue step.
	Reply    contractx.Reply
	Deferred bool
}

// TurnHandler is the dialogue side of the pipeline.
type TurnHandler interface {
	HandleTurn(ctx context.Context, st *statex.ConversationState, turn contractx.Turn) (contractx.Reply, error)
}

func ValidateTurn(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}
