// Package engine runs one utterance end to end: classification, entity
// extraction, the domain gate, the dialogue state machine and session
// persistence, composed as a compiled graph.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"

	contractx "bankbot/bot/contract"
	nodex "bankbot/bot/nodes"
	entityx "bankbot/bot/nlu/entity"
	statex "bankbot/bot/state"
	logx "bankbot/pkg/logger"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

const defaultTopK = 3

type Config struct {
	TopK int
}

type Engine struct {
	classifier contractx.IntentClassifier
	extractor  contractx.EntityExtractor
	store      statex.Store
	dialogue   nodex.TurnHandler
	recorder   contractx.InteractionRecorder

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	topK int
	log  zerolog.Logger
	now  func() time.Time
}

func New(
	classifier contractx.IntentClassifier,
	extractor contractx.EntityExtractor,
	store statex.Store,
	dialogue nodex.TurnHandler,
	recorder contractx.InteractionRecorder,
	cfg Config,
) (*Engine, error) {
	if classifier == nil {
		return nil, errors.New("intent classifier is required")
	}
	if dialogue == nil {
		return nil, errors.New("dialogue handler is required")
	}
	if extractor == nil {
		extractor = entityx.NewExtractor()
	}
	if store == nil {
		store = statex.NewMemoryStore()
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	e := &Engine{
		classifier: classifier,
		extractor:  extractor,
		store:      store,
		dialogue:   dialogue,
		recorder:   recorder,
		topK:       topK,
		log:        logx.With("engine"),
		now:        time.Now,
	}

	graphRunner, err := e.compileTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	e.graphRunner = graphRunner

	return e, nil
}

// HandleMessage runs one user utterance through the pipeline. Defer replies
// mean the turn is out of scope for the dialogue flows; the caller decides
// what answers them.
func (e *Engine) HandleMessage(ctx context.Context, sessionID string, text string) (contractx.Reply, error) {
	out, err := e.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return contractx.Reply{}, err
	}
	return out.Reply, nil
}
