// Package dialogue implements the deterministic state machine for banking
// conversations: intent locking, slot filling with an awaiting cursor, and
// the multi-turn transfer, balance and card-block flows.
package dialogue

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	contractx "bankbot/bot/contract"
	statex "bankbot/bot/state"
	logx "bankbot/pkg/logger"
)

const (
	slotFromAccount = "from_account"
	slotAmount      = "amount"
	slotPassword    = "password"

	awaitingAmount   = "amount"
	awaitingPassword = "password"
	awaitingReceiver = "receiver"
	awaitingAccount  = "account"
	awaitingCardType = "card_type"
)

var cancelWords = map[string]struct{}{
	"cancel": {},
	"stop":   {},
	"exit":   {},
}

// Manager advances banking conversations turn by turn. It holds no session
// state of its own: the caller owns the ConversationState and passes it in.
type Manager struct {
	gateway  contractx.BankGateway
	recorder contractx.InteractionRecorder

	log zerolog.Logger
	now func() time.Time
}

func New(gateway contractx.BankGateway, recorder contractx.InteractionRecorder) (*Manager, error) {
	if gateway == nil {
		return nil, errors.New("bank gateway is required")
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Manager{
		gateway:  gateway,
		recorder: recorder,
		log:      logx.With("dialogue"),
		now:      time.Now,
	}, nil
}

// HandleTurn runs one user turn against the state machine. Business
// outcomes, including gateway rejections, come back as a Reply; the error
// return is reserved for collaborator transport failures, and callers must
// not persist the state when it is set.
//
// Precedence per turn: global cancel, then the intent lock (a running flow
// routes by its own intent and ignores this turn's label), then
// out-of-scope deferral on this turn's label, then intent routing.
func (m *Manager) HandleTurn(ctx context.Context, st *statex.ConversationState, turn contractx.Turn) (contractx.Reply, error) {
	if st == nil {
		return contractx.Reply{}, statex.ErrNilState
	}

	text := strings.TrimSpace(turn.Text)

	if _, ok := cancelWords[strings.ToLower(text)]; ok {
		st.Reset()
		return contractx.MessageReply("❌ Operation cancelled. How else can I help you?"), nil
	}

	intent := turn.Intent
	if st.InFlow {
		intent = st.ActiveIntent
	} else {
		st.Reset()
	}

	// The lock never masks an out_of_scope label: this turn's own
	// classification decides, and it abandons any running flow.
	if turn.Intent == contractx.IntentOutOfScope {
		st.Reset()
		return contractx.DeferReply(), nil
	}

	switch intent {
	case contractx.IntentGreet:
		m.record(ctx, text, intent, 1.0, turn.Entities, true)
		return contractx.MessageReply("Hello 👋 How can I help you today?"), nil

	case contractx.IntentTransferMoney:
		if !st.InFlow {
			st.BeginFlow(intent)
		}
		return m.handleTransfer(ctx, st, text, turn.Entities)

	case contractx.IntentCheckBalance:
		if !st.InFlow {
			st.BeginFlow(intent)
		}
		return m.handleCheckBalance(ctx, st, text, turn.Entities)

	case contractx.IntentCardBlock:
		if !st.InFlow {
			st.BeginFlow(intent)
		}
		return m.handleCardBlock(ctx, st, text, turn.Entities)

	default:
		m.record(ctx, text, intent, 0.5, turn.Entities, false)
		return contractx.MessageReply("Sorry, I didn't understand. Please try again."), nil
	}
}

// record writes one interaction to the analytics log. Failures are
// swallowed: logging never changes a reply.
func (m *Manager) record(ctx context.Context, text string, intent contractx.Intent, confidence float64, entities []contractx.Entity, success bool) {
	if intent == "" {
		intent = "unknown"
	}
	in := contractx.Interaction{
		Text:       text,
		Intent:     intent,
		Confidence: confidence,
		Entities:   entities,
		Success:    success,
		At:         m.now().UTC(),
	}
	if err := m.recorder.Record(ctx, in); err != nil {
		m.log.Warn().Err(err).Str("intent", string(intent)).Msg("record interaction failed")
	}
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, contractx.Interaction) error { return nil }

func (nopRecorder) RecordPrediction(context.Context, contractx.Prediction) error { return nil }
