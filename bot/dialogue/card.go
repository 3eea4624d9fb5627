package dialogue

import (
	"context"
	"fmt"
	"strings"

	contractx "bankbot/bot/contract"
	statex "bankbot/bot/state"
)

func (m *Manager) handleCardBlock(ctx context.Context, st *statex.ConversationState, text string, entities []contractx.Entity) (contractx.Reply, error) {
	if st.Awaiting == awaitingCardType {
		cardType := strings.ToLower(text)
		if cardType != "debit" && cardType != "credit" {
			return contractx.ErrorReply("Please enter debit or credit."), nil
		}

		m.record(ctx, text, contractx.IntentCardBlock, 0.95, entities, true)
		st.Reset()
		return contractx.MessageReply(fmt.Sprintf("🔒 Your %s card has been blocked successfully.", cardType)), nil
	}

	for _, e := range entities {
		if e.Kind != contractx.EntityCardType {
			continue
		}

		m.record(ctx, text, contractx.IntentCardBlock, 0.95, entities, true)
		st.Reset()
		return contractx.MessageReply(fmt.Sprintf("🔒 Your %s card has been blocked successfully.", e.Value)), nil
	}

	st.Awaiting = awaitingCardType
	return contractx.MessageReply("Please provide your card type to block (debit / credit)."), nil
}
