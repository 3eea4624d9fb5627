package dialogue

import (
	"context"
	"errors"
	"fmt"

	contractx "bankbot/bot/contract"
	statex "bankbot/bot/state"
)

func (m *Manager) handleCheckBalance(ctx context.Context, st *statex.ConversationState, text string, entities []contractx.Entity) (contractx.Reply, error) {
	if st.Awaiting == awaitingAccount {
		acc, err := m.gateway.GetAccount(ctx, text)
		if errors.Is(err, contractx.ErrAccountNotFound) {
			m.record(ctx, text, contractx.IntentCheckBalance, 0.9, entities, false)
			return contractx.ErrorReply("Invalid account number. Please re-enter."), nil
		}
		if err != nil {
			return contractx.Reply{}, fmt.Errorf("%w: get account: %v", contractx.ErrGateway, err)
		}

		m.record(ctx, text, contractx.IntentCheckBalance, 0.95, entities, true)
		st.Reset()
		return contractx.MessageReply(fmt.Sprintf("💰 Your account balance is ₹%d", acc.Balance)), nil
	}

	for _, e := range entities {
		if e.Kind != contractx.EntityAccountNumber {
			continue
		}

		acc, err := m.gateway.GetAccount(ctx, e.Value)
		if errors.Is(err, contractx.ErrAccountNotFound) {
			m.record(ctx, text, contractx.IntentCheckBalance, 0.9, entities, false)
			return contractx.ErrorReply("Invalid account number."), nil
		}
		if err != nil {
			return contractx.Reply{}, fmt.Errorf("%w: get account: %v", contractx.ErrGateway, err)
		}

		m.record(ctx, text, contractx.IntentCheckBalance, 0.95, entities, true)
		st.Reset()
		return contractx.MessageReply(fmt.Sprintf("💰 Your account balance is ₹%d", acc.Balance)), nil
	}

	st.Awaiting = awaitingAccount
	return contractx.MessageReply("Please provide your account number to check balance."), nil
}
