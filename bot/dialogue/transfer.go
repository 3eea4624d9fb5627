package dialogue

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	contractx "bankbot/bot/contract"
	statex "bankbot/bot/state"
)

// handleTransfer walks the slot cursor from_account -> amount -> password
// -> receiver. An answered amount falls through so the remaining slots are
// prompted in the same turn.
func (m *Manager) handleTransfer(ctx context.Context, st *statex.ConversationState, text string, entities []contractx.Entity) (contractx.Reply, error) {
	switch st.Awaiting {
	case awaitingAmount:
		amount, ok := parseAmount(text)
		if !ok {
			return contractx.ErrorReply("Please enter a valid numeric amount."), nil
		}
		st.SetSlot(slotAmount, amount)
		st.Awaiting = ""

	case awaitingPassword:
		accounts, err := m.gateway.ListAccounts(ctx)
		if err != nil {
			return contractx.Reply{}, fmt.Errorf("%w: list accounts: %v", contractx.ErrGateway, err)
		}

		st.SetSlot(slotPassword, text)
		st.Awaiting = ""

		from, _ := st.StringSlot(slotFromAccount)
		var receivers []string
		for _, acc := range accounts {
			if acc.Number == from {
				continue
			}
			receivers = append(receivers, fmt.Sprintf("%s (%s)", acc.UserName, acc.Number))
		}
		if len(receivers) == 0 {
			st.Reset()
			return contractx.ErrorReply("No other accounts are available to receive a transfer."), nil
		}

		st.Awaiting = awaitingReceiver
		return contractx.MessageReply("Select receiver account:\n" + strings.Join(receivers, "\n")), nil

	case awaitingReceiver:
		from, _ := st.StringSlot(slotFromAccount)
		amount, _ := st.IntSlot(slotAmount)
		password, _ := st.StringSlot(slotPassword)

		result, err := m.gateway.Transfer(ctx, from, parseReceiver(text), amount, password)
		if err != nil {
			return contractx.Reply{}, fmt.Errorf("%w: transfer: %v", contractx.ErrGateway, err)
		}

		success := strings.HasPrefix(result, contractx.TransferSuccessMarker)
		m.record(ctx, text, contractx.IntentTransferMoney, 0.95, entities, success)
		st.Reset()

		if strings.HasPrefix(result, contractx.TransferFailureMarker) {
			return contractx.ErrorReply(strings.TrimPrefix(result, contractx.TransferFailureMarker+" ")), nil
		}
		return contractx.MessageReply("✅ Transfer Successful"), nil
	}

	for _, e := range entities {
		switch e.Kind {
		case contractx.EntityAccountNumber:
			st.SetSlot(slotFromAccount, strings.TrimSpace(e.Value))
		case contractx.EntityAmount:
			// values that do not coerce are dropped so the flow prompts
			if amount, err := strconv.ParseInt(e.Value, 10, 64); err == nil {
				st.SetSlot(slotAmount, amount)
			}
		}
	}

	if !st.HasSlot(slotFromAccount) {
		if !allDigits(text) {
			return contractx.MessageReply("Please enter your account number."), nil
		}
		st.SetSlot(slotFromAccount, text)
	}

	from, _ := st.StringSlot(slotFromAccount)
	if _, err := m.gateway.GetAccount(ctx, from); err != nil {
		if errors.Is(err, contractx.ErrAccountNotFound) {
			st.ClearSlot(slotFromAccount)
			return contractx.ErrorReply("Invalid account number. Please re-enter your account number."), nil
		}
		return contractx.Reply{}, fmt.Errorf("%w: get account: %v", contractx.ErrGateway, err)
	}

	if !st.HasSlot(slotAmount) {
		st.Awaiting = awaitingAmount
		return contractx.MessageReply("How much amount do you want to transfer?"), nil
	}

	if !st.HasSlot(slotPassword) {
		st.Awaiting = awaitingPassword
		return contractx.MessageReply("Please enter your password to proceed."), nil
	}

	return contractx.MessageReply("Processing transfer..."), nil
}

var digitRun = regexp.MustCompile(`\d+`)

// parseAmount takes the first digit run of the comma-stripped text.
func parseAmount(text string) (int64, bool) {
	run := digitRun.FindString(strings.ReplaceAll(text, ",", ""))
	if run == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(run, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseReceiver pulls the account number out of a "Name (NUMBER)" pick;
// bare numbers pass through unchanged.
func parseReceiver(text string) string {
	if i := strings.LastIndex(text, "("); i >= 0 {
		text = text[i+1:]
	}
	return strings.ReplaceAll(text, ")", "")
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
