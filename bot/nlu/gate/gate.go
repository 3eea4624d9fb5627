// Package gate decides whether an utterance belongs to the banking domain
// before any flow is entered. In-flow turns must bypass it so bare slot
// answers like "5000" still reach the locked flow.
package gate

import (
	"strings"

	contractx "bankbot/bot/contract"
)

var bankKeywords = []string{
	"account", "balance", "transfer", "money", "send", "receive",
	"card", "debit", "credit", "atm", "bank", "withdraw", "deposit",
	"pin", "password",
}

var bankEntities = map[contractx.EntityKind]struct{}{
	contractx.EntityAccountNumber: {},
	contractx.EntityAmount:        {},
	contractx.EntityCardType:      {},
	contractx.EntityAccountType:   {},
}

// InDomain reports whether the text or its entities carry a banking signal:
// any keyword as a lowercase substring, or any banking-typed entity.
func InDomain(text string, entities []contractx.Entity) bool {
	lower := strings.ToLower(text)
	for _, kw := range bankKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, e := range entities {
		if _, ok := bankEntities[e.Kind]; ok {
			return true
		}
	}
	return false
}
