package entity

import (
	"reflect"
	"testing"

	contractx "bankbot/bot/contract"
)

func ofKind(ents []contractx.Entity, kind contractx.EntityKind) []contractx.Entity {
	var out []contractx.Entity
	for _, e := range ents {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestExtractTxnIDForms(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"my txn id: AB-1234 failed":      "AB-1234",
		"check transaction id TX/88_001": "TX/88_001",
		"UTR 987654321 not credited":     "987654321",
		"ref: 445QX7":                    "445QX7",
	}
	for text, want := range cases {
		ents := Extract(text)
		txns := ofKind(ents, contractx.EntityTxnID)
		if len(txns) != 1 {
			t.Fatalf("%q: expected one TXN_ID, got %v", text, ents)
		}
		if txns[0].Value != want {
			t.Fatalf("%q: expected value %q, got %q", text, want, txns[0].Value)
		}
	}
}

func TestExtractAccountNeedsContextWord(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"account 12345":                  "12345",
		"transfer to account 99887766":   "99887766",
		"a/c: 445566":                    "445566",
		"acct 7788990011":                "7788990011",
		"from account ending 4321 today": "4321",
	}
	for text, want := range cases {
		ents := Extract(text)
		accs := ofKind(ents, contractx.EntityAccountNumber)
		if len(accs) != 1 {
			t.Fatalf("%q: expected one ACCOUNT_NUMBER, got %v", text, ents)
		}
		if accs[0].Value != want {
			t.Fatalf("%q: expected value %q, got %q", text, want, accs[0].Value)
		}
	}

	if ents := Extract("send 12345678 now"); len(ofKind(ents, contractx.EntityAccountNumber)) != 0 {
		t.Fatalf("bare digits must not become an account number, got %v", ents)
	}
}

func TestExtractAmountNeedsCurrencyMarker(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"pay ₹1,000.50 now":    "1000.50",
		"transfer $500 please": "500",
		"send Rs. 2000":        "2000",
		"about INR 750":        "750",
		"give 500 rupees":      "500",
		"send 1,200 dollars":   "1200",
	}
	for text, want := range cases {
		ents := Extract(text)
		amts := ofKind(ents, contractx.EntityAmount)
		if len(amts) != 1 {
			t.Fatalf("%q: expected one AMOUNT, got %v", text, ents)
		}
		if amts[0].Value != want {
			t.Fatalf("%q: expected value %q, got %q", text, want, amts[0].Value)
		}
	}
}

func TestExtractBareNumberIsNotAmount(t *testing.T) {
	t.Parallel()

	ents := Extract("account 12345 for 500")
	accs := ofKind(ents, contractx.EntityAccountNumber)
	if len(accs) != 1 || accs[0].Value != "12345" {
		t.Fatalf("expected ACCOUNT_NUMBER 12345, got %v", ents)
	}
	if len(ofKind(ents, contractx.EntityAmount)) != 0 {
		t.Fatalf("500 has no currency marker and must not be an AMOUNT, got %v", ents)
	}
}

func TestExtractHigherPriorityClaimsSpan(t *testing.T) {
	t.Parallel()

	// The ref pattern swallows "ref account" before the account patterns
	// run, so the digits stay unlabeled.
	ents := Extract("ref account 12345678")
	if len(ofKind(ents, contractx.EntityTxnID)) != 1 {
		t.Fatalf("expected the TXN_ID pattern to win, got %v", ents)
	}
	if len(ofKind(ents, contractx.EntityAccountNumber)) != 0 {
		t.Fatalf("account pattern must lose the overlapping span, got %v", ents)
	}
}

func TestExtractOverlappingAccountPatternsYieldOne(t *testing.T) {
	t.Parallel()

	ents := Extract("to account 12345")
	if len(ents) != 1 || ents[0].Kind != contractx.EntityAccountNumber || ents[0].Value != "12345" {
		t.Fatalf("expected exactly one ACCOUNT_NUMBER, got %v", ents)
	}
}

func TestExtractKeywordTypes(t *testing.T) {
	t.Parallel()

	ents := Extract("please block my Debit card")
	cards := ofKind(ents, contractx.EntityCardType)
	if len(cards) != 1 || cards[0].Value != "debit" {
		t.Fatalf("expected CARD_TYPE debit, got %v", ents)
	}

	ents = Extract("move it to my savings")
	types := ofKind(ents, contractx.EntityAccountType)
	if len(types) != 1 || types[0].Value != "savings" {
		t.Fatalf("expected ACCOUNT_TYPE savings, got %v", ents)
	}
}

func TestExtractDeterministicAndNonOverlapping(t *testing.T) {
	t.Parallel()

	text := "txn TX-99/1 transfer ₹2,500 to account 445566 from savings"

	first := Extract(text)
	second := Extract(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("extraction must be deterministic: %v vs %v", first, second)
	}

	wantKinds := []contractx.EntityKind{
		contractx.EntityTxnID,
		contractx.EntityAccountNumber,
		contractx.EntityAmount,
		contractx.EntityAccountType,
	}
	if len(first) != len(wantKinds) {
		t.Fatalf("expected %d entities, got %v", len(wantKinds), first)
	}
	for i, kind := range wantKinds {
		if first[i].Kind != kind {
			t.Fatalf("expected kind %s at %d, got %v", kind, i, first)
		}
	}

	for i := range first {
		for j := i + 1; j < len(first); j++ {
			if first[i].Span.Overlaps(first[j].Span) {
				t.Fatalf("spans must not overlap: %v and %v", first[i], first[j])
			}
		}
	}
}

func TestExtractEmptyText(t *testing.T) {
	t.Parallel()

	if ents := Extract(""); len(ents) != 0 {
		t.Fatalf("expected no entities for empty text, got %v", ents)
	}
}

func TestFallbackExtractHeuristics(t *testing.T) {
	t.Parallel()

	ents := FallbackExtract("₹500 to 12345678")
	amts := ofKind(ents, contractx.EntityAmount)
	accs := ofKind(ents, contractx.EntityAccountNumber)
	if len(amts) != 1 || amts[0].Value != "500" {
		t.Fatalf("expected AMOUNT 500, got %v", ents)
	}
	if len(accs) != 1 || accs[0].Value != "12345678" {
		t.Fatalf("expected ACCOUNT_NUMBER 12345678, got %v", ents)
	}
}

func TestFallbackExtractIsContextFree(t *testing.T) {
	t.Parallel()

	// No overlap management in the degraded path: the digits show up both
	// as the amount and as an account-number candidate.
	ents := FallbackExtract("₹5000")
	amts := ofKind(ents, contractx.EntityAmount)
	accs := ofKind(ents, contractx.EntityAccountNumber)
	if len(amts) != 1 || amts[0].Value != "5000" {
		t.Fatalf("expected AMOUNT 5000, got %v", ents)
	}
	if len(accs) != 1 || accs[0].Value != "5000" {
		t.Fatalf("expected the digit heuristic to fire as well, got %v", ents)
	}
}

func TestFallbackExtractAccountTypes(t *testing.T) {
	t.Parallel()

	ents := FallbackExtract("my savings please")
	if len(ents) != 1 || ents[0].Kind != contractx.EntityAccountType || ents[0].Value != "savings" {
		t.Fatalf("expected ACCOUNT_TYPE savings, got %v", ents)
	}

	ents = FallbackExtract("use current")
	if len(ents) != 1 || ents[0].Value != "checking" {
		t.Fatalf("expected current to normalize to checking, got %v", ents)
	}
}
