package state

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	contractx "bankbot/bot/contract"
)

func TestBeginFlowClearsSlots(t *testing.T) {
	t.Parallel()

	st := NewConversationState("s-1", time.Now())
	st.SetSlot("from_account", "12345")
	st.BeginFlow(contractx.IntentTransferMoney)

	if !st.InFlow {
		t.Fatal("expected in-flow after BeginFlow")
	}
	if st.ActiveIntent != contractx.IntentTransferMoney {
		t.Fatalf("expected transfer intent, got %q", st.ActiveIntent)
	}
	if len(st.Slots) != 0 {
		t.Fatalf("expected empty slots, got %v", st.Slots)
	}
	if err := st.Validate(); err != nil {
		t.Fatalf("expected valid state, got %v", err)
	}
}

func TestResetReturnsToIdle(t *testing.T) {
	t.Parallel()

	st := NewConversationState("s-1", time.Now())
	st.BeginFlow(contractx.IntentCheckBalance)
	st.Awaiting = "account"
	st.SetSlot("account", "999")

	st.Reset()

	if st.InFlow || st.ActiveIntent != "" || st.Awaiting != "" || len(st.Slots) != 0 {
		t.Fatalf("expected idle state, got %+v", st)
	}
	if err := st.Validate(); err != nil {
		t.Fatalf("expected valid state, got %v", err)
	}
}

func TestValidateRejectsBrokenFlowInvariant(t *testing.T) {
	t.Parallel()

	st := NewConversationState("s-1", time.Now())
	st.InFlow = true

	if err := st.Validate(); !errors.Is(err, ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}

	st = NewConversationState("s-1", time.Now())
	st.Awaiting = "amount"
	if err := st.Validate(); !errors.Is(err, ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState for awaiting outside flow, got %v", err)
	}
}

func TestValidateRejectsEmptySession(t *testing.T) {
	t.Parallel()

	st := NewConversationState("  ", time.Now())
	if err := st.Validate(); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestIntSlotSurvivesJSONRoundTrip(t *testing.T) {
	t.Parallel()

	st := NewConversationState("s-1", time.Now())
	st.BeginFlow(contractx.IntentTransferMoney)
	st.SetSlot("amount", int64(5000))

	payload, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded ConversationState
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	amt, ok := decoded.IntSlot("amount")
	if !ok || amt != 5000 {
		t.Fatalf("expected amount 5000 after round trip, got %d ok=%v", amt, ok)
	}
}
