package state

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	contractx "bankbot/bot/contract"
)

// ConversationState is the caller-owned dialogue cursor for one session.
// The helpers keep three invariants:
//   - InFlow == (ActiveIntent != "")
//   - Awaiting is only set while a flow is active
//   - slots never survive an intent change
type ConversationState struct {
	SessionID    string           `json:"session_id"`
	ActiveIntent contractx.Intent `json:"active_intent,omitempty"`
	Slots        map[string]any   `json:"slots,omitempty"`
	Awaiting     string           `json:"awaiting,omitempty"`
	InFlow       bool             `json:"in_flow"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func NewConversationState(sessionID string, now time.Time) *ConversationState {
	return &ConversationState{
		SessionID: sessionID,
		Slots:     make(map[string]any, 4),
		UpdatedAt: now.UTC(),
	}
}

func (s *ConversationState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// Reset returns the session to idle: no intent, no slots, no cursor.
func (s *ConversationState) Reset() {
	s.ActiveIntent = ""
	s.Slots = make(map[string]any, 4)
	s.Awaiting = ""
	s.InFlow = false
}

// BeginFlow locks the session onto intent with a clean slot set.
func (s *ConversationState) BeginFlow(intent contractx.Intent) {
	s.ActiveIntent = intent
	s.Slots = make(map[string]any, 4)
	s.Awaiting = ""
	s.InFlow = true
}

func (s *ConversationState) EnsureSlots() {
	if s.Slots == nil {
		s.Slots = make(map[string]any, 4)
	}
}

func (s *ConversationState) SetSlot(name string, val any) {
	s.EnsureSlots()
	s.Slots[name] = val
}

func (s *ConversationState) ClearSlot(name string) {
	if s.Slots != nil {
		delete(s.Slots, name)
	}
}

func (s *ConversationState) HasSlot(name string) bool {
	if s == nil || s.Slots == nil {
		return false
	}
	_, ok := s.Slots[name]
	return ok
}

func (s *ConversationState) StringSlot(name string) (string, bool) {
	if s == nil || s.Slots == nil {
		return "", false
	}
	v, ok := s.Slots[name]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// IntSlot tolerates the numeric widening a JSON round trip through the
// session store introduces.
func (s *ConversationState) IntSlot(name string) (int64, bool) {
	if s == nil || s.Slots == nil {
		return 0, false
	}
	switch n := s.Slots[name].(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

func (s *ConversationState) Validate() error {
	if s == nil {
		return ErrNilState
	}
	if strings.TrimSpace(s.SessionID) == "" {
		return ErrInvalidSession
	}
	if s.InFlow != (s.ActiveIntent != "") {
		return fmt.Errorf("%w: in_flow=%v with active_intent=%q", ErrCorruptState, s.InFlow, s.ActiveIntent)
	}
	if s.Awaiting != "" && !s.InFlow {
		return fmt.Errorf("%w: awaiting=%q outside a flow", ErrCorruptState, s.Awaiting)
	}
	return nil
}
