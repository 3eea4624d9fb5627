package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	ErrStateNotFound  = errors.New("session state not found")
	ErrNilState       = errors.New("session state is nil")
	ErrInvalidSession = errors.New("session id is empty")
	ErrCorruptState   = errors.New("session state violates flow invariants")
)

// Store is the persistence contract the turn engine drives: load, mutate,
// save once per turn.
type Store interface {
	Load(ctx context.Context, sessionID string) (*ConversationState, error)
	Save(ctx context.Context, st *ConversationState) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore keeps session states in-process. Values are kept serialized so
// callers never alias the stored copy; semantics match the Redis store.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*ConversationState, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidSession
	}

	s.mu.RLock()
	raw, ok := s.states[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrStateNotFound
	}

	var st ConversationState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("unmarshal session state: %w", err)
	}
	st.EnsureSlots()
	return &st, nil
}

func (s *MemoryStore) Save(_ context.Context, st *ConversationState) error {
	if st == nil {
		return ErrNilState
	}
	if strings.TrimSpace(st.SessionID) == "" {
		return ErrInvalidSession
	}
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}

	s.mu.Lock()
	s.states[st.SessionID] = payload
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidSession
	}
	s.mu.Lock()
	delete(s.states, sessionID)
	s.mu.Unlock()
	return nil
}
