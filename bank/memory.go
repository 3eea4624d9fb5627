package bank

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	contractx "bankbot/bot/contract"
)

var _ contractx.BankGateway = (*Memory)(nil)

type memoryAccount struct {
	userName    string
	accountType string
	balance     int64
	hash        []byte
}

// Memory is the in-process ledger twin of Store. It backs tests, the chat
// REPL and demo mode, with the same check order and marker strings.
type Memory struct {
	mu       sync.Mutex
	accounts map[string]*memoryAccount
	history  []Transaction
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[string]*memoryAccount),
		now:      time.Now,
	}
}

func (m *Memory) CreateAccount(_ context.Context, name, number, accountType string, balance int64, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[number]; exists {
		return fmt.Errorf("account %s already exists", number)
	}
	m.accounts[number] = &memoryAccount{
		userName:    name,
		accountType: accountType,
		balance:     balance,
		hash:        hash,
	}
	return nil
}

func (m *Memory) GetAccount(_ context.Context, number string) (*contractx.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[number]
	if !ok {
		return nil, contractx.ErrAccountNotFound
	}
	return &contractx.Account{
		Number:   number,
		UserName: acc.userName,
		Type:     acc.accountType,
		Balance:  acc.balance,
	}, nil
}

func (m *Memory) ListAccounts(_ context.Context) ([]contractx.AccountRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	refs := make([]contractx.AccountRef, 0, len(m.accounts))
	for number, acc := range m.accounts {
		refs = append(refs, contractx.AccountRef{Number: number, UserName: acc.userName})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Number < refs[j].Number })
	return refs, nil
}

func (m *Memory) Transfer(_ context.Context, from, to string, amount int64, password string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sender, ok := m.accounts[from]
	if !ok {
		return transferInvalidSender, nil
	}
	if bcrypt.CompareHashAndPassword(sender.hash, []byte(password)) != nil {
		return transferBadPassword, nil
	}
	if sender.balance < amount {
		return transferLowBalance, nil
	}
	receiver, ok := m.accounts[to]
	if !ok {
		return transferInvalidReceiver, nil
	}

	sender.balance -= amount
	receiver.balance += amount
	m.history = append(m.history, Transaction{
		FromAccount: from,
		ToAccount:   to,
		Amount:      amount,
		CreatedAt:   m.now().UTC(),
	})
	return transferOK, nil
}

// Transactions returns a copy of the transfer history, oldest first.
func (m *Memory) Transactions() []Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Transaction, len(m.history))
	copy(out, m.history)
	return out
}
