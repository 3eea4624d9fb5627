package bank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	contractx "bankbot/bot/contract"
)

// Transfer outcomes. Callers branch on the leading marker; the text after
// it is shown to the user as-is.
const (
	transferOK              = contractx.TransferSuccessMarker + " Transfer successful"
	transferInvalidSender   = contractx.TransferFailureMarker + " Invalid sender account"
	transferBadPassword     = contractx.TransferFailureMarker + " Incorrect password"
	transferLowBalance      = contractx.TransferFailureMarker + " Insufficient balance"
	transferInvalidReceiver = contractx.TransferFailureMarker + " Invalid receiver account"
)

var _ contractx.BankGateway = (*Store)(nil)

// Store is the Postgres-backed account ledger.
type Store struct {
	db  *bun.DB
	now func() time.Time
}

func NewStore(db *bun.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("bank db is required")
	}
	return &Store{db: db, now: time.Now}, nil
}

// InitSchema creates the ledger tables when they do not exist yet.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, model := range []any{(*User)(nil), (*Account)(nil), (*Transaction)(nil)} {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// CreateAccount upserts the owning user and inserts the account with a
// bcrypt password hash.
func (s *Store) CreateAccount(ctx context.Context, name, number, accountType string, balance int64, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user := &User{Name: name}
		if _, err := tx.NewInsert().Model(user).On("CONFLICT (name) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("upsert user: %w", err)
		}

		acc := &Account{
			Number:       number,
			UserName:     name,
			Type:         accountType,
			Balance:      balance,
			PasswordHash: hash,
		}
		if _, err := tx.NewInsert().Model(acc).Exec(ctx); err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
		return nil
	})
}

func (s *Store) GetAccount(ctx context.Context, number string) (*contractx.Account, error) {
	acc := new(Account)
	err := s.db.NewSelect().Model(acc).Where("account_number = ?", number).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contractx.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return acc.toContract(), nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]contractx.AccountRef, error) {
	var accounts []Account
	if err := s.db.NewSelect().Model(&accounts).Order("account_number ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	refs := make([]contractx.AccountRef, 0, len(accounts))
	for _, acc := range accounts {
		refs = append(refs, contractx.AccountRef{Number: acc.Number, UserName: acc.UserName})
	}
	return refs, nil
}

// Transfer moves amount between accounts inside one database transaction.
// Checks run in a fixed order: sender exists, password matches, balance
// covers the amount, receiver exists. The first failed check ends the
// transfer with its marker string and no ledger change.
func (s *Store) Transfer(ctx context.Context, from, to string, amount int64, password string) (string, error) {
	outcome := transferOK

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		sender := new(Account)
		err := tx.NewSelect().Model(sender).Where("account_number = ?", from).For("UPDATE").Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			outcome = transferInvalidSender
			return nil
		}
		if err != nil {
			return fmt.Errorf("load sender: %w", err)
		}

		if bcrypt.CompareHashAndPassword(sender.PasswordHash, []byte(password)) != nil {
			outcome = transferBadPassword
			return nil
		}
		if sender.Balance < amount {
			outcome = transferLowBalance
			return nil
		}

		receiver := new(Account)
		err = tx.NewSelect().Model(receiver).Where("account_number = ?", to).For("UPDATE").Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			outcome = transferInvalidReceiver
			return nil
		}
		if err != nil {
			return fmt.Errorf("load receiver: %w", err)
		}

		if _, err := tx.NewUpdate().Model((*Account)(nil)).
			Set("balance = balance - ?", amount).
			Where("account_number = ?", from).
			Exec(ctx); err != nil {
			return fmt.Errorf("debit sender: %w", err)
		}
		if _, err := tx.NewUpdate().Model((*Account)(nil)).
			Set("balance = balance + ?", amount).
			Where("account_number = ?", to).
			Exec(ctx); err != nil {
			return fmt.Errorf("credit receiver: %w", err)
		}

		txn := &Transaction{
			FromAccount: from,
			ToAccount:   to,
			Amount:      amount,
			CreatedAt:   s.now().UTC(),
		}
		if _, err := tx.NewInsert().Model(txn).Exec(ctx); err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("transfer: %w", err)
	}
	return outcome, nil
}

func (a *Account) toContract() *contractx.Account {
	return &contractx.Account{
		Number:   a.Number,
		UserName: a.UserName,
		Type:     a.Type,
		Balance:  a.Balance,
	}
}
