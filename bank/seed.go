package bank

import (
	"context"
	"fmt"
)

// AccountCreator is the provisioning side shared by Store and Memory.
type AccountCreator interface {
	CreateAccount(ctx context.Context, name, number, accountType string, balance int64, password string) error
}

var demoAccounts = []struct {
	name        string
	number      string
	accountType string
	balance     int64
	password    string
}{
	{"Alice", "12345", "savings", 50000, "alice@123"},
	{"Bob", "67890", "current", 30000, "bob@123"},
	{"Charlie", "44556", "savings", 75000, "charlie@123"},
}

// SeedDemo provisions the standard demo accounts used by the chat REPL and
// the server's demo mode.
func SeedDemo(ctx context.Context, ledger AccountCreator) error {
	for _, acc := range demoAccounts {
		if err := ledger.CreateAccount(ctx, acc.name, acc.number, acc.accountType, acc.balance, acc.password); err != nil {
			return fmt.Errorf("seed account %s: %w", acc.number, err)
		}
	}
	return nil
}
