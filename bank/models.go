package bank

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,unique,notnull"`
}

type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	Number       string `bun:"account_number,pk"`
	UserName     string `bun:"user_name,notnull"`
	Type         string `bun:"account_type,notnull"`
	Balance      int64  `bun:"balance,notnull"`
	PasswordHash []byte `bun:"password_hash,notnull"`
}

type Transaction struct {
	bun.BaseModel `bun:"table:transactions,alias:t"`

	ID          int64     `bun:"id,pk,autoincrement"`
	FromAccount string    `bun:"from_account,notnull"`
	ToAccount   string    `bun:"to_account,notnull"`
	Amount      int64     `bun:"amount,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
