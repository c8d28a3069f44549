package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the ledger account attached to a user. The balance is only ever
// mutated by the creation of a Sale or Refill record; nothing else is allowed
// to touch it.
type Customer struct {
	UserID    string          `json:"user_id" bson:"user_id"`
	AccountID string          `json:"account_id" bson:"account_id"`
	Balance   decimal.Decimal `json:"balance" bson:"-"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
}
