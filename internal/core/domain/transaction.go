package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates how a refill was paid.
type PaymentMethod string

const (
	PaymentCheque PaymentMethod = "cheque"
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOther  PaymentMethod = "other"
)

// Bank enumerates the issuing bank recorded on cheque refills.
type Bank string

const (
	BankSocieteGenerale Bank = "societe_generale"
	BankCreditAgricole  Bank = "credit_agricole"
	BankBNP             Bank = "bnp"
	BankLaPoste         Bank = "la_poste"
	BankOther           Bank = "other"
)

// Sale is the debit kind of transaction log entry. The unit price is a
// snapshot taken at sale time, so later catalog changes never rewrite
// history. Creating a Sale decrements the customer balance by
// UnitPrice * Quantity, exactly once, atomically with the insert.
type Sale struct {
	ID              string          `json:"id" bson:"_id,omitempty"`
	ProductID       string          `json:"product_id" bson:"product_id"`
	CounterID       string          `json:"counter_id" bson:"counter_id"`
	UnitPrice       decimal.Decimal `json:"unit_price" bson:"-"`
	Quantity        int             `json:"quantity" bson:"quantity"`
	SellerID        string          `json:"seller_id" bson:"seller_id"`
	CustomerAccount string          `json:"customer_account" bson:"customer_account"`
	Date            time.Time       `json:"date" bson:"date"`
	IdempotencyKey  string          `json:"-" bson:"idempotency_key,omitempty"`
}

// Total is the amount debited from the customer.
func (s Sale) Total() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// Refill is the credit kind of transaction log entry. Creating a Refill
// increments the customer balance by Amount, exactly once, atomically with
// the insert.
type Refill struct {
	ID              string          `json:"id" bson:"_id,omitempty"`
	CounterID       string          `json:"counter_id" bson:"counter_id"`
	Amount          decimal.Decimal `json:"amount" bson:"-"`
	OperatorID      string          `json:"operator_id" bson:"operator_id"`
	CustomerAccount string          `json:"customer_account" bson:"customer_account"`
	Date            time.Time       `json:"date" bson:"date"`
	PaymentMethod   PaymentMethod   `json:"payment_method" bson:"payment_method"`
	Bank            Bank            `json:"bank" bson:"bank"`
	IdempotencyKey  string          `json:"-" bson:"idempotency_key,omitempty"`
}
