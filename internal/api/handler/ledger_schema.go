package handler

import "time"

// Money fields travel as decimal strings ("3.50") so no precision is lost in
// JSON float round-trips.

type createAccountRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type accountResponse struct {
	AccountID string `json:"account_id"`
	UserID    string `json:"user_id"`
	Balance   string `json:"balance"`
}

type createSaleRequest struct {
	CustomerAccount string `json:"customer_account" validate:"required"`
	ProductID       string `json:"product_id"       validate:"required"`
	Quantity        int    `json:"quantity"         validate:"required,min=1"`
	Special         bool   `json:"special"`
	// SellerID may be omitted at bar counters; the active session supplies one.
	SellerID string `json:"seller_id"`
}

type saleResponse struct {
	SaleID    string    `json:"sale_id"`
	UnitPrice string    `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Total     string    `json:"total"`
	SellerID  string    `json:"seller_id"`
	Balance   string    `json:"balance"`
	Date      time.Time `json:"date"`
}

type createRefillRequest struct {
	CustomerAccount string `json:"customer_account" validate:"required"`
	Amount          string `json:"amount"           validate:"required"`
	PaymentMethod   string `json:"payment_method"   validate:"omitempty,oneof=cheque cash card other"`
	Bank            string `json:"bank"`
}

type refillResponse struct {
	RefillID string    `json:"refill_id"`
	Amount   string    `json:"amount"`
	Balance  string    `json:"balance"`
	Date     time.Time `json:"date"`
}

type statementSaleResponse struct {
	SaleID    string    `json:"sale_id"`
	ProductID string    `json:"product_id"`
	CounterID string    `json:"counter_id"`
	UnitPrice string    `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Total     string    `json:"total"`
	Date      time.Time `json:"date"`
}

type statementRefillResponse struct {
	RefillID      string    `json:"refill_id"`
	CounterID     string    `json:"counter_id"`
	Amount        string    `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	Date          time.Time `json:"date"`
}

type transactionsResponse struct {
	Sales   []statementSaleResponse   `json:"sales"`
	Refills []statementRefillResponse `json:"refills"`
}

type statementResponse struct {
	AccountID string                    `json:"account_id"`
	UserID    string                    `json:"user_id"`
	Balance   string                    `json:"balance"`
	Sales     []statementSaleResponse   `json:"sales"`
	Refills   []statementRefillResponse `json:"refills"`
}
