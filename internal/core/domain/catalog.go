package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CounterKind distinguishes bar counters (operators clock in, sales need an
// active barman) from office counters (explicit operator on every sale).
type CounterKind string

const (
	CounterBar    CounterKind = "bar"
	CounterOffice CounterKind = "office"
)

// ProductType categorizes products. Pricing lives at the product level.
type ProductType struct {
	ID          string `json:"id" bson:"_id,omitempty"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// Product is a sellable catalog item. Prices are fixed-precision and
// non-negative. Once a product has been referenced by a sale it is archived,
// never deleted, so historical records keep a valid target.
type Product struct {
	ID                  string          `json:"id" bson:"_id,omitempty"`
	Name                string          `json:"name" bson:"name"`
	Description         string          `json:"description,omitempty" bson:"description,omitempty"`
	Code                string          `json:"code" bson:"code"`
	TypeID              string          `json:"type_id,omitempty" bson:"type_id,omitempty"`
	PurchasePrice       decimal.Decimal `json:"purchase_price" bson:"-"`
	SellingPrice        decimal.Decimal `json:"selling_price" bson:"-"`
	SpecialSellingPrice decimal.Decimal `json:"special_selling_price" bson:"-"`
	ClubID              string          `json:"club_id" bson:"club_id"`
	ParentID            string          `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Archived            bool            `json:"archived" bson:"archived"`
}

// Price returns the unit price for a sale: the special tariff when requested,
// the standard selling price otherwise.
func (p Product) Price(special bool) decimal.Decimal {
	if special {
		return p.SpecialSellingPrice
	}
	return p.SellingPrice
}

// Counter is a point of sale owned by a club, selling a subset of the catalog.
type Counter struct {
	ID         string      `json:"id" bson:"_id,omitempty"`
	Name       string      `json:"name" bson:"name"`
	ClubID     string      `json:"club_id" bson:"club_id"`
	Kind       CounterKind `json:"kind" bson:"kind"`
	ProductIDs []string    `json:"product_ids" bson:"product_ids"`
	CreatedAt  time.Time   `json:"created_at" bson:"created_at"`
}

// Sells reports whether the counter carries the given product.
func (c Counter) Sells(productID string) bool {
	for _, id := range c.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
