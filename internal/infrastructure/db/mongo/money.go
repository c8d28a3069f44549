package mongo

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Monetary values are stored as BSON Decimal128 so the database never holds a
// floating-point approximation of a balance or price.

func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	out, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		// decimal.Decimal.String() is always a valid decimal literal.
		panic(fmt.Sprintf("mongo: unrepresentable decimal %q: %v", d.String(), err))
	}
	return out
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	out, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("mongo: decode decimal %q: %w", d.String(), err)
	}
	return out, nil
}
