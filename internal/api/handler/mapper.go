package handler

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/studorg/counter-system/internal/core/domain"
	"github.com/studorg/counter-system/internal/core/ports"
)

// parseMoney converts a decimal string from a request body. Malformed values
// surface as a validation error so the client gets a 422, not a 500.
func parseMoney(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s must be a decimal number", domain.ErrValidation, field)
	}
	return d, nil
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		Code:                p.Code,
		TypeID:              p.TypeID,
		PurchasePrice:       p.PurchasePrice.String(),
		SellingPrice:        p.SellingPrice.String(),
		SpecialSellingPrice: p.SpecialSellingPrice.String(),
		ClubID:              p.ClubID,
		ParentID:            p.ParentID,
		Archived:            p.Archived,
	}
}

func toCounterResponse(counter *domain.Counter) counterResponse {
	return counterResponse{
		ID:         counter.ID,
		Name:       counter.Name,
		ClubID:     counter.ClubID,
		Kind:       string(counter.Kind),
		ProductIDs: counter.ProductIDs,
		CreatedAt:  counter.CreatedAt,
	}
}

func toStatementResponse(st *ports.AccountStatement) statementResponse {
	resp := statementResponse{
		AccountID: st.AccountID,
		UserID:    st.UserID,
		Balance:   st.Balance.String(),
		Sales:     make([]statementSaleResponse, 0, len(st.Sales)),
		Refills:   make([]statementRefillResponse, 0, len(st.Refills)),
	}
	for _, s := range st.Sales {
		resp.Sales = append(resp.Sales, statementSaleResponse{
			SaleID:    s.SaleID,
			ProductID: s.ProductID,
			CounterID: s.CounterID,
			UnitPrice: s.UnitPrice.String(),
			Quantity:  s.Quantity,
			Total:     s.Total.String(),
			Date:      s.Date,
		})
	}
	for _, r := range st.Refills {
		resp.Refills = append(resp.Refills, statementRefillResponse{
			RefillID:      r.RefillID,
			CounterID:     r.CounterID,
			Amount:        r.Amount.String(),
			PaymentMethod: r.PaymentMethod,
			Date:          r.Date,
		})
	}
	return resp
}
