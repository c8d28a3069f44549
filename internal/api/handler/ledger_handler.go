package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studorg/counter-system/internal/api/metrics"
	"github.com/studorg/counter-system/internal/core/ports"
)

// LedgerHandler handles the money-moving endpoints: sales and refills rung
// from a counter.
type LedgerHandler struct {
	ledger ports.LedgerService
}

func NewLedgerHandler(ledger ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// CreateSale handles POST /v1/counters/:id/sales.
//
// @Summary      Ring a sale at a counter
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Idempotency key to prevent duplicate submissions"
// @Param        id               path      string             true   "Counter ID"
// @Param        body             body      createSaleRequest  true   "Sale details"
// @Success      201              {object}  saleResponse
// @Failure      400              {object}  map[string]string
// @Failure      404              {object}  map[string]string
// @Failure      409              {object}  map[string]string
// @Failure      422              {object}  map[string]string
// @Router       /v1/counters/{id}/sales [post]
func (h *LedgerHandler) CreateSale(c echo.Context) error {
	var req createSaleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	counterID := c.Param("id")
	result, err := h.ledger.ApplySale(c.Request().Context(), ports.ApplySaleInput{
		CounterID:       counterID,
		CustomerAccount: req.CustomerAccount,
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		Special:         req.Special,
		SellerID:        req.SellerID,
		IdempotencyKey:  c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
		metrics.IdempotentReplaysTotal.WithLabelValues("sale").Inc()
	} else {
		metrics.SalesTotal.WithLabelValues(counterID).Inc()
		metrics.TransactionAmount.WithLabelValues("sale").Observe(result.Total.InexactFloat64())
	}

	return c.JSON(status, saleResponse{
		SaleID:    result.SaleID,
		UnitPrice: result.UnitPrice.String(),
		Quantity:  result.Quantity,
		Total:     result.Total.String(),
		SellerID:  result.SellerID,
		Balance:   result.Balance.String(),
		Date:      result.Date,
	})
}

// CreateRefill handles POST /v1/counters/:id/refills. The crediting operator
// is taken from the token claims.
//
// @Summary      Credit a customer account
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string               false  "Idempotency key to prevent duplicate submissions"
// @Param        id               path      string               true   "Counter ID"
// @Param        body             body      createRefillRequest  true   "Refill details"
// @Success      201              {object}  refillResponse
// @Failure      400              {object}  map[string]string
// @Failure      404              {object}  map[string]string
// @Failure      422              {object}  map[string]string
// @Router       /v1/counters/{id}/refills [post]
func (h *LedgerHandler) CreateRefill(c echo.Context) error {
	_, operatorID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createRefillRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	amount, err := parseMoney("amount", req.Amount)
	if err != nil {
		return err
	}

	result, err := h.ledger.ApplyRefill(c.Request().Context(), ports.ApplyRefillInput{
		CounterID:       c.Param("id"),
		CustomerAccount: req.CustomerAccount,
		Amount:          amount,
		OperatorID:      operatorID,
		PaymentMethod:   req.PaymentMethod,
		Bank:            req.Bank,
		IdempotencyKey:  c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
		metrics.IdempotentReplaysTotal.WithLabelValues("refill").Inc()
	} else {
		method := req.PaymentMethod
		if method == "" {
			method = "cash"
		}
		metrics.RefillsTotal.WithLabelValues(method).Inc()
		metrics.TransactionAmount.WithLabelValues("refill").Observe(result.Amount.InexactFloat64())
	}

	return c.JSON(status, refillResponse{
		RefillID: result.RefillID,
		Amount:   result.Amount.String(),
		Balance:  result.Balance.String(),
		Date:     result.Date,
	})
}
