package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/studorg/counter-system/internal/core/ports"
)

const defaultStatementLimit = 50

// CustomerHandler handles HTTP requests for ledger accounts.
type CustomerHandler struct {
	ledger ports.LedgerService
}

func NewCustomerHandler(ledger ports.LedgerService) *CustomerHandler {
	return &CustomerHandler{ledger: ledger}
}

// Create handles POST /v1/customers.
//
// @Summary      Open a ledger account for a user
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAccountRequest  true  "Account owner"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/customers [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	st, err := h.ledger.CreateAccount(c.Request().Context(), req.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, accountResponse{
		AccountID: st.AccountID,
		UserID:    st.UserID,
		Balance:   st.Balance.String(),
	})
}

// Statement handles GET /v1/customers/:account_id.
//
// @Summary      Account statement: balance plus recent sales and refills
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        account_id  path      string  true   "Account ID"
// @Param        limit       query     int     false  "Max log entries per kind (default 50)"
// @Success      200         {object}  statementResponse
// @Failure      404         {object}  map[string]string
// @Router       /v1/customers/{account_id} [get]
func (h *CustomerHandler) Statement(c echo.Context) error {
	limit := defaultStatementLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	st, err := h.ledger.GetStatement(c.Request().Context(), c.Param("account_id"), limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toStatementResponse(st))
}

// Transactions handles GET /v1/customers/:account_id/transactions. Same data
// source as the statement, without the balance header.
//
// @Summary      Recent sales and refills for an account
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        account_id  path      string  true   "Account ID"
// @Param        limit       query     int     false  "Max log entries per kind (default 50)"
// @Success      200         {object}  transactionsResponse
// @Failure      404         {object}  map[string]string
// @Router       /v1/customers/{account_id}/transactions [get]
func (h *CustomerHandler) Transactions(c echo.Context) error {
	limit := defaultStatementLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	st, err := h.ledger.GetStatement(c.Request().Context(), c.Param("account_id"), limit)
	if err != nil {
		return err
	}

	full := toStatementResponse(st)
	return c.JSON(http.StatusOK, transactionsResponse{
		Sales:   full.Sales,
		Refills: full.Refills,
	})
}
