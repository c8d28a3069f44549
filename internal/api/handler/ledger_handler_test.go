package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/studorg/counter-system/internal/core/domain"
	"github.com/studorg/counter-system/internal/core/ports"
)

type stubLedgerService struct {
	applySaleFn   func(ctx context.Context, input ports.ApplySaleInput) (*ports.SaleResult, error)
	applyRefillFn func(ctx context.Context, input ports.ApplyRefillInput) (*ports.RefillResult, error)
	createFn      func(ctx context.Context, userID string) (*ports.AccountStatement, error)
	statementFn   func(ctx context.Context, accountID string, limit int) (*ports.AccountStatement, error)
}

func (s *stubLedgerService) ApplySale(ctx context.Context, input ports.ApplySaleInput) (*ports.SaleResult, error) {
	return s.applySaleFn(ctx, input)
}

func (s *stubLedgerService) ApplyRefill(ctx context.Context, input ports.ApplyRefillInput) (*ports.RefillResult, error) {
	return s.applyRefillFn(ctx, input)
}

func (s *stubLedgerService) CreateAccount(ctx context.Context, userID string) (*ports.AccountStatement, error) {
	return s.createFn(ctx, userID)
}

func (s *stubLedgerService) GetStatement(ctx context.Context, accountID string, limit int) (*ports.AccountStatement, error) {
	return s.statementFn(ctx, accountID, limit)
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func newSaleContext(e *echo.Echo, body string, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("bar-1")
	return c, rec
}

func TestLedgerHandler_CreateSale_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubLedgerService{
		applySaleFn: func(ctx context.Context, input ports.ApplySaleInput) (*ports.SaleResult, error) {
			if input.CounterID != "bar-1" || input.Quantity != 2 {
				t.Fatalf("unexpected input: %+v", input)
			}
			if input.IdempotencyKey != "key-1" {
				t.Fatalf("idempotency key not forwarded: %q", input.IdempotencyKey)
			}
			return &ports.SaleResult{
				SaleID:    "sale-1",
				UnitPrice: dec(t, "3.50"),
				Quantity:  2,
				Total:     dec(t, "7.00"),
				SellerID:  "op-1",
				Balance:   dec(t, "3.00"),
				Date:      time.Now(),
			}, nil
		},
	}
	h := NewLedgerHandler(stub)

	c, rec := newSaleContext(e,
		`{"customer_account":"ACC00001","product_id":"beer","quantity":2}`,
		map[string]string{"Idempotency-Key": "key-1"})

	if err := h.CreateSale(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != "7" || resp["balance"] != "3" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestLedgerHandler_CreateSale_Replay(t *testing.T) {
	e := newTestEcho()
	stub := &stubLedgerService{
		applySaleFn: func(ctx context.Context, input ports.ApplySaleInput) (*ports.SaleResult, error) {
			return &ports.SaleResult{
				SaleID:         "sale-1",
				UnitPrice:      dec(t, "3.50"),
				Quantity:       2,
				Total:          dec(t, "7.00"),
				Balance:        dec(t, "3.00"),
				AlreadyExisted: true,
			}, nil
		},
	}
	h := NewLedgerHandler(stub)

	c, rec := newSaleContext(e,
		`{"customer_account":"ACC00001","product_id":"beer","quantity":2}`,
		map[string]string{"Idempotency-Key": "key-1"})

	if err := h.CreateSale(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("replayed sale should be 200, got %d", rec.Code)
	}
}

func TestLedgerHandler_CreateSale_ZeroQuantityRejected(t *testing.T) {
	e := newTestEcho()
	stub := &stubLedgerService{
		applySaleFn: func(ctx context.Context, input ports.ApplySaleInput) (*ports.SaleResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewLedgerHandler(stub)

	c, rec := newSaleContext(e,
		`{"customer_account":"ACC00001","product_id":"beer","quantity":0}`, nil)

	if err := h.CreateSale(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLedgerHandler_CreateSale_EmptySession(t *testing.T) {
	e := newTestEcho()
	stub := &stubLedgerService{
		applySaleFn: func(ctx context.Context, input ports.ApplySaleInput) (*ports.SaleResult, error) {
			return nil, domain.ErrEmptySession
		},
	}
	h := NewLedgerHandler(stub)

	c, rec := newSaleContext(e,
		`{"customer_account":"ACC00001","product_id":"beer","quantity":1}`, nil)

	if err := h.CreateSale(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestLedgerHandler_CreateRefill_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubLedgerService{
		applyRefillFn: func(ctx context.Context, input ports.ApplyRefillInput) (*ports.RefillResult, error) {
			if !input.Amount.Equal(dec(t, "10.50")) {
				t.Fatalf("amount not parsed: %s", input.Amount)
			}
			if input.OperatorID != "op-1" {
				t.Fatalf("operator not taken from claims: %q", input.OperatorID)
			}
			return &ports.RefillResult{
				RefillID: "refill-1",
				Amount:   input.Amount,
				Balance:  dec(t, "15.50"),
				Date:     time.Now(),
			}, nil
		},
	}
	h := NewLedgerHandler(stub)

	c, rec := newSaleContext(e,
		`{"customer_account":"ACC00001","amount":"10.50","payment_method":"cash"}`, nil)
	c.Set("role", "barman")
	c.Set("operator_id", "op-1")

	if err := h.CreateRefill(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestLedgerHandler_CreateRefill_BadAmount(t *testing.T) {
	e := newTestEcho()
	stub := &stubLedgerService{
		applyRefillFn: func(ctx context.Context, input ports.ApplyRefillInput) (*ports.RefillResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewLedgerHandler(stub)

	c, rec := newSaleContext(e,
		`{"customer_account":"ACC00001","amount":"ten euros"}`, nil)
	c.Set("role", "barman")
	c.Set("operator_id", "op-1")

	if err := h.CreateRefill(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestLedgerHandler_CreateRefill_MissingClaims(t *testing.T) {
	e := newTestEcho()
	stub := &stubLedgerService{
		applyRefillFn: func(ctx context.Context, input ports.ApplyRefillInput) (*ports.RefillResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewLedgerHandler(stub)

	c, rec := newSaleContext(e,
		`{"customer_account":"ACC00001","amount":"10.00"}`, nil)

	if err := h.CreateRefill(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCustomerHandler_Statement_NotFound(t *testing.T) {
	e := newTestEcho()
	stub := &stubLedgerService{
		statementFn: func(ctx context.Context, accountID string, limit int) (*ports.AccountStatement, error) {
			return nil, domain.ErrCustomerNotFound
		},
	}
	h := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("account_id")
	c.SetParamValues("ACC404")

	if err := h.Statement(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCustomerHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubLedgerService{
		createFn: func(ctx context.Context, userID string) (*ports.AccountStatement, error) {
			return &ports.AccountStatement{
				AccountID: "ACC00001",
				UserID:    userID,
				Balance:   decimal.Zero,
			}, nil
		},
	}
	h := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"user_id":"user-1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["account_id"] != "ACC00001" || resp["balance"] != "0" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
