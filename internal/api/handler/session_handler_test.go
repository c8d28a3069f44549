package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/studorg/counter-system/internal/core/domain"
	"github.com/studorg/counter-system/internal/core/ports"
	"github.com/studorg/counter-system/internal/core/session"
)

type stubCatalogService struct {
	counters map[string]*domain.Counter
}

func (s *stubCatalogService) CreateProduct(context.Context, ports.CreateProductInput) (*domain.Product, error) {
	return nil, nil
}

func (s *stubCatalogService) ListProducts(context.Context, bool) ([]*domain.Product, error) {
	return nil, nil
}

func (s *stubCatalogService) ArchiveProduct(context.Context, string) error { return nil }

func (s *stubCatalogService) CreateProductType(context.Context, string, string) (*domain.ProductType, error) {
	return nil, nil
}

func (s *stubCatalogService) ListProductTypes(context.Context) ([]*domain.ProductType, error) {
	return nil, nil
}

func (s *stubCatalogService) CreateCounter(context.Context, ports.CreateCounterInput) (*domain.Counter, error) {
	return nil, nil
}

func (s *stubCatalogService) GetCounter(_ context.Context, id string) (*domain.Counter, error) {
	counter, ok := s.counters[id]
	if !ok {
		return nil, domain.ErrCounterNotFound
	}
	return counter, nil
}

func (s *stubCatalogService) ListCounters(context.Context) ([]*domain.Counter, error) {
	return nil, nil
}

type recorderStub struct {
	records []domain.Permanency
}

func (r *recorderStub) Record(p domain.Permanency) { r.records = append(r.records, p) }

type attendanceStub struct {
	records []*domain.Permanency
}

func (a *attendanceStub) Append(_ context.Context, p *domain.Permanency) error {
	a.records = append(a.records, p)
	return nil
}

func (a *attendanceStub) ListByCounter(_ context.Context, counterID string, _ int) ([]*domain.Permanency, error) {
	var out []*domain.Permanency
	for _, p := range a.records {
		if p.CounterID == counterID {
			out = append(out, p)
		}
	}
	return out, nil
}

func sessionFixture() (*SessionHandler, *recorderStub) {
	recorder := &recorderStub{}
	registry := session.NewRegistry(10*time.Minute, recorder, zerolog.Nop())
	catalog := &stubCatalogService{counters: map[string]*domain.Counter{
		"bar-1": {ID: "bar-1", Name: "Main bar", Kind: domain.CounterBar},
	}}
	return NewSessionHandler(registry, catalog, &attendanceStub{}), recorder
}

func sessionContext(e *echo.Echo, method, counterID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(counterID)
	c.Set("role", "barman")
	c.Set("operator_id", "op-1")
	return c, rec
}

func TestSessionHandler_LoginThenList(t *testing.T) {
	e := newTestEcho()
	h, _ := sessionFixture()

	c, rec := sessionContext(e, http.MethodPost, "bar-1")
	if err := h.Login(c); err != nil {
		t.Fatalf("login error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, rec = sessionContext(e, http.MethodGet, "bar-1")
	if err := h.List(c); err != nil {
		t.Fatalf("list error: %v", err)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Operators) != 1 || resp.Operators[0].OperatorID != "op-1" {
		t.Fatalf("unexpected session payload: %+v", resp)
	}
}

func TestSessionHandler_Login_UnknownCounter(t *testing.T) {
	e := newTestEcho()
	h, _ := sessionFixture()

	c, rec := sessionContext(e, http.MethodPost, "nope")
	if err := h.Login(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSessionHandler_Logout_RecordsAttendance(t *testing.T) {
	e := newTestEcho()
	h, recorder := sessionFixture()

	c, _ := sessionContext(e, http.MethodPost, "bar-1")
	if err := h.Login(c); err != nil {
		t.Fatalf("login error: %v", err)
	}

	c, rec := sessionContext(e, http.MethodDelete, "bar-1")
	if err := h.Logout(c); err != nil {
		t.Fatalf("logout error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(recorder.records) != 1 || recorder.records[0].OperatorID != "op-1" {
		t.Fatalf("attendance not recorded: %+v", recorder.records)
	}
}

func TestSessionHandler_Logout_WithoutLogin(t *testing.T) {
	e := newTestEcho()
	h, _ := sessionFixture()

	c, rec := sessionContext(e, http.MethodDelete, "bar-1")
	if err := h.Logout(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSessionHandler_Permanencies(t *testing.T) {
	e := newTestEcho()
	recorder := &recorderStub{}
	registry := session.NewRegistry(10*time.Minute, recorder, zerolog.Nop())
	catalog := &stubCatalogService{counters: map[string]*domain.Counter{
		"bar-1": {ID: "bar-1", Kind: domain.CounterBar},
	}}
	attendance := &attendanceStub{}
	now := time.Now()
	_ = attendance.Append(context.Background(), &domain.Permanency{
		ID: "p1", OperatorID: "op-1", CounterID: "bar-1",
		Start: now.Add(-time.Hour), End: now,
	})
	h := NewSessionHandler(registry, catalog, attendance)

	c, rec := sessionContext(e, http.MethodGet, "bar-1")
	if err := h.Permanencies(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []domain.Permanency
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0].OperatorID != "op-1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
